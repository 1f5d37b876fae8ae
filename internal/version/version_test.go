package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	oldV, oldSHA, oldTime := Version, GitSHA, BuildTime
	t.Cleanup(func() { Version, GitSHA, BuildTime = oldV, oldSHA, oldTime })

	Version, GitSHA, BuildTime = "v1.2.3", "abc1234", "2026-01-02T03:04:05Z"
	assert.Equal(t, "meshanim v1.2.3 (abc1234, built 2026-01-02T03:04:05Z)", String())
}
