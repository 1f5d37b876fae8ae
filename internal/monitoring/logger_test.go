package monitoring

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	assert.True(t, called, "custom logger was not called")

	// nil installs a no-op logger
	called = false
	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("test message") })
	assert.False(t, called)
}

func TestLogf_Default(t *testing.T) {
	require.NotNil(t, Logf)
	assert.NotPanics(t, func() { Logf("test message: %s", "value") })
}

func TestStage(t *testing.T) {
	originalLogf, originalNow := Logf, now
	defer func() { Logf, now = originalLogf, originalNow }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(1500 * time.Millisecond)}
	now = func() time.Time {
		t := ticks[0]
		ticks = ticks[1:]
		return t
	}

	done := Stage("assemble ./data")
	done()

	require.Len(t, lines, 2)
	assert.Equal(t, "assemble ./data: started", lines[0])
	assert.Equal(t, "assemble ./data: done in 1.5s", lines[1])
}
