package meshdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrid(t *testing.T) {
	t.Parallel()

	g, err := ParseGrid(strings.NewReader("1,2,3\n4.5, -6e-2 ,7\n"))
	require.NoError(t, err)

	assert.Equal(t, Shape{Rows: 2, Cols: 3}, g.Shape())
	assert.Equal(t, [][]float64{{1, 2, 3}, {4.5, -0.06, 7}}, g.Values())
	assert.Equal(t, 4.5, g.At(1, 0))

	lo, hi := g.Range()
	assert.Equal(t, -0.06, lo)
	assert.Equal(t, 7.0, hi)
}

func TestParseGrid_NoTrailingNewline(t *testing.T) {
	t.Parallel()

	g, err := ParseGrid(strings.NewReader("0,1\n1,0"))
	require.NoError(t, err)
	assert.Equal(t, Shape{Rows: 2, Cols: 2}, g.Shape())
}

func TestParseGrid_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"ragged rows", "1,2,3,4\n5,6,7,8\n9,10,11\n", "line 3: has 3 columns, want 4"},
		{"long row", "1,2\n3,4,5\n", "line 2: has 3 columns, want 2"},
		{"non-numeric cell", "1,2\n3,abc\n", `line 2 column 2: invalid number "abc"`},
		{"trailing comma", "1,2,\n", "line 1 column 3"},
		{"empty file", "", "grid has no cells"},
		{"bare quote", "1,\"2\n", "line"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g, err := ParseGrid(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrMalformedGrid)
			assert.Nil(t, g)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParseMetadata(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"# written by the solver",
		"h=50",
		"w = 50",
		"d=50",
		"dx=0.000143",
		"",
		"t0=0.1",
		"t2=0.3",
		"t1=0.2",
		"tmax=1.5",
	}, "\n")

	md, err := ParseMetadata(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []float64{0.1, 0.2, 0.3}, md.Timestamps())
	assert.True(t, md.HasTimestamps())
	assert.Equal(t, []string{"d", "dx", "h", "tmax", "w"}, md.Keys())

	h, ok := md.Height()
	assert.True(t, ok)
	assert.Equal(t, 50.0, h)

	dx, ok := md.Spacing()
	assert.True(t, ok)
	assert.Equal(t, 0.000143, dx)

	_, ok = md.TimeStep()
	assert.False(t, ok)
}

func TestParseMetadata_SparseSlots(t *testing.T) {
	t.Parallel()

	md, err := ParseMetadata(strings.NewReader("t150=1.5\nt0=0\nt300=3\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1.5, 3}, md.Timestamps())
	assert.Empty(t, md.Keys())
}

func TestParseMetadata_Empty(t *testing.T) {
	t.Parallel()

	md, err := ParseMetadata(strings.NewReader(""))
	require.NoError(t, err)
	assert.False(t, md.HasTimestamps())
	assert.Empty(t, md.Scalars())
}

func TestParseMetadata_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"missing equals", "h=50\nwidth 50\n", `line 2: expected key=value, got "width 50"`},
		{"empty key", "=3\n", "line 1: expected key=value"},
		{"non-numeric value", "h=tall\n", `key "h": invalid number "tall"`},
		{"non-numeric timestamp", "t0=soon\n", `key "t0": invalid number "soon"`},
		{"empty value", "dx=\n", `key "dx": invalid number ""`},
		{"duplicate key", "h=1\nh=2\n", `line 2: duplicate key "h"`},
		{"duplicate slot", "t1=1\nt01=2\n", `duplicate timestamp slot "t01"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			md, err := ParseMetadata(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrMalformedMetadata)
			assert.Nil(t, md)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestMetadata_NilSafe(t *testing.T) {
	t.Parallel()

	var md *Metadata
	_, ok := md.Scalar("h")
	assert.False(t, ok)
	assert.Nil(t, md.Keys())
	assert.Nil(t, md.Timestamps())
	assert.False(t, md.HasTimestamps())
	assert.Empty(t, md.Scalars())
}

func TestMetadata_CopiesAreIndependent(t *testing.T) {
	t.Parallel()

	md, err := ParseMetadata(strings.NewReader("h=1\nt0=5\n"))
	require.NoError(t, err)

	ts := md.Timestamps()
	ts[0] = 99
	sc := md.Scalars()
	sc["h"] = 99

	assert.Equal(t, []float64{5}, md.Timestamps())
	h, _ := md.Scalar("h")
	assert.Equal(t, 1.0, h)
}
