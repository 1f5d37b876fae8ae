package meshdata

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Shape is the row/column extent of a Grid.
type Shape struct {
	Rows int
	Cols int
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

// Grid is one field sampled over one slice at one timestep. It is
// read-only once built.
type Grid struct {
	m *mat.Dense
}

// NewGrid builds a grid from row-major rows. All rows must have the same
// non-zero length.
func NewGrid(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: grid has no cells", ErrMalformedGrid)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrMalformedGrid, i+1, len(r), cols)
		}
		data = append(data, r...)
	}
	return &Grid{m: mat.NewDense(len(rows), cols, data)}, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	r, _ := g.m.Dims()
	return r
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	_, c := g.m.Dims()
	return c
}

// Shape returns the grid extent.
func (g *Grid) Shape() Shape {
	r, c := g.m.Dims()
	return Shape{Rows: r, Cols: c}
}

// At returns the sample at row r, column c.
func (g *Grid) At(r, c int) float64 {
	return g.m.At(r, c)
}

// Row returns a copy of row r.
func (g *Grid) Row(r int) []float64 {
	return mat.Row(nil, r, g.m)
}

// Values returns a copy of the samples as row-major rows.
func (g *Grid) Values() [][]float64 {
	rows, _ := g.m.Dims()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = g.Row(i)
	}
	return out
}

// Range returns the smallest and largest sample.
func (g *Grid) Range() (lo, hi float64) {
	return mat.Min(g.m), mat.Max(g.m)
}

// Equal reports whether both grids have the same shape and samples.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.Shape() == o.Shape() && mat.Equal(g.m, o.m)
}
