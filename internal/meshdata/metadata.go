package meshdata

import "sort"

// Reserved scalar keys written by the solver.
const (
	KeyHeight   = "h"
	KeyWidth    = "w"
	KeyDepth    = "d"
	KeySpacing  = "dx"
	KeyTimeStep = "dt"
)

// Metadata holds the scalars and frame timestamps from info.txt.
type Metadata struct {
	scalars    map[string]float64
	timestamps []float64
}

// Scalar returns the value of a non-timestamp key.
func (m *Metadata) Scalar(key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.scalars[key]
	return v, ok
}

// Keys returns the scalar keys in lexical order.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.scalars))
	for k := range m.scalars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Scalars returns a copy of the scalar map.
func (m *Metadata) Scalars() map[string]float64 {
	out := make(map[string]float64)
	if m == nil {
		return out
	}
	for k, v := range m.scalars {
		out[k] = v
	}
	return out
}

// Timestamps returns a copy of the frame timestamps ordered by slot.
func (m *Metadata) Timestamps() []float64 {
	if m == nil {
		return nil
	}
	return append([]float64(nil), m.timestamps...)
}

// HasTimestamps reports whether any t<N> keys were present.
func (m *Metadata) HasTimestamps() bool {
	return m != nil && len(m.timestamps) > 0
}

// Height returns the solver mesh height (h).
func (m *Metadata) Height() (float64, bool) { return m.Scalar(KeyHeight) }

// Width returns the solver mesh width (w).
func (m *Metadata) Width() (float64, bool) { return m.Scalar(KeyWidth) }

// Depth returns the solver mesh depth (d).
func (m *Metadata) Depth() (float64, bool) { return m.Scalar(KeyDepth) }

// Spacing returns the grid spacing (dx).
func (m *Metadata) Spacing() (float64, bool) { return m.Scalar(KeySpacing) }

// TimeStep returns the solver time step (dt).
func (m *Metadata) TimeStep() (float64, bool) { return m.Scalar(KeyTimeStep) }
