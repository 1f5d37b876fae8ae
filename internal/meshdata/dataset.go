package meshdata

import (
	"fmt"
	"sort"
)

// Key identifies one series: a field on a slice plane.
type Key struct {
	Field Field
	Slice Slice
}

// String returns the filename stem of the series, e.g. "e" or "r_xz".
func (k Key) String() string {
	if k.Slice == SliceNone {
		return k.Field.String()
	}
	return k.Field.String() + "_" + k.Slice.String()
}

// Less orders keys by field, then slice.
func (k Key) Less(o Key) bool {
	if k.Field != o.Field {
		return k.Field < o.Field
	}
	return k.Slice < o.Slice
}

// Series is the time-ordered sequence of grids for one key.
type Series struct {
	key     Key
	indices []int
	grids   []*Grid
}

// Key returns the series key.
func (s Series) Key() Key { return s.key }

// Len returns the number of frames.
func (s Series) Len() int { return len(s.grids) }

// Grid returns frame i.
func (s Series) Grid(i int) *Grid { return s.grids[i] }

// Index returns the timestep index parsed from the filename of frame i.
func (s Series) Index(i int) int { return s.indices[i] }

// Indices returns a copy of the timestep indices in frame order.
func (s Series) Indices() []int { return append([]int(nil), s.indices...) }

// Shape returns the common shape of every grid in the series.
func (s Series) Shape() Shape {
	if len(s.grids) == 0 {
		return Shape{}
	}
	return s.grids[0].Shape()
}

// Dataset is the validated result of loading a data directory. All
// series have the same number of frames, and when the metadata carries
// timestamps there is exactly one per frame. A Dataset is not modified
// after Assemble returns it.
type Dataset struct {
	series   map[Key]Series
	keys     []Key
	frames   int
	metadata *Metadata
}

// Keys returns the series keys ordered by field, then slice.
func (d *Dataset) Keys() []Key {
	return append([]Key(nil), d.keys...)
}

// Series returns the series for k.
func (d *Dataset) Series(k Key) (Series, bool) {
	s, ok := d.series[k]
	return s, ok
}

// FrameCount returns the number of frames shared by every series.
func (d *Dataset) FrameCount() int {
	return d.frames
}

// Frame returns frame i of every series.
func (d *Dataset) Frame(i int) map[Key]*Grid {
	if i < 0 || i >= d.frames {
		panic(fmt.Sprintf("meshdata: frame %d out of range [0,%d)", i, d.frames))
	}
	out := make(map[Key]*Grid, len(d.series))
	for k, s := range d.series {
		out[k] = s.grids[i]
	}
	return out
}

// Metadata returns the parsed info.txt, or nil when none was present.
func (d *Dataset) Metadata() *Metadata {
	return d.metadata
}

// Timestamp returns the time of frame i when the metadata has timestamps.
func (d *Dataset) Timestamp(i int) (float64, bool) {
	if !d.metadata.HasTimestamps() || i < 0 || i >= len(d.metadata.timestamps) {
		return 0, false
	}
	return d.metadata.timestamps[i], true
}

// frameEntry is one parsed grid file before ordering.
type frameEntry struct {
	index int
	name  string
	grid  *Grid
}

// newDataset orders every bucket by timestep index and enforces the
// cross-series invariants.
func newDataset(buckets map[Key][]frameEntry, md *Metadata) (*Dataset, error) {
	if len(buckets) == 0 {
		return nil, fmt.Errorf("%w: no grid files found", ErrInconsistentDataset)
	}

	d := &Dataset{
		series:   make(map[Key]Series, len(buckets)),
		metadata: md,
	}
	for k := range buckets {
		d.keys = append(d.keys, k)
	}
	sort.Slice(d.keys, func(i, j int) bool { return d.keys[i].Less(d.keys[j]) })

	for _, k := range d.keys {
		s, err := buildSeries(k, buckets[k])
		if err != nil {
			return nil, err
		}
		d.series[k] = s
	}

	first := d.series[d.keys[0]]
	d.frames = first.Len()
	for _, k := range d.keys[1:] {
		if n := d.series[k].Len(); n != d.frames {
			return nil, fmt.Errorf("%w: series %s has %d frames but series %s has %d",
				ErrInconsistentDataset, k, n, first.key, d.frames)
		}
	}

	if md.HasTimestamps() && len(md.timestamps) != d.frames {
		return nil, fmt.Errorf("%w: %s has %d timestamps for %d frames",
			ErrInconsistentDataset, MetadataFilename, len(md.timestamps), d.frames)
	}

	return d, nil
}

func buildSeries(k Key, entries []frameEntry) (Series, error) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })

	s := Series{
		key:     k,
		indices: make([]int, len(entries)),
		grids:   make([]*Grid, len(entries)),
	}
	want := entries[0].grid.Shape()
	for i, e := range entries {
		if i > 0 && e.index == entries[i-1].index {
			return Series{}, fmt.Errorf("%w: %s and %s both hold timestep %d of series %s",
				ErrInconsistentDataset, entries[i-1].name, e.name, e.index, k)
		}
		if got := e.grid.Shape(); got != want {
			return Series{}, fmt.Errorf("%w: %s is %s but series %s is %s (%s)",
				ErrInconsistentDataset, e.name, got, k, want, entries[0].name)
		}
		s.indices[i] = e.index
		s.grids[i] = e.grid
	}
	return s, nil
}
