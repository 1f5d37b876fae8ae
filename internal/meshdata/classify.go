// Package meshdata loads a directory of per-timestep mesh slices into an
// ordered, validated Dataset.
//
// A data directory holds files named <field>[_<slice>]_<N>.csv, where
// field is "e" or "r", slice is "xy" or "xz" and N is the timestep
// index, plus an optional info.txt with key=value scalars and t<N>=<time>
// frame timestamps. Frame order always comes from N, never from the order
// in which the directory is listed.
package meshdata

import (
	"regexp"
	"strconv"
)

// MetadataFilename is the reserved name of the scalar metadata file.
const MetadataFilename = "info.txt"

// Field identifies the sampled quantity.
type Field int

const (
	// FieldE is the primary (excitation) field, files prefixed "e".
	FieldE Field = iota
	// FieldR is the secondary (recovery) field, files prefixed "r".
	FieldR
)

func (f Field) String() string {
	switch f {
	case FieldE:
		return "e"
	case FieldR:
		return "r"
	}
	return "Field(" + strconv.Itoa(int(f)) + ")"
}

// Slice identifies the cross-section plane a grid was cut from.
type Slice int

const (
	// SliceNone is used when filenames carry no plane tag.
	SliceNone Slice = iota
	// SliceXY is the horizontal plane, tagged "xy".
	SliceXY
	// SliceXZ is the vertical plane, tagged "xz".
	SliceXZ
)

func (s Slice) String() string {
	switch s {
	case SliceNone:
		return ""
	case SliceXY:
		return "xy"
	case SliceXZ:
		return "xz"
	}
	return "Slice(" + strconv.Itoa(int(s)) + ")"
}

// Kind tags the result of Classify.
type Kind int

const (
	// KindUnrecognized is any name the loader must reject.
	KindUnrecognized Kind = iota
	// KindData is a grid file for one timestep of one series.
	KindData
	// KindMetadata is the info.txt file.
	KindMetadata
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindMetadata:
		return "metadata"
	}
	return "unrecognized"
}

// Classification is what a filename means to the loader. Field, Slice
// and Index are only meaningful when Kind is KindData.
type Classification struct {
	Kind  Kind
	Field Field
	Slice Slice
	Index int
}

// Key returns the series key for a data file.
func (c Classification) Key() Key {
	return Key{Field: c.Field, Slice: c.Slice}
}

// The separator before the index may be dropped only when there is no
// slice tag, so the solver's own output (e0.csv, r12.csv) is accepted
// alongside e_0.csv and e_xy_0.csv but e_xy0.csv is not.
var dataFilePattern = regexp.MustCompile(`^(e|r)(?:_(xy|xz)_|_)?([0-9]+)\.csv$`)

var fieldsByPrefix = map[string]Field{"e": FieldE, "r": FieldR}

var slicesByTag = map[string]Slice{"": SliceNone, "xy": SliceXY, "xz": SliceXZ}

// Classify maps a bare filename (no directory part) to its meaning.
func Classify(name string) Classification {
	if name == MetadataFilename {
		return Classification{Kind: KindMetadata}
	}

	m := dataFilePattern.FindStringSubmatch(name)
	if m == nil {
		return Classification{Kind: KindUnrecognized}
	}

	idx, err := strconv.Atoi(m[3])
	if err != nil {
		// only reachable on overflow
		return Classification{Kind: KindUnrecognized}
	}

	return Classification{
		Kind:  KindData,
		Field: fieldsByPrefix[m[1]],
		Slice: slicesByTag[m[2]],
		Index: idx,
	}
}
