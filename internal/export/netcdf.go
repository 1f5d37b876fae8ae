// Package export writes an assembled dataset to self-describing archive
// formats and records what a run produced.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"

	"github.com/simehaa/AlievPanfilovCPU/internal/fsutil"
	"github.com/simehaa/AlievPanfilovCPU/internal/meshdata"
	"github.com/simehaa/AlievPanfilovCPU/internal/monitoring"
)

// Dimension and variable names used in the archive.
const (
	FrameDim = "frame"
	TimeVar  = "time"
)

// NetCDF name rules as enforced by the cdf writer: a letter, digit or
// underscore first, no control characters or slashes, no trailing
// space and no reserved type names.
var (
	validName    = regexp.MustCompile(`^[\pL\pN_][^\pC/]*$`)
	reservedName = regexp.MustCompile(`(\pZ|^(u?byte|char|string|u?short|u?int|u?int64|uint64|float|double|enum|opaque|compound))$`)
)

// validAttrName reports whether name can be stored as an attribute.
func validAttrName(name string) bool {
	return validName.MatchString(name) && !reservedName.MatchString(name)
}

// seriesValues returns the samples of s as [frame][row][col].
func seriesValues(s meshdata.Series) [][][]float64 {
	out := make([][][]float64, s.Len())
	for i := range out {
		out[i] = s.Grid(i).Values()
	}
	return out
}

// seriesAttrs describes where a series came from.
func seriesAttrs(s meshdata.Series) (*util.OrderedMap, error) {
	slice := s.Key().Slice.String()
	if slice == "" {
		slice = "none"
	}
	idx := s.Indices()
	steps := make([]int32, len(idx))
	for i, v := range idx {
		steps[i] = int32(v)
	}
	return util.NewOrderedMap(
		[]string{"field", "slice", "timestep_index"},
		map[string]interface{}{
			"field":          s.Key().Field.String(),
			"slice":          slice,
			"timestep_index": steps,
		})
}

// globalAttrs turns metadata scalars into global attributes. It returns
// nil when there are none.
func globalAttrs(md *meshdata.Metadata) (*util.OrderedMap, error) {
	keys := md.Keys()
	if len(keys) == 0 {
		return nil, nil
	}
	for _, k := range keys {
		if !validAttrName(k) {
			return nil, fmt.Errorf("metadata key %q is not a valid NetCDF attribute name", k)
		}
	}
	values := make(map[string]interface{}, len(keys))
	for k, v := range md.Scalars() {
		values[k] = v
	}
	return util.NewOrderedMap(keys, values)
}

// WriteNetCDF stores ds as a classic NetCDF file at path: one
// [frame][row][col] double variable per series, a time variable when
// the metadata has timestamps, and metadata scalars as global
// attributes. The file is removed again if any part fails.
func WriteNetCDF(ds *meshdata.Dataset, path string) (err error) {
	defer monitoring.Stage("netcdf export " + path)()

	attrs, err := globalAttrs(ds.Metadata())
	if err != nil {
		return fmt.Errorf("metadata attributes: %w", err)
	}

	cw, err := cdf.OpenWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create netcdf file: %w", err)
	}
	defer func() {
		if cerr := cw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to write netcdf file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if attrs != nil {
		if err := cw.AddGlobalAttrs(attrs); err != nil {
			return fmt.Errorf("metadata attributes: %w", err)
		}
	}

	for _, k := range ds.Keys() {
		s, _ := ds.Series(k)
		va, err := seriesAttrs(s)
		if err != nil {
			return fmt.Errorf("series %s attributes: %w", k, err)
		}
		name := k.String()
		err = cw.AddVar(name, api.Variable{
			Values:     seriesValues(s),
			Dimensions: []string{FrameDim, name + "_row", name + "_col"},
			Attributes: va,
		})
		if err != nil {
			return fmt.Errorf("series %s: %w", k, err)
		}
	}

	if ts := ds.Metadata().Timestamps(); len(ts) > 0 {
		if err := cw.AddVar(TimeVar, api.Variable{
			Values:     ts,
			Dimensions: []string{FrameDim},
		}); err != nil {
			return fmt.Errorf("timestamps: %w", err)
		}
	}

	return nil
}

// WriteNetCDFTo stores ds at path inside fsys. The cdf writer only
// writes to disk, so for any other filesystem the archive is built in a
// temporary directory and copied in.
func WriteNetCDFTo(fsys fsutil.FileSystem, ds *meshdata.Dataset, path string) (err error) {
	if fsys == nil {
		return WriteNetCDF(ds, path)
	}
	if _, ok := fsys.(fsutil.OSFileSystem); ok {
		return WriteNetCDF(ds, path)
	}

	tmpDir, err := os.MkdirTemp("", "meshanim-netcdf-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	staged := filepath.Join(tmpDir, filepath.Base(path))
	if err := WriteNetCDF(ds, staged); err != nil {
		return err
	}

	src, err := os.Open(staged)
	if err != nil {
		return fmt.Errorf("failed to open staged archive: %w", err)
	}
	defer src.Close()

	dst, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to write %s: %w", path, cerr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
