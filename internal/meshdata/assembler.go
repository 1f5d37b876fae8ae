package meshdata

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/simehaa/AlievPanfilovCPU/internal/fsutil"
	"github.com/simehaa/AlievPanfilovCPU/internal/monitoring"
)

// Assembler loads data directories through a FileSystem.
type Assembler struct {
	fs fsutil.FileSystem
}

// NewAssembler returns an Assembler reading from fsys. A nil fsys means
// the OS filesystem.
func NewAssembler(fsys fsutil.FileSystem) *Assembler {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	return &Assembler{fs: fsys}
}

// Assemble loads dir from the OS filesystem.
func Assemble(dir string) (*Dataset, error) {
	return NewAssembler(nil).Assemble(dir)
}

// Assemble classifies every entry of dir, parses grid files and
// info.txt, orders each series by timestep index and validates the
// result. Any stray entry, parse failure or inconsistency aborts the
// whole load; no partial Dataset is ever returned.
func (a *Assembler) Assemble(dir string) (*Dataset, error) {
	defer monitoring.Stage("assemble " + dir)()

	entries, err := a.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}

	// Visit entries by name so that the first error reported does not
	// depend on listing order. Frame order comes from the parsed index.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	buckets := make(map[Key][]frameEntry)
	var md *Metadata
	for _, e := range entries {
		name := e.Name()
		path := filepath.Join(dir, name)
		c := Classify(name)
		if e.IsDir() {
			c.Kind = KindUnrecognized
		}
		switch c.Kind {
		case KindData:
			g, err := readFile(a.fs, path, ParseGrid)
			if err != nil {
				return nil, err
			}
			buckets[c.Key()] = append(buckets[c.Key()], frameEntry{index: c.Index, name: name, grid: g})
		case KindMetadata:
			md, err = readFile(a.fs, path, ParseMetadata)
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnrecognizedFilename, path)
		}
	}

	d, err := newDataset(buckets, md)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}

	monitoring.Logf("loaded %d series x %d frames from %s", len(d.keys), d.frames, dir)
	return d, nil
}

// readFile opens path, parses it and closes it before returning, so at
// most one data file is open at a time.
func readFile[T any](fsys fsutil.FileSystem, path string, parse func(io.Reader) (*T, error)) (*T, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	v, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
