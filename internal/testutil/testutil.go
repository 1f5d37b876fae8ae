// Package testutil provides shared test fixtures for mesh data
// directories.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/simehaa/AlievPanfilovCPU/internal/fsutil"
)

// MeshFixture describes a data directory: Frames grids of Rows x Cols
// for every stem, named <stem>_<index>.csv, plus an optional info.txt.
type MeshFixture struct {
	Stems  []string
	Frames int
	Rows   int
	Cols   int

	// FirstIndex is the timestep index of frame 0; Step spaces the rest.
	// Step 0 means 1.
	FirstIndex int
	Step       int

	// Solver names files <stem><index>.csv, as the solver writes them.
	Solver bool

	// Cell returns the value at (r, c) of frame i. Nil means i+r+c.
	Cell func(i, r, c int) float64

	// Info is written verbatim to info.txt when non-empty.
	Info string
}

// GridCSV formats a rows x cols grid as headerless CSV.
func GridCSV(rows, cols int, cell func(r, c int) float64) string {
	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatFloat(cell(r, c), 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Index returns the timestep index of frame i.
func (f MeshFixture) Index(i int) int {
	step := f.Step
	if step == 0 {
		step = 1
	}
	return f.FirstIndex + i*step
}

// Files returns the fixture contents keyed by filename.
func (f MeshFixture) Files() map[string]string {
	cell := f.Cell
	if cell == nil {
		cell = func(i, r, c int) float64 { return float64(i + r + c) }
	}
	sep := "_"
	if f.Solver {
		sep = ""
	}

	files := make(map[string]string)
	for _, stem := range f.Stems {
		for i := 0; i < f.Frames; i++ {
			name := fmt.Sprintf("%s%s%d.csv", stem, sep, f.Index(i))
			files[name] = GridCSV(f.Rows, f.Cols, func(r, c int) float64 { return cell(i, r, c) })
		}
	}
	if f.Info != "" {
		files["info.txt"] = f.Info
	}
	return files
}

// names returns the fixture filenames in sorted order.
func names(files map[string]string) []string {
	out := make([]string, 0, len(files))
	for n := range files {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Memory writes the fixture into a new in-memory filesystem under dir.
func (f MeshFixture) Memory(t testing.TB, dir string) *fsutil.MemoryFileSystem {
	t.Helper()
	mfs := fsutil.NewMemoryFileSystem()
	if err := mfs.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	files := f.Files()
	for _, n := range names(files) {
		if err := mfs.WriteFile(filepath.Join(dir, n), []byte(files[n]), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	return mfs
}

// Dir writes the fixture into a fresh temporary directory and returns
// its path.
func (f MeshFixture) Dir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	files := f.Files()
	for _, n := range names(files) {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(files[n]), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	return dir
}
