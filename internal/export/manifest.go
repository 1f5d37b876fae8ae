package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/simehaa/AlievPanfilovCPU/internal/fsutil"
	"github.com/simehaa/AlievPanfilovCPU/internal/meshdata"
	"github.com/simehaa/AlievPanfilovCPU/internal/version"
)

// ManifestName is the default manifest filename written next to the
// other outputs.
const ManifestName = "manifest.json"

// SeriesSummary describes one series of the exported dataset.
type SeriesSummary struct {
	Key     string `json:"key"`
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`
	Indices []int  `json:"timestep_indices"`
}

// Manifest records what one run read and wrote.
type Manifest struct {
	RunID      string             `json:"run_id"`
	CreatedAt  time.Time          `json:"created_at"`
	Version    string             `json:"version"`
	GitSHA     string             `json:"git_sha"`
	SourceDir  string             `json:"source_dir"`
	FrameCount int                `json:"frame_count"`
	Series     []SeriesSummary    `json:"series"`
	Scalars    map[string]float64 `json:"scalars,omitempty"`
	Timestamps []float64          `json:"timestamps,omitempty"`
	Outputs    []string           `json:"outputs"`
}

// now is swapped in tests.
var now = time.Now

// NewManifest summarises ds, loaded from sourceDir. Outputs starts empty.
func NewManifest(ds *meshdata.Dataset, sourceDir string) *Manifest {
	m := &Manifest{
		RunID:      uuid.New().String(),
		CreatedAt:  now().UTC(),
		Version:    version.Version,
		GitSHA:     version.GitSHA,
		SourceDir:  sourceDir,
		FrameCount: ds.FrameCount(),
		Outputs:    []string{},
	}
	for _, k := range ds.Keys() {
		s, _ := ds.Series(k)
		shape := s.Shape()
		m.Series = append(m.Series, SeriesSummary{
			Key:     k.String(),
			Rows:    shape.Rows,
			Cols:    shape.Cols,
			Indices: s.Indices(),
		})
	}
	if md := ds.Metadata(); md != nil {
		if sc := md.Scalars(); len(sc) > 0 {
			m.Scalars = sc
		}
		m.Timestamps = md.Timestamps()
	}
	return m
}

// AddOutput records a file written during the run.
func (m *Manifest) AddOutput(path string) {
	m.Outputs = append(m.Outputs, path)
}

// WriteManifest writes m as indented JSON to path, creating the parent
// directory if needed.
func WriteManifest(fsys fsutil.FileSystem, m *Manifest, path string) (err error) {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	w, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to write manifest: %w", cerr)
		}
	}()

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
