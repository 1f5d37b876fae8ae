package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGridCSV(t *testing.T) {
	got := GridCSV(2, 3, func(r, c int) float64 { return float64(r*10+c) + 0.5 })
	want := "0.5,1.5,2.5\n10.5,11.5,12.5\n"
	if got != want {
		t.Errorf("GridCSV = %q, want %q", got, want)
	}
}

func TestMeshFixture_Files(t *testing.T) {
	f := MeshFixture{Stems: []string{"e", "r_xy"}, Frames: 2, Rows: 1, Cols: 2, FirstIndex: 5, Step: 5, Info: "dt=1\n"}
	files := f.Files()

	want := map[string]string{
		"e_5.csv":     "0,1\n",
		"e_10.csv":    "1,2\n",
		"r_xy_5.csv":  "0,1\n",
		"r_xy_10.csv": "1,2\n",
		"info.txt":    "dt=1\n",
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d: %v", len(want), len(files), files)
	}
	for name, body := range want {
		if files[name] != body {
			t.Errorf("%s = %q, want %q", name, files[name], body)
		}
	}
}

func TestMeshFixture_SolverNames(t *testing.T) {
	files := MeshFixture{Stems: []string{"e"}, Frames: 1, Rows: 1, Cols: 1, Solver: true}.Files()
	if _, ok := files["e0.csv"]; !ok {
		t.Errorf("expected e0.csv, got %v", files)
	}
}

func TestMeshFixture_Memory(t *testing.T) {
	mfs := MeshFixture{Stems: []string{"e"}, Frames: 3, Rows: 2, Cols: 2}.Memory(t, "/data")

	entries, err := mfs.ReadDir("/data")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestMeshFixture_Dir(t *testing.T) {
	dir := MeshFixture{Stems: []string{"r"}, Frames: 1, Rows: 1, Cols: 1, Info: "h=1\n"}.Dir(t)

	data, err := os.ReadFile(filepath.Join(dir, "info.txt"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "h=1\n" {
		t.Errorf("info.txt = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "r_0.csv")); err != nil {
		t.Errorf("expected r_0.csv: %v", err)
	}
}
