package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fs := OSFileSystem{}

	if !fs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}

	if fs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_ReadDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"e_2.csv", "e_1.csv", "info.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("1"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	entries, err := OSFileSystem{}.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestOSFileSystem_CreateAndOpen(t *testing.T) {
	osfs := OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "out", "nested")

	if err := osfs.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	path := filepath.Join(dir, "result.txt")
	w, err := osfs.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("frame data")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := osfs.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "frame data" {
		t.Errorf("expected 'frame data', got %q", data)
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	testData := []byte("1,2,3\n4,5,6\n")
	if err := mfs.WriteFile("/data/e_1.csv", testData, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := mfs.ReadFile("/data/e_1.csv")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}

	if !mfs.Exists("/data") {
		t.Error("expected parent directory to be created implicitly")
	}
}

func TestMemoryFileSystem_CreateAndOpen(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/out/result.gif")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := w.Write([]byte("GIF89a")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := mfs.Open("/out/result.gif")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	if string(data) != "GIF89a" {
		t.Errorf("expected 'GIF89a', got %q", data)
	}
}

func TestMemoryFileSystem_OpenNonExistent(t *testing.T) {
	mfs := NewMemoryFileSystem()

	_, err := mfs.Open("/nonexistent.txt")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_OpenDirectory(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if err := mfs.MkdirAll("/data/sub", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	if _, err := mfs.Open("/data/sub"); err == nil {
		t.Error("expected error opening a directory")
	}
}

func TestMemoryFileSystem_ReadDirInsertionOrder(t *testing.T) {
	mfs := NewMemoryFileSystem()

	names := []string{"r_3.csv", "e_1.csv", "info.txt", "e_3.csv", "r_1.csv"}
	for _, n := range names {
		if err := mfs.WriteFile(filepath.Join("/data", n), []byte("0"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	if err := mfs.WriteFile("/elsewhere/e_9.csv", []byte("0"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	entries, err := mfs.ReadDir("/data")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	if len(entries) != len(names) {
		t.Fatalf("expected %d entries, got %d", len(names), len(entries))
	}
	for i, e := range entries {
		if e.Name() != names[i] {
			t.Errorf("entry %d: expected %q, got %q", i, names[i], e.Name())
		}
		if e.IsDir() {
			t.Errorf("entry %q should not be a directory", e.Name())
		}
	}
}

func TestMemoryFileSystem_ReadDirIncludesSubdirs(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if err := mfs.WriteFile("/data/e_1.csv", []byte("0"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := mfs.MkdirAll("/data/nested", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	entries, err := mfs.ReadDir("/data")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[1].IsDir() || entries[1].Name() != "nested" {
		t.Errorf("expected nested directory entry, got %q (dir=%v)", entries[1].Name(), entries[1].IsDir())
	}
}

func TestMemoryFileSystem_ReadDirMissing(t *testing.T) {
	mfs := NewMemoryFileSystem()

	_, err := mfs.ReadDir("/missing")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_Stat(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.WriteFile("/stattest.txt", []byte("stat content"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	info, err := mfs.Stat("/stattest.txt")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	if info.Name() != "stattest.txt" {
		t.Errorf("expected name 'stattest.txt', got %q", info.Name())
	}

	if info.Size() != int64(len("stat content")) {
		t.Errorf("expected size %d, got %d", len("stat content"), info.Size())
	}

	if info.IsDir() {
		t.Error("expected file, not directory")
	}

	dirInfo, err := mfs.Stat("/")
	if err != nil {
		t.Fatalf("Stat root failed: %v", err)
	}
	if !dirInfo.IsDir() {
		t.Error("expected root to be a directory")
	}
}

func TestMemoryFileSystem_MkdirAll(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("/a/b/c", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	for _, p := range []string{"/a/b/c", "/a/b", "/a"} {
		if !mfs.Exists(p) {
			t.Errorf("expected %s to exist", p)
		}
	}
}
