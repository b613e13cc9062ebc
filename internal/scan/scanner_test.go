package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("firstname,lastname,organization,linkedin_url\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestScanCSV(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	writeFile(t, filepath.Join(dir, "old.csv"), base)
	writeFile(t, filepath.Join(dir, "new.CSV"), base.Add(time.Hour))
	writeFile(t, filepath.Join(dir, "notes.txt"), base.Add(2*time.Hour))
	writeFile(t, filepath.Join(dir, "profile_verification_results_2024-03-01.csv"), base.Add(3*time.Hour))
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ScanCSV(dir)
	if err != nil {
		t.Fatalf("ScanCSV: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files: %+v", len(files), files)
	}
	if filepath.Base(files[0].Path) != "new.CSV" || filepath.Base(files[1].Path) != "old.csv" {
		t.Errorf("order = %s, %s; want newest first", files[0].Path, files[1].Path)
	}
	if files[0].Size == 0 {
		t.Error("size not recorded")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	writeFile(t, a, base.Add(time.Hour))
	writeFile(t, b, base)

	if got, err := Resolve(b); err != nil || got != b {
		t.Errorf("Resolve(file) = %s, %v", got, err)
	}
	if got, err := Resolve(dir); err != nil || got != a {
		t.Errorf("Resolve(dir) = %s, %v; want %s", got, err, a)
	}

	empty := t.TempDir()
	if _, err := Resolve(empty); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Resolve(empty dir) err = %v, want ErrNotExist", err)
	}
	if _, err := Resolve(filepath.Join(dir, "missing.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Resolve(missing) err = %v", err)
	}
}
