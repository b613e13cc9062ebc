package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path  string
	Mtime int64
	Size  int64
}

// ScanCSV lists the .csv files directly inside root, newest first. Earlier
// exports (profile_verification_results_*.csv) are skipped.
func ScanCSV(root string) ([]FileInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		if strings.HasPrefix(name, "profile_verification_results_") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // vanished between ReadDir and Info
		}
		files = append(files, FileInfo{
			Path:  filepath.Join(root, name),
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Mtime != files[j].Mtime {
			return files[i].Mtime > files[j].Mtime
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// Resolve returns path itself for a file, or the newest CSV inside it for a
// directory.
func Resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	files, err := ScanCSV(path)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", &os.PathError{Op: "scan", Path: path, Err: os.ErrNotExist}
	}
	return files[0].Path, nil
}
