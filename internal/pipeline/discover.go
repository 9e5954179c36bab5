package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanEnhance lists the immediate children of inputDir whose extension
// (case-insensitive) is in the allowlist. Subdirectories are not entered.
func ScanEnhance(inputDir string, exts map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if exts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(inputDir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ScanSplit recursively walks rootDir and returns files whose extension is
// in the allowlist and whose size exceeds thresholdBytes. Directories
// named archiveDirName are pruned so archived originals from earlier runs
// are never rediscovered. Results are sorted for deterministic processing
// order.
func ScanSplit(rootDir string, exts map[string]bool, thresholdBytes int64, archiveDirName string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.EqualFold(d.Name(), archiveDirName) {
				return filepath.SkipDir
			}
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			// File vanished between enumeration and stat; not a candidate.
			return nil
		}
		if fi.Size() > thresholdBytes {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
