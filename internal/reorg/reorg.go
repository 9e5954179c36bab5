// Package reorg moves a finished analysis drop into a dated library
// folder. Videos land in a Video subfolder, everything else in DATA,
// and the folder name carries the view-count range read from the
// drop's manifest.
package reorg

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vidforge/vidforge/internal/archive"
	"github.com/vidforge/vidforge/internal/logging"
)

const (
	ManifestFilename = "analysis_results.json"

	videoSubfolder = "Video"
	dataSubfolder  = "DATA"

	folderDateFormat = "060102"
)

var ErrNoViewCounts = errors.New("manifest contains no view counts")

// manifestEntry is the subset of the analysis manifest we read. Entries
// without a viewCount are ignored.
type manifestEntry struct {
	ViewCount *int64 `json:"viewCount"`
}

// MoveStats summarizes one reorganization run.
type MoveStats struct {
	VideosMoved      int
	FilesMoved       int
	FoldersProcessed int
	TargetFolder     string
}

// FormatViewCount renders a count as a compact integer label: 999 stays
// 999, 112500 becomes 112K, 2300000 becomes 2M.
func FormatViewCount(count int64) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%dM", count/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%dK", count/1_000)
	default:
		return fmt.Sprintf("%d", count)
	}
}

// TargetFolderName builds the dated folder name for a view-count range,
// e.g. 251217_112K-2M.
func TargetFolderName(now time.Time, minViews, maxViews int64) string {
	return fmt.Sprintf("%s_%s-%s",
		now.Format(folderDateFormat),
		FormatViewCount(minViews),
		FormatViewCount(maxViews))
}

// ViewCountRange reads the manifest and returns the smallest and largest
// viewCount it contains.
func ViewCountRange(manifestPath string) (minViews, maxViews int64, err error) {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return 0, 0, fmt.Errorf("read manifest: %w", err)
	}

	var entries []manifestEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return 0, 0, fmt.Errorf("parse manifest: %w", err)
	}

	found := false
	for _, e := range entries {
		if e.ViewCount == nil {
			continue
		}
		v := *e.ViewCount
		if !found || v < minViews {
			minViews = v
		}
		if !found || v > maxViews {
			maxViews = v
		}
		found = true
	}
	if !found {
		return 0, 0, ErrNoViewCounts
	}
	return minViews, maxViews, nil
}

// Reorganize moves the contents of sourceDir into a new dated folder
// under targetRoot. The manifest goes to DATA, videos inside source
// subfolders go to Video, everything else keeps its subfolder under
// DATA. Files that vanish mid-run are skipped, not fatal.
func Reorganize(sourceDir, targetRoot string, videoExts map[string]bool, log *logging.Logger) (MoveStats, error) {
	var stats MoveStats

	if _, err := os.Stat(sourceDir); err != nil {
		return stats, fmt.Errorf("source folder: %w", err)
	}
	if _, err := os.Stat(targetRoot); err != nil {
		return stats, fmt.Errorf("target root: %w", err)
	}

	manifestPath := filepath.Join(sourceDir, ManifestFilename)
	minViews, maxViews, err := ViewCountRange(manifestPath)
	if err != nil {
		return stats, err
	}
	log.Info("View count range: %d - %d", minViews, maxViews)

	targetFolder := filepath.Join(targetRoot, TargetFolderName(time.Now(), minViews, maxViews))
	if _, err := os.Stat(targetFolder); err == nil {
		log.Warn("Target folder already exists, reusing: %s", targetFolder)
	}
	stats.TargetFolder = targetFolder

	videoDir := filepath.Join(targetFolder, videoSubfolder)
	dataDir := filepath.Join(targetFolder, dataSubfolder)
	for _, dir := range []string{videoDir, dataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return stats, fmt.Errorf("create target layout: %w", err)
		}
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return stats, fmt.Errorf("read source folder: %w", err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(sourceDir, entry.Name())

		if entry.Name() == ManifestFilename {
			if err := archive.MoveFile(srcPath, filepath.Join(dataDir, entry.Name())); err != nil {
				log.Warn("Skipping manifest move: %v", err)
				continue
			}
			stats.FilesMoved++
			continue
		}

		if !entry.IsDir() {
			continue
		}
		moveSubfolder(srcPath, entry.Name(), videoDir, dataDir, videoExts, log, &stats)
	}

	log.Success("Moved %d videos, %d other files from %d folders",
		stats.VideosMoved, stats.FilesMoved, stats.FoldersProcessed)
	return stats, nil
}

// moveSubfolder drains one source subfolder: videos to videoDir, the
// rest to a mirrored subfolder under dataDir. The emptied source folder
// is removed.
func moveSubfolder(srcPath, name, videoDir, dataDir string, videoExts map[string]bool, log *logging.Logger, stats *MoveStats) {
	dataSub := filepath.Join(dataDir, name)
	if err := os.MkdirAll(dataSub, 0o755); err != nil {
		log.Warn("Skipping %s: %v", name, err)
		return
	}

	files, err := os.ReadDir(srcPath)
	if err != nil {
		log.Warn("Skipping %s: %v", name, err)
		return
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		filePath := filepath.Join(srcPath, f.Name())

		dest := filepath.Join(dataSub, f.Name())
		isVideo := videoExts[strings.ToLower(filepath.Ext(f.Name()))]
		if isVideo {
			dest = filepath.Join(videoDir, f.Name())
		}

		if err := archive.MoveFile(filePath, dest); err != nil {
			log.Warn("Skipping %s: %v", f.Name(), err)
			continue
		}
		if isVideo {
			log.Debug("  %s -> %s/", f.Name(), videoSubfolder)
			stats.VideosMoved++
		} else {
			stats.FilesMoved++
		}
	}
	stats.FoldersProcessed++

	if remaining, err := os.ReadDir(srcPath); err == nil && len(remaining) == 0 {
		_ = os.Remove(srcPath)
	}
}
