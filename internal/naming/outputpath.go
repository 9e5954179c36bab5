// Package naming computes output file paths. Paths are derived purely from
// the source path and configuration, before any process is spawned, so
// every component agrees on where artifacts live.
package naming

import (
	"path/filepath"
	"strings"
)

// EnhanceOutputPath returns the enhanced-file path inside outputDir:
// <stem><suffix><format>. When format is empty the source extension is
// kept.
func EnhanceOutputPath(sourcePath, outputDir, suffix, format string) string {
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if format != "" {
		ext = format
	}
	return filepath.Join(outputDir, stem+suffix+ext)
}

// SplitPartPaths returns the two part paths written beside the source:
// <stem>_part1<ext> and <stem>_part2<ext>.
func SplitPartPaths(sourcePath string) (part1, part2 string) {
	dir := filepath.Dir(sourcePath)
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	part1 = filepath.Join(dir, stem+"_part1"+ext)
	part2 = filepath.Join(dir, stem+"_part2"+ext)
	return part1, part2
}

// ArchiveDir returns the folder a split original is parked in: a sibling
// of the source named archiveDirName.
func ArchiveDir(sourcePath, archiveDirName string) string {
	return filepath.Join(filepath.Dir(sourcePath), archiveDirName)
}

// TempOutputPath returns the hidden scratch path an enhance transcode
// writes to before the success rename. The job ID keeps concurrent runs
// over the same tree from colliding. The container extension stays last
// because the transcoder picks the output muxer from it.
func TempOutputPath(finalPath, jobID string) string {
	dir := filepath.Dir(finalPath)
	base := filepath.Base(finalPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, "."+stem+"."+jobID+".tmp"+ext)
}
