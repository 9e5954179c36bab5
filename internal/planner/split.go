package planner

import (
	"errors"

	"github.com/vidforge/vidforge/internal/naming"
)

// ErrUnsplittable marks a file whose duration could not be determined or
// is zero. Such a file fails immediately with no output written; there is
// no meaningful way to split it into two playable halves.
var ErrUnsplittable = errors.New("media duration unavailable or zero, cannot split")

// SplitPlan holds the derived decisions for segmenting one file. Computed
// fresh per job and never reused.
type SplitPlan struct {
	DurationSeconds   float64
	SplitPointSeconds float64
	Part1Path         string
	Part2Path         string
	ArchiveDir        string
}

// PlanSplit derives the split plan for sourcePath: the split point is the
// duration midpoint, parts land beside the original, and the archive
// folder is a sibling named archiveDirName. Returns ErrUnsplittable when
// duration is zero or negative.
func PlanSplit(sourcePath string, durationSeconds float64, archiveDirName string) (SplitPlan, error) {
	if durationSeconds <= 0 {
		return SplitPlan{}, ErrUnsplittable
	}

	part1, part2 := naming.SplitPartPaths(sourcePath)
	return SplitPlan{
		DurationSeconds:   durationSeconds,
		SplitPointSeconds: durationSeconds / 2,
		Part1Path:         part1,
		Part2Path:         part2,
		ArchiveDir:        naming.ArchiveDir(sourcePath, archiveDirName),
	}, nil
}
