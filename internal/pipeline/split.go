package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vidforge/vidforge/internal/archive"
	"github.com/vidforge/vidforge/internal/config"
	"github.com/vidforge/vidforge/internal/display"
	"github.com/vidforge/vidforge/internal/ffmpeg"
	"github.com/vidforge/vidforge/internal/job"
	"github.com/vidforge/vidforge/internal/logging"
	"github.com/vidforge/vidforge/internal/planner"
	"github.com/vidforge/vidforge/internal/probe"
)

// RunSplit is the batch entry point for the size-based segmentation
// strategy. It recursively scans the root for oversized videos and splits
// each into two stream-copied parts, archiving the original on success.
func RunSplit(ctx context.Context, cfg *config.Config, log *logging.Logger) BatchStats {
	var stats BatchStats

	files, err := ScanSplit(cfg.RootDir, cfg.VideoExtensions, cfg.ThresholdBytes(), cfg.ArchiveDirName)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return stats
	}
	if len(files) == 0 {
		log.Success("No videos above %d MB found", cfg.SizeThresholdMB)
		return stats
	}

	stats.Total = len(files)
	log.Info("Found %d videos above %d MB", stats.Total, cfg.SizeThresholdMB)

	for i, path := range files {
		stats.Current = i + 1
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		processSplit(ctx, cfg, log, path, &stats)
	}

	logSplitSummary(log, &stats)
	return stats
}

// processSplit handles one file: probe → plan → two stream-copy trims →
// archive the original. Either both parts land or neither does.
func processSplit(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	path string,
	stats *BatchStats,
) {
	basename := filepath.Base(path)
	log.Info("[%d/%d] %s", stats.Current, stats.Total, basename)

	j := job.New(path, job.StrategySplit)

	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Vanished between scan and stat; not a failure.
			log.Warn("Skipping %s: no longer present", basename)
			stats.Skipped++
			return
		}
		log.Error("Cannot stat %s: %v", path, err)
		j.Fail(err.Error())
		stats.Failed++
		return
	}
	j.SizeBytes = fi.Size()
	log.Info("  Size: %s", display.FormatMB(fi.Size()))

	if info, ok := probe.Probe(ctx, path); ok {
		_ = j.SetProbed(info)
	} else {
		_ = j.Transition(job.StateProbed)
	}

	// A missing duration is fatal here: there is no split point to
	// compute, and no files have been written yet.
	plan, err := planner.PlanSplit(path, j.DurationSeconds, cfg.ArchiveDirName)
	if err != nil {
		log.Error("Cannot split %s: %v", basename, err)
		j.Fail(err.Error())
		stats.Failed++
		return
	}
	j.OutputPaths = []string{plan.Part1Path, plan.Part2Path}

	log.Info("  Duration: %s, split at %s",
		display.FormatSeconds(plan.DurationSeconds),
		display.FormatSeconds(plan.SplitPointSeconds))
	log.Info("  -> %s", filepath.Base(plan.Part1Path))
	log.Info("  -> %s", filepath.Base(plan.Part2Path))

	if cfg.DryRun {
		log.Success("[DRY] Would split and archive original")
		stats.Succeeded++
		return
	}

	_ = j.Transition(job.StateSplitting)

	if !runSplitPart(ctx, cfg, log, ffmpeg.BuildSplitPart1Args(path, plan), "part 1", j, plan, stats) {
		return
	}
	if !runSplitPart(ctx, cfg, log, ffmpeg.BuildSplitPart2Args(path, plan), "part 2", j, plan, stats) {
		return
	}

	_ = j.Transition(job.StateSucceeded)
	logPartSizes(log, plan)

	stats.TotalInputBytes += fi.Size()
	for _, p := range j.OutputPaths {
		if outInfo, err := os.Stat(p); err == nil {
			stats.TotalOutputBytes += outInfo.Size()
		}
	}

	// Archival failure downgrades to archival-incomplete: the split
	// parts are good, so the original is left in place rather than
	// risking data loss.
	if archived, err := archive.ArchiveOriginal(path, plan.ArchiveDir); err != nil {
		log.Warn("Split succeeded but archival incomplete: %v", err)
		stats.ArchiveIncomplete++
	} else {
		_ = j.Transition(job.StateArchived)
		log.Info("  Original moved to %s", archived)
	}

	log.Success("Split complete")
	stats.Succeeded++
	_ = j.Transition(job.StateReported)
}

// runSplitPart executes one trim invocation. On failure both candidate
// outputs are deleted and the job is failed; a half-complete split must
// not be left beside the original.
func runSplitPart(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	args []string,
	label string,
	j *job.Job,
	plan planner.SplitPlan,
	stats *BatchStats,
) bool {
	log.Debug("  Writing %s…", label)
	res := ffmpeg.Execute(ctx, cfg.ProcessTimeout, args)
	if res.OK {
		return true
	}

	archive.CleanupOutputs(plan.Part1Path, plan.Part2Path)
	j.Fail(res.Tail)
	if res.TimedOut {
		log.Error("Split %s timed out after %s", label, cfg.ProcessTimeout)
	} else {
		log.Error("Split %s failed", label)
	}
	logDiagnostics(log, res.Tail)
	stats.Failed++
	return false
}

func logPartSizes(log *logging.Logger, plan planner.SplitPlan) {
	for _, p := range []string{plan.Part1Path, plan.Part2Path} {
		if fi, err := os.Stat(p); err == nil {
			log.Info("  %s: %s", filepath.Base(p), display.FormatMB(fi.Size()))
		}
	}
}

func logSplitSummary(log *logging.Logger, stats *BatchStats) {
	log.Info("==============================")
	log.Info("Done: %d split, %d skipped, %d failed",
		stats.Succeeded, stats.Skipped, stats.Failed)
	if stats.ArchiveIncomplete > 0 {
		log.Warn("  %d original(s) could not be archived and remain in place", stats.ArchiveIncomplete)
	}
	if stats.TotalInputBytes > 0 {
		log.Info("  Originals %s -> parts %s",
			display.FormatBytes(stats.TotalInputBytes),
			display.FormatBytes(stats.TotalOutputBytes))
	}
}
