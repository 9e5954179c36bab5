// Package pipeline orchestrates file discovery, per-job processing, and
// batch summary reporting for both transformation strategies. Jobs run
// sequentially, one transcoder process at a time; every per-job error is
// folded into BatchStats and the batch continues.
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
	"github.com/vidforge/vidforge/internal/naming"
	"github.com/vidforge/vidforge/internal/planner"
	"github.com/vidforge/vidforge/internal/probe"
)

// RunEnhance is the batch entry point for the quality-enhancement
// strategy. It scans the top level of the input directory and re-encodes
// each candidate through the configured filter chain.
func RunEnhance(ctx context.Context, cfg *config.Config, log *logging.Logger) BatchStats {
	var stats BatchStats

	// First-run convenience: create the input folder and tell the user
	// where to put files instead of failing.
	if _, err := os.Stat(cfg.InputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(cfg.InputDir, 0o755); err != nil {
			log.Error("Cannot create input directory: %v", err)
			return stats
		}
		log.Info("Created input directory: %s", cfg.InputDir)
		log.Info("Put video files there and run again")
		return stats
	}

	files, err := ScanEnhance(cfg.InputDir, cfg.VideoExtensions)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return stats
	}
	if len(files) == 0 {
		log.Warn("No video files found in %s", cfg.InputDir)
		return stats
	}

	stats.Total = len(files)
	// The chain is a pure function of the profile: built once, shared by
	// every job in the run.
	filterChain := planner.BuildFilterChain(cfg)

	log.Info("Found %d files", stats.Total)
	log.Info("Target: %dx%d (%s), sharpen %g, denoise %v, CRF %d",
		cfg.TargetWidth, cfg.TargetHeight, cfg.ScaleAlgorithm,
		cfg.SharpenAmount, cfg.DenoiseEnabled, cfg.CRF)
	log.Debug("Filter chain: %s", filterChain)

	for i, path := range files {
		stats.Current = i + 1
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		processEnhance(ctx, cfg, log, path, filterChain, &stats)
	}

	logEnhanceSummary(log, &stats)
	return stats
}

// processEnhance handles one file: stat → probe → output path → transcode
// to a scratch path → rename on success.
func processEnhance(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	path string,
	filterChain string,
	stats *BatchStats,
) {
	basename := filepath.Base(path)
	log.Info("[%d/%d] %s", stats.Current, stats.Total, basename)

	j := job.New(path, job.StrategyEnhance)

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

	// Probe is informational on this path; a failed probe never blocks
	// the transcode.
	if info, ok := probe.Probe(ctx, path); ok {
		_ = j.SetProbed(info)
		log.Info("  Source: %s | %s", info.Resolution(), display.FormatBitrateLabel(info.BitrateKbps))
	} else {
		_ = j.Transition(job.StateProbed)
		log.Debug("  Probe unavailable for %s", basename)
	}

	outputPath := naming.EnhanceOutputPath(path, cfg.OutputDir, cfg.OutputSuffix, cfg.OutputFormat)
	j.OutputPaths = []string{outputPath}
	log.Info("  -> %s", filepath.Base(outputPath))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %v", err)
		j.Fail(err.Error())
		stats.Failed++
		return
	}

	if cfg.DryRun {
		log.Success("[DRY] Would enhance")
		stats.Succeeded++
		return
	}

	_ = j.Transition(job.StateEnhancing)

	// Encode into a hidden scratch file and rename on success, so an
	// interrupted run never leaves a partial file at the output path.
	tempPath := naming.TempOutputPath(outputPath, j.ID.String())
	args := ffmpeg.BuildEnhanceArgs(cfg, filterChain, path, tempPath)
	res := ffmpeg.Execute(ctx, cfg.ProcessTimeout, args)

	if !res.OK {
		archive.CleanupOutputs(tempPath)
		j.Fail(res.Tail)
		if res.TimedOut {
			log.Error("Enhance timed out after %s", cfg.ProcessTimeout)
		} else {
			log.Error("Enhance failed")
		}
		logDiagnostics(log, res.Tail)
		stats.Failed++
		return
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		archive.CleanupOutputs(tempPath, outputPath)
		j.Fail(err.Error())
		log.Error("Cannot finalize output: %v", err)
		stats.Failed++
		return
	}

	_ = j.Transition(job.StateSucceeded)

	stats.TotalInputBytes += fi.Size()
	if outInfo, err := os.Stat(outputPath); err == nil {
		stats.TotalOutputBytes += outInfo.Size()
	}
	if info, ok := probe.Probe(ctx, outputPath); ok {
		log.Success("Enhanced: %s | %s", info.Resolution(), display.FormatBitrateLabel(info.BitrateKbps))
	} else {
		log.Success("Enhanced")
	}
	stats.Succeeded++
	_ = j.Transition(job.StateReported)
}

// logDiagnostics prints the captured stderr tail of a failed invocation.
// Every failed job surfaces its diagnostics; there are no silent failures.
func logDiagnostics(log *logging.Logger, tail string) {
	if tail == "" {
		return
	}
	log.Error("Last transcoder output:")
	log.Error("  %s", tail)
}

func logEnhanceSummary(log *logging.Logger, stats *BatchStats) {
	log.Info("==============================")
	log.Info("Done: %d enhanced, %d skipped, %d failed",
		stats.Succeeded, stats.Skipped, stats.Failed)
	if stats.TotalInputBytes > 0 {
		log.Info("  Input %s -> output %s",
			display.FormatBytes(stats.TotalInputBytes),
			display.FormatBytes(stats.TotalOutputBytes))
	}
}
