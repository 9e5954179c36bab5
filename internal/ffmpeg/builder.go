// Package ffmpeg builds and executes transcoder invocations. Argument
// construction is pure; Execute is the only place in the repository that
// spawns the transcoder.
package ffmpeg

import (
	"fmt"
	"strconv"

	"github.com/vidforge/vidforge/internal/config"
	"github.com/vidforge/vidforge/internal/planner"
)

// preamble returns the shared leading arguments: overwrite output, no
// interactive prompts, quiet log level.
func preamble() []string {
	return []string{"ffmpeg", "-hide_banner", "-nostdin", "-y", "-loglevel", "error"}
}

// BuildEnhanceArgs constructs the full argument slice for one enhancement
// encode: filter chain on the video stream, configured codec settings,
// optional bitrate cap with a buffer sized at twice the cap.
func BuildEnhanceArgs(cfg *config.Config, filterChain, inputPath, outputPath string) []string {
	args := preamble()

	args = append(args,
		"-i", inputPath,
		"-vf", filterChain,
		"-c:v", cfg.VideoCodec,
		"-preset", cfg.EncodePreset,
		"-crf", strconv.Itoa(cfg.CRF),
	)

	if cfg.MaxBitrateKbps > 0 {
		args = append(args,
			"-maxrate", fmt.Sprintf("%dk", cfg.MaxBitrateKbps),
			"-bufsize", fmt.Sprintf("%dk", cfg.MaxBitrateKbps*2),
		)
	}

	args = append(args,
		"-c:a", cfg.AudioCodec,
		"-b:a", cfg.AudioBitrate,
		outputPath,
	)
	return args
}

// BuildSplitPart1Args constructs the stream-copy trim for [0, splitPoint).
func BuildSplitPart1Args(inputPath string, plan planner.SplitPlan) []string {
	args := preamble()
	return append(args,
		"-i", inputPath,
		"-t", formatSeconds(plan.SplitPointSeconds),
		"-c", "copy",
		plan.Part1Path,
	)
}

// BuildSplitPart2Args constructs the stream-copy seek from splitPoint to
// the end of the file.
func BuildSplitPart2Args(inputPath string, plan planner.SplitPlan) []string {
	args := preamble()
	return append(args,
		"-i", inputPath,
		"-ss", formatSeconds(plan.SplitPointSeconds),
		"-c", "copy",
		plan.Part2Path,
	)
}

// formatSeconds renders a timestamp without spurious trailing zeros so the
// same plan always yields the same command line.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
