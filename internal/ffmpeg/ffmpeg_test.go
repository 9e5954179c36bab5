package ffmpeg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidforge/vidforge/internal/config"
	"github.com/vidforge/vidforge/internal/planner"
)

func enhanceCfg() *config.Config {
	cfg := config.DefaultConfig()
	cfg.InputDir = "in"
	cfg.OutputDir = "out"
	return &cfg
}

func TestBuildEnhanceArgs_NoCap(t *testing.T) {
	cfg := enhanceCfg()
	args := BuildEnhanceArgs(cfg, "scale=3840:2160:flags=lanczos", "/in/a.mp4", "/out/a_enhanced.mp4")

	joined := strings.Join(args, " ")
	assert.Equal(t, "ffmpeg", args[0])
	assert.Contains(t, joined, "-y")
	assert.Contains(t, joined, "-i /in/a.mp4")
	assert.Contains(t, joined, "-vf scale=3840:2160:flags=lanczos")
	assert.Contains(t, joined, "-c:v libx264 -preset slow -crf 18")
	assert.Contains(t, joined, "-c:a aac -b:a 192k")
	assert.NotContains(t, joined, "-maxrate")
	assert.Equal(t, "/out/a_enhanced.mp4", args[len(args)-1])
}

func TestBuildEnhanceArgs_WithCap(t *testing.T) {
	cfg := enhanceCfg()
	cfg.MaxBitrateKbps = 8000
	args := BuildEnhanceArgs(cfg, "scale=1:1:flags=lanczos", "in.mp4", "out.mp4")

	joined := strings.Join(args, " ")
	// Buffer is sized at twice the cap.
	assert.Contains(t, joined, "-maxrate 8000k -bufsize 16000k")
}

func TestBuildEnhanceArgs_Deterministic(t *testing.T) {
	// Same profile and filter chain must yield a byte-identical invocation.
	cfg := enhanceCfg()
	first := strings.Join(BuildEnhanceArgs(cfg, "scale=1:1:flags=lanczos", "a", "b"), "\x00")
	second := strings.Join(BuildEnhanceArgs(cfg, "scale=1:1:flags=lanczos", "a", "b"), "\x00")
	assert.Equal(t, first, second)
}

func TestBuildSplitArgs(t *testing.T) {
	plan, err := planner.PlanSplit("/v/movie.mp4", 3600, "oversize_originals")
	require.NoError(t, err)

	p1 := strings.Join(BuildSplitPart1Args("/v/movie.mp4", plan), " ")
	p2 := strings.Join(BuildSplitPart2Args("/v/movie.mp4", plan), " ")

	assert.Contains(t, p1, "-i /v/movie.mp4 -t 1800 -c copy /v/movie_part1.mp4")
	assert.Contains(t, p2, "-i /v/movie.mp4 -ss 1800 -c copy /v/movie_part2.mp4")
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "1800", formatSeconds(1800.0))
	assert.Equal(t, "60.75", formatSeconds(60.75))
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", Tail("short", 500))

	long := strings.Repeat("x", 600) + "actual error"
	got := Tail(long, 500)
	assert.Len(t, got, 500)
	assert.True(t, strings.HasSuffix(got, "actual error"))
}
