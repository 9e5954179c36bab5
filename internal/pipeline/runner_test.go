package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidforge/vidforge/internal/config"
	"github.com/vidforge/vidforge/internal/logging"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(true, false, "")
	require.NoError(t, err)
	return log
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.InputDir = filepath.Join(t.TempDir(), "in")
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.RootDir = t.TempDir()
	return &cfg
}

// ffmpegShim stands in for the real transcoder: it creates the file named
// by its last argument, but only when that name carries a container
// extension it recognizes, matching how ffmpeg selects the output muxer.
const ffmpegShim = `#!/bin/sh
for a in "$@"; do out="$a"; done
case "$out" in
  *.mp4|*.mkv|*.mov|*.avi) : > "$out" ;;
  *) echo "Unable to find a suitable output format for '$out'" >&2; exit 1 ;;
esac
exit 0
`

const ffprobeShim = `#!/bin/sh
echo '{"streams":[{"width":1920,"height":1080,"duration":"10.000000","bit_rate":"4000000"}]}'
`

// installShims puts fake ffmpeg/ffprobe binaries first on PATH.
func installShims(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ffmpeg"), []byte(ffmpegShim), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ffprobe"), []byte(ffprobeShim), 0o755))
	t.Setenv("PATH", dir)
}

func TestRunEnhance_BootstrapsMissingInputDir(t *testing.T) {
	cfg := testConfig(t)
	stats := RunEnhance(context.Background(), cfg, testLogger(t))

	assert.Zero(t, stats.Total)
	info, err := os.Stat(cfg.InputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunEnhance_EmptyInputDir(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))

	stats := RunEnhance(context.Background(), cfg, testLogger(t))
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Failed)
}

func TestRunEnhance_DryRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.DryRun = true
	writeSized(t, filepath.Join(cfg.InputDir, "clip.mp4"), 32)
	writeSized(t, filepath.Join(cfg.InputDir, "other.mkv"), 32)

	stats := RunEnhance(context.Background(), cfg, testLogger(t))

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Zero(t, stats.Failed)

	// Dry runs still create the output directory but write nothing
	// into it.
	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunEnhance_SuccessFinalizesOutput(t *testing.T) {
	installShims(t)
	cfg := testConfig(t)
	writeSized(t, filepath.Join(cfg.InputDir, "clip.mp4"), 32)

	stats := RunEnhance(context.Background(), cfg, testLogger(t))

	assert.Equal(t, 1, stats.Succeeded)
	assert.Zero(t, stats.Failed)

	// Only the final output remains; the scratch file was renamed onto
	// it. The shim would have rejected a scratch name whose trailing
	// extension names no container.
	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "clip_enhanced.mp4", entries[0].Name())
}

func TestProcessEnhance_VanishedFileSkipped(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))

	stats := BatchStats{Total: 1, Current: 1}
	processEnhance(context.Background(), cfg, testLogger(t),
		filepath.Join(cfg.InputDir, "gone.mp4"), "scale=1:1:flags=lanczos", &stats)

	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.Failed)
}

func TestProcessSplit_VanishedFileSkipped(t *testing.T) {
	cfg := testConfig(t)

	stats := BatchStats{Total: 1, Current: 1}
	processSplit(context.Background(), cfg, testLogger(t),
		filepath.Join(cfg.RootDir, "gone.mp4"), &stats)

	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.Failed)
}

func TestRunEnhance_FailureLeavesNoPartialOutput(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(cfg.InputDir, "broken.mp4")
	writeSized(t, src, 64) // not a real video, the transcode must fail

	stats := RunEnhance(context.Background(), cfg, testLogger(t))

	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, stats.Succeeded)

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no final or scratch file may survive a failed job")

	_, err = os.Stat(src)
	assert.NoError(t, err, "the source is never touched")
}

func TestRunSplit_NoCandidates(t *testing.T) {
	cfg := testConfig(t)
	cfg.SizeThresholdMB = 1
	writeSized(t, filepath.Join(cfg.RootDir, "small.mp4"), 100)

	stats := RunSplit(context.Background(), cfg, testLogger(t))
	assert.Zero(t, stats.Total)
}

func TestRunSplit_UnprobeableFileFailsCleanly(t *testing.T) {
	cfg := testConfig(t)
	cfg.SizeThresholdMB = 0
	src := filepath.Join(cfg.RootDir, "garbage.mp4")
	writeSized(t, src, 64) // no readable duration, planning must refuse

	stats := RunSplit(context.Background(), cfg, testLogger(t))

	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, stats.Succeeded)

	// Nothing written, nothing moved.
	entries, err := os.ReadDir(cfg.RootDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "garbage.mp4", entries[0].Name())
}

func TestRunSplit_CancelledContextStopsBatch(t *testing.T) {
	cfg := testConfig(t)
	cfg.SizeThresholdMB = 0
	writeSized(t, filepath.Join(cfg.RootDir, "a.mp4"), 64)
	writeSized(t, filepath.Join(cfg.RootDir, "b.mp4"), 64)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats := RunSplit(ctx, cfg, testLogger(t))

	assert.Equal(t, 2, stats.Total)
	assert.Zero(t, stats.Succeeded)
	assert.Zero(t, stats.Failed)
}
