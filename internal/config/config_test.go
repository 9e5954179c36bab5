package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enhanceCfg() Config {
	cfg := DefaultConfig()
	cfg.InputDir = "in"
	cfg.OutputDir = "out"
	return cfg
}

func TestValidateEnhance_Defaults(t *testing.T) {
	cfg := enhanceCfg()
	require.NoError(t, cfg.ValidateEnhance())
}

func TestValidateEnhance_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing dirs", func(c *Config) { c.InputDir = "" }},
		{"zero width", func(c *Config) { c.TargetWidth = 0 }},
		{"negative sharpen", func(c *Config) { c.SharpenAmount = -1 }},
		{"tiny kernel", func(c *Config) { c.SharpenLumaX = 1 }},
		{"crf out of range", func(c *Config) { c.CRF = 99 }},
		{"negative bitrate cap", func(c *Config) { c.MaxBitrateKbps = -5 }},
		{"empty audio bitrate", func(c *Config) { c.AudioBitrate = "" }},
		{"garbage audio bitrate", func(c *Config) { c.AudioBitrate = "lots" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := enhanceCfg()
			tt.mutate(&cfg)
			assert.Error(t, cfg.ValidateEnhance())
		})
	}
}

func TestValidateEnhance_NormalizesAudioBitrate(t *testing.T) {
	for _, raw := range []string{"192", "192k", "192K", "192kbps"} {
		cfg := enhanceCfg()
		cfg.AudioBitrate = raw
		require.NoError(t, cfg.ValidateEnhance())
		assert.Equal(t, "192k", cfg.AudioBitrate)
	}
}

func TestValidateEnhance_NormalizesOutputFormat(t *testing.T) {
	cfg := enhanceCfg()
	cfg.OutputFormat = "mp4"
	require.NoError(t, cfg.ValidateEnhance())
	assert.Equal(t, ".mp4", cfg.OutputFormat)
}

func TestValidateSplit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootDir = "videos"
	require.NoError(t, cfg.ValidateSplit())

	cfg.SizeThresholdMB = 0
	assert.Error(t, cfg.ValidateSplit())

	cfg = DefaultConfig()
	cfg.RootDir = "videos"
	cfg.ArchiveDirName = "a/b"
	assert.Error(t, cfg.ValidateSplit())
}

func TestThresholdBytes(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, int64(200*1024*1024), cfg.ThresholdBytes())
}

func TestValidatePaths(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.ValidatePaths("/a/b", "/a/b"))
	assert.Error(t, cfg.ValidatePaths("/a/b", "/a/b/c"))
	assert.NoError(t, cfg.ValidatePaths("/a/b", "/a/bc"))
	assert.NoError(t, cfg.ValidatePaths("/a/b", "/a/out"))
}

func TestNormalizeDirArg(t *testing.T) {
	assert.Equal(t, "/data/in", NormalizeDirArg("/data/in/"))
	assert.Equal(t, "/", NormalizeDirArg("/"))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("VIDFORGE_SIZE_THRESHOLD_MB", "150")
	t.Setenv("VIDFORGE_TIMEOUT", "45m")
	t.Setenv("VIDFORGE_ARCHIVE_DIR_NAME", "parked")

	cfg := DefaultConfig()
	require.NoError(t, ApplyEnv(&cfg))
	assert.Equal(t, int64(150), cfg.SizeThresholdMB)
	assert.Equal(t, "parked", cfg.ArchiveDirName)
	assert.Equal(t, "45m0s", cfg.ProcessTimeout.String())
}

func TestApplyEnv_BadValues(t *testing.T) {
	t.Setenv("VIDFORGE_SIZE_THRESHOLD_MB", "-3")
	cfg := DefaultConfig()
	assert.Error(t, ApplyEnv(&cfg))
}
