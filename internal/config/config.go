// Package config holds runtime configuration: defaults, optional .env
// loading, and validation. A Config is built once per run and passed by
// value into the packages that need it; nothing reads ambient state after
// startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultArchiveDirName is where split originals are parked, created as a
// sibling of each source file. The scanner prunes directories with this
// name so re-runs never rediscover archived files.
const DefaultArchiveDirName = "oversize_originals"

// Config holds all runtime settings for a batch run. Fields are grouped by
// concern; enhancement fields feed the filter chain and encoder arguments,
// split fields feed the scanner and the split planner.
type Config struct {
	// Paths (set from positional args).
	InputDir  string // enhance: scanned top-level
	OutputDir string // enhance: where outputs land
	RootDir   string // split: scanned recursively

	// Enhancement profile.
	TargetWidth    int
	TargetHeight   int
	ScaleAlgorithm string  // ffmpeg scale flags value, e.g. "lanczos"
	SharpenAmount  float64 // unsharp luma amount; chroma is always 0
	SharpenLumaX   int
	SharpenLumaY   int
	DenoiseEnabled bool
	DenoiseLuma    float64
	DenoiseChroma  float64
	VideoCodec     string
	EncodePreset   string
	CRF            int
	MaxBitrateKbps int    // 0 disables the cap
	AudioCodec     string
	AudioBitrate   string // e.g. "192k"
	OutputSuffix   string // appended to the stem, e.g. "_enhanced"
	OutputFormat   string // output extension with dot; "" keeps the source extension

	// Split settings.
	SizeThresholdMB int64
	ArchiveDirName  string

	// Shared behavior.
	VideoExtensions map[string]bool // lowercase, with leading dot
	ProcessTimeout  time.Duration   // per-invocation; 0 disables
	DryRun          bool
	Verbose         bool
	LogFile         string
	NoColor         bool
}

// DefaultConfig returns a Config with the stock enhancement profile and
// split policy. CLI flags and VIDFORGE_* env vars override from here.
func DefaultConfig() Config {
	return Config{
		TargetWidth:     3840,
		TargetHeight:    2160,
		ScaleAlgorithm:  "lanczos",
		SharpenAmount:   1.0,
		SharpenLumaX:    5,
		SharpenLumaY:    5,
		DenoiseEnabled:  false,
		DenoiseLuma:     2.0,
		DenoiseChroma:   1.5,
		VideoCodec:      "libx264",
		EncodePreset:    "slow",
		CRF:             18,
		MaxBitrateKbps:  0,
		AudioCodec:      "aac",
		AudioBitrate:    "192k",
		OutputSuffix:    "_enhanced",
		OutputFormat:    ".mp4",
		SizeThresholdMB: 200,
		ArchiveDirName:  DefaultArchiveDirName,
		VideoExtensions: map[string]bool{
			".mp4": true, ".avi": true, ".mov": true, ".mkv": true,
			".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
		},
	}
}

// LoadEnvFile loads a dotenv file into the process environment when the
// file exists. A missing file is not an error; a file that fails to parse
// is.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays VIDFORGE_* environment variables onto cfg. Called after
// LoadEnvFile and before CLI flags so precedence is flags > env > defaults.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("VIDFORGE_INPUT_DIR"); v != "" {
		cfg.InputDir = v
	}
	if v := os.Getenv("VIDFORGE_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("VIDFORGE_ROOT_DIR"); v != "" {
		cfg.RootDir = v
	}
	if v := os.Getenv("VIDFORGE_ARCHIVE_DIR_NAME"); v != "" {
		cfg.ArchiveDirName = v
	}
	if v := os.Getenv("VIDFORGE_SIZE_THRESHOLD_MB"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("VIDFORGE_SIZE_THRESHOLD_MB must be a positive integer (got %q)", v)
		}
		cfg.SizeThresholdMB = n
	}
	if v := os.Getenv("VIDFORGE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return fmt.Errorf("VIDFORGE_TIMEOUT must be a duration like 30m (got %q)", v)
		}
		cfg.ProcessTimeout = d
	}
	return nil
}

// ThresholdBytes converts the configured MB limit into bytes.
func (c *Config) ThresholdBytes() int64 {
	return c.SizeThresholdMB * 1024 * 1024
}

// NormalizeDirArg strips trailing slashes from a directory path. The
// filesystem root "/" is returned unchanged so we don't produce an empty
// string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// ValidateEnhance checks the enhancement profile and the enhance-mode paths.
func (c *Config) ValidateEnhance() error {
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("need exactly input_dir and output_dir")
	}
	if c.TargetWidth <= 0 || c.TargetHeight <= 0 {
		return fmt.Errorf("invalid target resolution %dx%d", c.TargetWidth, c.TargetHeight)
	}
	if c.ScaleAlgorithm == "" {
		return errors.New("scale algorithm must not be empty")
	}
	if c.SharpenAmount < 0 {
		return fmt.Errorf("sharpen amount must not be negative (got %g)", c.SharpenAmount)
	}
	if c.SharpenLumaX < 3 || c.SharpenLumaY < 3 {
		return fmt.Errorf("sharpen kernel must be at least 3x3 (got %dx%d)", c.SharpenLumaX, c.SharpenLumaY)
	}
	if c.CRF < 0 || c.CRF > 51 {
		return fmt.Errorf("CRF must be 0-51 (got %d)", c.CRF)
	}
	if c.MaxBitrateKbps < 0 {
		return fmt.Errorf("max bitrate must not be negative (got %d)", c.MaxBitrateKbps)
	}
	if c.OutputFormat != "" && !strings.HasPrefix(c.OutputFormat, ".") {
		c.OutputFormat = "." + c.OutputFormat
	}
	normalized, err := normalizeAudioBitrate(c.AudioBitrate)
	if err != nil {
		return err
	}
	c.AudioBitrate = normalized
	return nil
}

// ValidateSplit checks the split-mode paths and policy.
func (c *Config) ValidateSplit() error {
	if c.RootDir == "" {
		return errors.New("need exactly root_dir")
	}
	if c.SizeThresholdMB <= 0 {
		return fmt.Errorf("size threshold must be positive (got %d MB)", c.SizeThresholdMB)
	}
	if c.ArchiveDirName == "" || strings.ContainsRune(c.ArchiveDirName, filepath.Separator) {
		return fmt.Errorf("archive dir name must be a bare folder name (got %q)", c.ArchiveDirName)
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or
// equal to) the resolved input directory, so the pipeline never discovers
// its own outputs. Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}

// normalizeAudioBitrate validates and canonicalizes user bitrate input.
// Accepted forms: "192", "192k", "192K", "192kbps". Output is "<n>k".
func normalizeAudioBitrate(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", errors.New("audio bitrate must not be empty")
	}
	if strings.HasSuffix(s, "kbps") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "kbps"))
	} else if strings.HasSuffix(s, "k") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "k"))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid audio bitrate %q (use positive Kbps value, e.g. 192k)", raw)
	}
	return fmt.Sprintf("%dk", n), nil
}
