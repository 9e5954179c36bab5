// Command vidforge is the entrypoint for the VidForge batch video CLI.
// It wires the subcommands, builds the run configuration from defaults,
// an optional .env file, and flags, and hands a signal-cancelled context
// to the pipelines.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/vidforge/vidforge/internal/check"
	"github.com/vidforge/vidforge/internal/config"
	"github.com/vidforge/vidforge/internal/display"
	"github.com/vidforge/vidforge/internal/export"
	"github.com/vidforge/vidforge/internal/logging"
	"github.com/vidforge/vidforge/internal/pipeline"
	"github.com/vidforge/vidforge/internal/reorg"
)

// version and commit are set at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:    "vidforge",
		Usage:   "batch video enhancement, size-based splitting, and library upkeep",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Commands: []*cli.Command{
			enhanceCommand(),
			splitCommand(),
			reorganizeCommand(),
			exportCommand(),
			checkCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "vidforge: %v\n", err)
		os.Exit(1)
	}
}

// sharedFlags are accepted by every batch command.
func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "env", Usage: "dotenv file with VIDFORGE_* defaults", Value: ".env"},
		&cli.DurationFlag{Name: "timeout", Usage: "per-invocation transcoder timeout (0 disables)"},
		&cli.BoolFlag{Name: "dry-run", Usage: "log planned work without writing anything"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug output"},
		&cli.StringFlag{Name: "log", Usage: "append a plain-text copy of all output to this file"},
		&cli.BoolFlag{Name: "no-color", Usage: "disable styled output"},
	}
}

func enhanceCommand() *cli.Command {
	flags := append(sharedFlags(),
		&cli.IntFlag{Name: "width", Usage: "target width", Value: 3840},
		&cli.IntFlag{Name: "height", Usage: "target height", Value: 2160},
		&cli.StringFlag{Name: "scale", Usage: "scaler algorithm", Value: "lanczos"},
		&cli.FloatFlag{Name: "sharpen", Usage: "unsharp luma amount", Value: 1.0},
		&cli.BoolFlag{Name: "denoise", Usage: "append an hqdn3d denoise stage"},
		&cli.FloatFlag{Name: "denoise-luma", Usage: "hqdn3d luma strength", Value: 2.0},
		&cli.FloatFlag{Name: "denoise-chroma", Usage: "hqdn3d chroma strength", Value: 1.5},
		&cli.StringFlag{Name: "codec", Usage: "video encoder", Value: "libx264"},
		&cli.StringFlag{Name: "preset", Usage: "encoder preset", Value: "slow"},
		&cli.IntFlag{Name: "crf", Usage: "constant rate factor (0-51)", Value: 18},
		&cli.IntFlag{Name: "max-bitrate", Usage: "bitrate cap in Kbps (0 disables)"},
		&cli.StringFlag{Name: "audio-codec", Usage: "audio encoder", Value: "aac"},
		&cli.StringFlag{Name: "audio-bitrate", Usage: "audio bitrate", Value: "192k"},
		&cli.StringFlag{Name: "suffix", Usage: "output filename suffix", Value: "_enhanced"},
		&cli.StringFlag{Name: "format", Usage: "output extension; empty keeps the source extension", Value: ".mp4"},
	)
	return &cli.Command{
		Name:      "enhance",
		Usage:     "re-encode every video in a folder through the quality filter chain",
		ArgsUsage: "<input_dir> <output_dir>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Args().Len() > 0 {
				cfg.InputDir = config.NormalizeDirArg(cmd.Args().Get(0))
			}
			if cmd.Args().Len() > 1 {
				cfg.OutputDir = config.NormalizeDirArg(cmd.Args().Get(1))
			}
			cfg.TargetWidth = cmd.Int("width")
			cfg.TargetHeight = cmd.Int("height")
			cfg.ScaleAlgorithm = cmd.String("scale")
			cfg.SharpenAmount = cmd.Float("sharpen")
			cfg.DenoiseEnabled = cmd.Bool("denoise")
			cfg.DenoiseLuma = cmd.Float("denoise-luma")
			cfg.DenoiseChroma = cmd.Float("denoise-chroma")
			cfg.VideoCodec = cmd.String("codec")
			cfg.EncodePreset = cmd.String("preset")
			cfg.CRF = cmd.Int("crf")
			cfg.MaxBitrateKbps = cmd.Int("max-bitrate")
			cfg.AudioCodec = cmd.String("audio-codec")
			cfg.AudioBitrate = cmd.String("audio-bitrate")
			cfg.OutputSuffix = cmd.String("suffix")
			cfg.OutputFormat = cmd.String("format")

			if err := cfg.ValidateEnhance(); err != nil {
				return err
			}
			return runEnhance(ctx, cfg)
		},
	}
}

func splitCommand() *cli.Command {
	flags := append(sharedFlags(),
		&cli.IntFlag{Name: "threshold-mb", Usage: "split videos larger than this many MB", Value: 200},
		&cli.StringFlag{Name: "archive-dir-name", Usage: "folder name for archived originals", Value: config.DefaultArchiveDirName},
	)
	return &cli.Command{
		Name:      "split",
		Usage:     "split oversized videos in half and archive the originals",
		ArgsUsage: "<root_dir>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Args().Len() > 0 {
				cfg.RootDir = config.NormalizeDirArg(cmd.Args().Get(0))
			}
			if cmd.IsSet("threshold-mb") {
				cfg.SizeThresholdMB = int64(cmd.Int("threshold-mb"))
			}
			if cmd.IsSet("archive-dir-name") {
				cfg.ArchiveDirName = cmd.String("archive-dir-name")
			}

			if err := cfg.ValidateSplit(); err != nil {
				return err
			}
			return runSplit(ctx, cfg)
		},
	}
}

func reorganizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "reorganize",
		Usage:     "move an analysis drop into a dated library folder",
		ArgsUsage: "<source_dir> <target_root>",
		Flags:     sharedFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return errors.New("need exactly source_dir and target_root")
			}
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			source := config.NormalizeDirArg(cmd.Args().Get(0))
			target := config.NormalizeDirArg(cmd.Args().Get(1))
			stats, err := reorg.Reorganize(source, target, cfg.VideoExtensions, log)
			if err != nil {
				return err
			}
			log.Info("Target folder: %s", stats.TargetFolder)
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	flags := append(sharedFlags(),
		&cli.StringFlag{Name: "out", Usage: "output document path; empty picks a timestamped name"},
		&cli.StringFlag{Name: "ext", Usage: "file extension to collect", Value: ".go"},
	)
	return &cli.Command{
		Name:      "export",
		Usage:     "concatenate a folder's source files into one Markdown document",
		ArgsUsage: "<source_dir>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("need exactly source_dir")
			}
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			_, err = export.Export(
				config.NormalizeDirArg(cmd.Args().Get(0)),
				cmd.String("ext"),
				cmd.String("out"),
				log,
			)
			return err
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "verify the external tools are installed",
		Flags: sharedFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			if !check.RunCheck(log) {
				return errors.New("missing required tools")
			}
			return nil
		},
	}
}

// buildConfig assembles the run configuration with precedence
// flags > env > .env file > defaults.
func buildConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if err := config.LoadEnvFile(cmd.String("env")); err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	if cmd.IsSet("timeout") {
		cfg.ProcessTimeout = cmd.Duration("timeout")
	}
	cfg.DryRun = cmd.Bool("dry-run")
	cfg.Verbose = cmd.Bool("verbose")
	cfg.LogFile = cmd.String("log")
	cfg.NoColor = cmd.Bool("no-color")
	return &cfg, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	return logging.NewLogger(cfg.NoColor, cfg.Verbose, cfg.LogFile)
}

// runEnhance performs the precondition checks and runs the enhancement
// batch. A completed batch exits zero even when individual files failed;
// only precondition failures surface as errors.
func runEnhance(ctx context.Context, cfg *config.Config) error {
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner()

	inputAbs, statErr := absPath(cfg.InputDir)
	if statErr == nil {
		// The input exists, so the containment rule can be checked up
		// front. A missing input is handled inside the pipeline, which
		// creates it and tells the user where to put files.
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", cfg.OutputDir, err)
		}
		outputAbs, err := absPath(cfg.OutputDir)
		if err != nil {
			return fmt.Errorf("cannot resolve output path %s: %w", cfg.OutputDir, err)
		}
		if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
			return err
		}
	}

	if err := check.CheckDeps(); err != nil {
		return err
	}

	logRunHeader(log, cfg)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)

	pipeline.RunEnhance(ctx, cfg, log)
	return nil
}

func runSplit(ctx context.Context, cfg *config.Config) error {
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner()

	if _, err := os.Stat(cfg.RootDir); err != nil {
		return fmt.Errorf("root not found: %s", cfg.RootDir)
	}

	if err := check.CheckDeps(); err != nil {
		return err
	}

	logRunHeader(log, cfg)
	log.Info("Root: %s", cfg.RootDir)

	pipeline.RunSplit(ctx, cfg, log)
	return nil
}

func logRunHeader(log *logging.Logger, cfg *config.Config) {
	log.Info("=== VidForge v%s ===", version)
	if cfg.DryRun {
		log.Warn("DRY RUN")
	}
	if cfg.ProcessTimeout > 0 {
		log.Debug("Per-file timeout: %s", cfg.ProcessTimeout.Round(time.Second))
	}
}

// absPath returns the absolute path with symlinks resolved, for comparing
// input vs output hierarchy.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
