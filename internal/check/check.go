// Package check provides precondition validation for the external tools
// the pipeline depends on, plus the check subcommand's diagnostics flow.
package check

import (
	"errors"
	"os/exec"
	"strings"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
// These are the only errors that abort a run before scanning.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck. Defined here
// rather than importing the logging package so that check remains
// dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// CheckDeps verifies that ffmpeg and ffprobe are on PATH. Returns a
// sentinel error on the first missing tool.
func CheckDeps() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}

// RunCheck runs the interactive diagnostics flow: prints availability and
// version of ffmpeg and ffprobe. Returns false when either tool is
// missing.
func RunCheck(log Logger) bool {
	log.Info("=== System Check ===")
	ok := checkTool(log, "ffmpeg")
	ok = checkTool(log, "ffprobe") && ok
	return ok
}

// checkTool verifies one binary is on PATH and logs its version line.
func checkTool(log Logger, name string) bool {
	if _, err := exec.LookPath(name); err != nil {
		log.Error("%s not found", name)
		return false
	}
	out, err := exec.Command(name, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
	return true
}
