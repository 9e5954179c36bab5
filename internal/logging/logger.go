// Package logging provides leveled, optionally styled console logging with
// an optional append-mode file sink. The file sink always receives plain
// text so logs stay grep-able.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Level tag styles. Resolved once in NewLogger; when colors are disabled
// every style renders plain text.
type styleSet struct {
	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	debug   lipgloss.Style
}

func coloredStyles() styleSet {
	return styleSet{
		info:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		warn:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		err:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		debug:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
	}
}

func plainStyles() styleSet {
	plain := lipgloss.NewStyle()
	return styleSet{info: plain, success: plain, warn: plain, err: plain, debug: plain}
}

// Logger writes timestamped leveled lines to stdout (errors to stderr) and,
// when configured, to a log file. Safe for use from multiple goroutines.
type Logger struct {
	mu      sync.Mutex
	styles  styleSet
	color   bool
	verbose bool
	file    *os.File
}

// NewLogger builds a Logger. Colors are enabled when noColor is false,
// stdout is a TTY, and the NO_COLOR convention is not in effect. When
// logFile is non-empty it is opened in append mode; call Close when done.
func NewLogger(noColor, verbose bool, logFile string) (*Logger, error) {
	l := &Logger{verbose: verbose}

	l.color = !noColor &&
		isTerminal(os.Stdout) &&
		os.Getenv("NO_COLOR") == "" &&
		strings.ToLower(os.Getenv("TERM")) != "dumb"
	if l.color {
		l.styles = coloredStyles()
	} else {
		l.styles = plainStyles()
	}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
	}
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func (l *Logger) line(level string, style lipgloss.Style, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	l.mu.Lock()
	defer l.mu.Unlock()

	out := os.Stdout
	if level == "ERROR" {
		out = os.Stderr
	}
	_, _ = io.WriteString(out, ts+" "+style.Render("["+level+"]")+" "+text+"\n")

	if l.file != nil {
		_, _ = io.WriteString(l.file, ts+" ["+level+"] "+text+"\n")
	}
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", l.styles.info, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level.
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", l.styles.success, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", l.styles.warn, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level, to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", l.styles.err, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level only when the logger is verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.line("DEBUG", l.styles.debug, fmt.Sprintf(format, args...))
}
