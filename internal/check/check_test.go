package check

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockLogger records formatted lines per level.
type mockLogger struct {
	errors []string
	lines  []string
}

func (m *mockLogger) Info(format string, args ...interface{}) {
	m.lines = append(m.lines, fmt.Sprintf(format, args...))
}
func (m *mockLogger) Success(format string, args ...interface{}) {
	m.lines = append(m.lines, fmt.Sprintf(format, args...))
}
func (m *mockLogger) Warn(format string, args ...interface{}) {
	m.lines = append(m.lines, fmt.Sprintf(format, args...))
}
func (m *mockLogger) Error(format string, args ...interface{}) {
	m.errors = append(m.errors, fmt.Sprintf(format, args...))
}

func TestCheckDeps_EmptyPath(t *testing.T) {
	t.Setenv("PATH", "")
	assert.ErrorIs(t, CheckDeps(), ErrFfmpegNotFound)
}

func TestRunCheck_EmptyPath(t *testing.T) {
	t.Setenv("PATH", "")
	log := &mockLogger{}

	assert.False(t, RunCheck(log))
	assert.Contains(t, log.errors, "ffmpeg not found")
	assert.Contains(t, log.errors, "ffprobe not found")
}
