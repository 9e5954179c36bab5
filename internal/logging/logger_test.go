package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_NoFile(t *testing.T) {
	l, err := NewLogger(true, false, "")
	require.NoError(t, err)
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "vidforge.log")
	l, err := NewLogger(true, false, logPath)
	require.NoError(t, err)

	l.Info("to file")
	l.Error("boom")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[INFO] to file")
	assert.Contains(t, string(b), "[ERROR] boom")
}

func TestLogger_DebugGatedByVerbose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "vidforge.log")
	l, err := NewLogger(true, false, logPath)
	require.NoError(t, err)
	l.Debug("hidden")
	require.NoError(t, l.Close())

	b, _ := os.ReadFile(logPath)
	assert.NotContains(t, string(b), "hidden")

	l, err = NewLogger(true, true, logPath)
	require.NoError(t, err)
	l.Debug("shown")
	require.NoError(t, l.Close())

	b, _ = os.ReadFile(logPath)
	assert.Contains(t, string(b), "[DEBUG] shown")
}
