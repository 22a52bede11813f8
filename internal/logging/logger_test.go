package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BitEU/Hashbrown/internal/config"
)

func TestLogger_LevelsAndRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut, nil, false, false)

	l.Info("probing %s", "clip.mp4")
	l.Success("done")
	l.Warn("no audio")
	l.Error("ffmpeg failed")
	l.Debug("hidden")

	stdout := out.String()
	assert.Contains(t, stdout, "[INFO] probing clip.mp4")
	assert.Contains(t, stdout, "[SUCCESS] done")
	assert.Contains(t, stdout, "[WARN] no audio")
	assert.NotContains(t, stdout, "ffmpeg failed", "errors go to stderr")
	assert.NotContains(t, stdout, "hidden", "debug needs verbose")
	assert.NotContains(t, stdout, "success=", "marker field is consumed")

	assert.Contains(t, errOut.String(), "[ERROR] ffmpeg failed")
}

func TestLogger_VerboseEnablesDebug(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, &out, nil, false, true)
	l.Debug("args: %v", []string{"-y"})
	assert.Contains(t, out.String(), "[DEBUG] args: [-y]")
}

func TestLogger_ColorLabels(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, &out, nil, true, false)
	l.Success("ok")
	assert.Contains(t, out.String(), "\033[1;92m[SUCCESS]\033[0m")
}

func TestLogger_FileSinkIsPlain(t *testing.T) {
	var out, file bytes.Buffer
	l := New(&out, &out, &file, true, false)
	l.Warn("careful")
	l.Error("broken")

	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[WARN] careful")
	assert.Contains(t, lines[1], "[ERROR] broken")
	assert.NotContains(t, file.String(), "\033[")
}

func TestLogger_WithAddsField(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, &out, nil, false, false).With("job", "abc123")
	l.Info("started")
	assert.Contains(t, out.String(), "job=abc123")
}

func TestNewLogger_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "hashbrown.log")
	cfg := config.DefaultConfig()
	cfg.LogFile = path
	cfg.ColorMode = config.ColorNever

	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	l.Info("first")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "second close is a no-op")

	l, err = NewLogger(&cfg)
	require.NoError(t, err)
	l.Info("second")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] first")
	assert.Contains(t, string(data), "[INFO] second")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("nothing")
	assert.NoError(t, l.Close())
}
