package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsVideoFile(t *testing.T) {
	for _, name := range []string{"a.mp4", "b.AVI", "c.Mov", "d.mkv", "e.flv", "f.wmv", "g.webm"} {
		assert.True(t, IsVideoFile(name), name)
	}
	for _, name := range []string{"a.mp3", "b.txt", "mp4", "c.mp4.part", ""} {
		assert.False(t, IsVideoFile(name), name)
	}
}

func TestCheckInput(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "clip.MP4")
	require.NoError(t, os.WriteFile(good, make([]byte, 2048), 0o644))
	size, err := CheckInput(good)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), size)

	tiny := filepath.Join(dir, "tiny.mkv")
	require.NoError(t, os.WriteFile(tiny, []byte("x"), 0o644))
	_, err = CheckInput(tiny)
	assert.ErrorIs(t, err, ErrInputTooSmall)

	_, err = CheckInput(filepath.Join(dir, "missing.mov"))
	assert.ErrorIs(t, err, ErrInputNotFound)

	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, make([]byte, 2048), 0o644))
	_, err = CheckInput(notes)
	assert.ErrorIs(t, err, ErrNotVideo)

	folder := filepath.Join(dir, "folder.mp4")
	require.NoError(t, os.Mkdir(folder, 0o755))
	_, err = CheckInput(folder)
	assert.ErrorIs(t, err, ErrNotVideo)
}

func TestResult_SizeDelta(t *testing.T) {
	r := Result{InputBytes: 1000, OutputBytes: 600}
	assert.Equal(t, int64(-400), r.SizeDelta())
	assert.Equal(t, "", string(r.Encoder()))
}
