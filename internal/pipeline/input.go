package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// minFileSize rejects inputs too small to hold a playable video.
const minFileSize = 1000

var (
	ErrInputNotFound = errors.New("input file not found")
	ErrNotVideo      = errors.New("not a supported video file")
	ErrInputTooSmall = errors.New("input file too small (possibly corrupt)")
)

// Supported video file extensions (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".flv":  true,
	".wmv":  true,
	".m4v":  true,
	".webm": true,
	".ts":   true,
	".m2ts": true,
	".mpg":  true,
	".mpeg": true,
}

// IsVideoFile reports whether path has a supported video extension. The
// comparison is case-insensitive.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// CheckInput verifies that path is an existing regular file with a video
// extension and returns its size.
func CheckInput(path string) (int64, error) {
	if !IsVideoFile(path) {
		return 0, fmt.Errorf("%w: %s", ErrNotVideo, filepath.Base(path))
	}
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return 0, err
	}
	if !fi.Mode().IsRegular() {
		return 0, fmt.Errorf("%w: %s is not a regular file", ErrNotVideo, path)
	}
	if fi.Size() < minFileSize {
		return 0, fmt.Errorf("%w: %s", ErrInputTooSmall, path)
	}
	return fi.Size(), nil
}
