// Package icon finds and sizes the overlay image drawn over redacted video.
package icon

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // decoder registration
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// DefaultName is the icon looked up when no explicit path is given.
const DefaultName = "mute.png"

// ErrIconNotFound means no icon file could be located.
var ErrIconNotFound = errors.New("overlay icon not found")

// Locate resolves the icon path. An explicit path must exist; otherwise
// DefaultName is searched beside the executable, then in the working
// directory.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		if isFile(explicit) {
			return explicit, nil
		}
		return "", fmt.Errorf("%w: %s", ErrIconNotFound, explicit)
	}

	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, DefaultName)
		if isFile(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: no %s beside the executable or in the working directory", ErrIconNotFound, DefaultName)
}

// Prepare decodes src (PNG or JPEG), shrinks it to fit a maxSide square
// keeping its aspect ratio, and writes the result as a PNG in dir. Images
// already within bounds are re-encoded at their own size. The caller
// removes the returned file.
func Prepare(src string, maxSide int, dir string) (string, error) {
	if maxSide < 1 {
		return "", fmt.Errorf("icon size must be positive (got %d)", maxSide)
	}

	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decode icon %s: %w", src, err)
	}
	if format != "png" && format != "jpeg" {
		return "", fmt.Errorf("icon %s: unsupported format %q", src, format)
	}

	out, err := os.CreateTemp(dir, "hashbrown-icon-*.png")
	if err != nil {
		return "", err
	}
	if err := png.Encode(out, Fit(img, maxSide)); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("write icon: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	return out.Name(), nil
}

// Fit returns img scaled down with Catmull-Rom so neither side exceeds
// maxSide. Smaller images are returned unchanged.
func Fit(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxSide)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// FitSize computes the thumbnail dimensions of a w x h image bounded by a
// maxSide square. Sides never grow and never drop below 1.
func FitSize(w, h, maxSide int) (int, int) {
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w >= h {
		nh := h * maxSide / w
		if nh < 1 {
			nh = 1
		}
		return maxSide, nh
	}
	nw := w * maxSide / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxSide
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
