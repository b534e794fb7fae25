// Package imageio writes rendered frames to disk. The encoder is picked from
// the file extension.
package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	fractal "github.com/marben/fractal_render"
	"github.com/marben/fractal_render/errs"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// JPEGQuality is used for .jpg and .jpeg output.
const JPEGQuality = 92

// Extensions lists the supported output extensions.
var Extensions = []string{"png", "jpg", "jpeg", "bmp", "tif", "tiff"}

// Ext returns the lower-cased extension of path without the dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Supported reports whether ext (without dot) has an encoder.
func Supported(ext string) bool {
	for _, e := range Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Encode writes img to w in the format named by ext.
func Encode(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case "png":
		return png.Encode(w, img)
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case "bmp":
		return bmp.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	return errs.Config("output", "unsupported image extension %q, want one of %v", ext, Extensions)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Save encodes img into path, creating missing parent directories.
// It returns the number of bytes written.
func Save(path string, img image.Image) (int64, error) {
	ext := Ext(path)
	if !Supported(ext) {
		return 0, errs.Config("output", "unsupported image extension %q, want one of %v", ext, Extensions)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return 0, errs.IO("write", path, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, errs.IO("write", path, err)
	}

	cw := &countingWriter{w: f}
	bw := bufio.NewWriter(cw)
	encodeErr := Encode(bw, ext, img)
	if encodeErr == nil {
		encodeErr = bw.Flush()
	}
	closeErr := f.Close()
	if encodeErr != nil {
		return cw.n, errs.IO("encode", path, encodeErr)
	}
	if closeErr != nil {
		return cw.n, errs.IO("write", path, closeErr)
	}
	return cw.n, nil
}

// Writer saves images with Save.
type Writer struct{}

func (Writer) WriteImage(path string, img image.Image) (int64, error) {
	return Save(path, img)
}

var _ fractal.ImageWriter = Writer{}

// FramePath names frame i of an animation written to path:
// "out/anim.png" becomes "out/anim_000012.png".
func FramePath(path string, i int) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_%06d%s", stem, i, ext)
}

// HumanSize formats a byte count the way the render summary prints it:
// "12b", "3.4kb", "1.2mb", "2.0gb".
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%db", n)
	}
	v := float64(n) / unit
	for _, suffix := range []string{"kb", "mb", "gb"} {
		if v < unit || suffix == "gb" {
			return fmt.Sprintf("%.1f%s", v, suffix)
		}
		v /= unit
	}
	panic("unreachable")
}

// Summary is the one-line description printed after a frame is written,
// e.g. "output image: 1920x1080 - 1.2mb - png".
func Summary(img image.Image, size int64, path string) string {
	b := img.Bounds()
	return fmt.Sprintf("output image: %dx%d - %s - %s", b.Dx(), b.Dy(), HumanSize(size), Ext(path))
}
