// Package view maps between pixel coordinates and the complex plane.
package view

import (
	"math"

	"github.com/marben/fractal_render/errs"
)

// Transform is the pixel <-> plane mapping of one frame. Pixel row 0 is the
// top of the image, which carries the largest imaginary part.
type Transform struct {
	PixelWidth, PixelHeight int

	XMin, YMin  float64 // bottom-left corner of the visible plane
	PlaneWidth  float64
	PlaneHeight float64
}

// New centers a window of width zoom on (centerX, centerY). The plane height
// follows the image aspect ratio.
func New(pixelWidth, pixelHeight int, zoom, centerX, centerY float64) (Transform, error) {
	switch {
	case pixelWidth <= 0:
		return Transform{}, errs.Config("img_width", "must be positive, got %d", pixelWidth)
	case pixelHeight <= 0:
		return Transform{}, errs.Config("img_height", "must be positive, got %d", pixelHeight)
	case !(zoom > 0) || math.IsInf(zoom, 0):
		return Transform{}, errs.Config("zoom", "must be a positive finite number, got %v", zoom)
	case math.IsNaN(centerX) || math.IsInf(centerX, 0):
		return Transform{}, errs.Config("center_x", "must be finite, got %v", centerX)
	case math.IsNaN(centerY) || math.IsInf(centerY, 0):
		return Transform{}, errs.Config("center_y", "must be finite, got %v", centerY)
	}

	aspect := float64(pixelWidth) / float64(pixelHeight)
	w := zoom
	h := w / aspect
	return Transform{
		PixelWidth:  pixelWidth,
		PixelHeight: pixelHeight,
		XMin:        centerX - w/2,
		YMin:        centerY - h/2,
		PlaneWidth:  w,
		PlaneHeight: h,
	}, nil
}

// ToPlane maps a (possibly fractional) pixel position to the plane.
func (t Transform) ToPlane(px, py float64) complex128 {
	x := t.XMin + px/float64(t.PixelWidth)*t.PlaneWidth
	y := t.YMin + (1-py/float64(t.PixelHeight))*t.PlaneHeight
	return complex(x, y)
}

// ToPixel maps z back to the pixel containing it. ok is false when z falls
// outside the image.
func (t Transform) ToPixel(z complex128) (x, y int, ok bool) {
	fx := (real(z) - t.XMin) / t.PlaneWidth * float64(t.PixelWidth)
	fy := (1 - (imag(z)-t.YMin)/t.PlaneHeight) * float64(t.PixelHeight)
	// NaN compares false and lands here too.
	if !(fx >= 0 && fy >= 0 && fx < float64(t.PixelWidth) && fy < float64(t.PixelHeight)) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// Center returns the plane point at the middle of the image.
func (t Transform) Center() complex128 {
	return complex(t.XMin+t.PlaneWidth/2, t.YMin+t.PlaneHeight/2)
}
