package fractal

import (
	"image"

	"github.com/marben/fractal_render/render"
)

// ImageWriter encodes and stores a finished frame.
type ImageWriter interface {
	WriteImage(path string, img image.Image) (int64, error)
}

// ProgressSink receives throttled progress reports while a frame renders.
type ProgressSink = render.Sink

// FrameRenderer renders one frame of a configured fractal.
type FrameRenderer interface {
	RenderFrame(v View) (*image.RGBA, error)
}
