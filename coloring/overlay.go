package coloring

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	stripWidth  = 64
	stripHeight = 8
	stripOffset = 8
)

// DrawGradientStrip paints a stripWidth x stripHeight sample of g into the
// bottom-right corner of img, labelled with its 0 and 1 ends when there is
// room. Images too small for the strip are left untouched.
func DrawGradientStrip(img *image.RGBA, g Gradient) {
	b := img.Bounds()
	if b.Dx() < stripWidth+stripOffset || b.Dy() < stripHeight+stripOffset {
		return
	}

	x0 := b.Max.X - stripWidth - stripOffset
	y0 := b.Max.Y - stripHeight - stripOffset
	for i := range stripWidth {
		c := g.At(float64(i) / stripWidth)
		for j := range stripHeight {
			img.SetRGBA(x0+i, y0+j, c)
		}
	}

	face := basicfont.Face7x13
	glyph := face.Advance
	if x0-glyph-1 < b.Min.X || y0+stripHeight-face.Ascent < b.Min.Y {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: face,
		Dot:  fixed.P(x0-glyph-1, y0+stripHeight),
	}
	d.DrawString("0")
	d.Dot = fixed.P(x0+stripWidth+1, y0+stripHeight)
	d.DrawString("1")
}
