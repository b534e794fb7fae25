package sampling

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/marben/fractal_render/errs"
)

const previewSize = 512

// WritePreview renders pts as a PNG scatter plot over the unit square.
// It is a diagnostic for judging coverage, never used while rendering.
func WritePreview(w io.Writer, pts []Point) error {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}

	unit := &chart.ContinuousRange{Min: 0, Max: 1}
	graph := chart.Chart{
		Title:  fmt.Sprintf("sampling pattern (%d points)", len(pts)),
		Width:  previewSize,
		Height: previewSize,
		XAxis:  chart.XAxis{Range: unit},
		YAxis:  chart.YAxis{Range: unit},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "offsets",
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    3,
					DotColor:    drawing.ColorBlue,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return graph.Render(chart.PNG, w)
}

// SavePreview writes WritePreview's output to path, creating missing parent
// directories.
func SavePreview(path string, pts []Point) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errs.IO("write", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.IO("write", path, err)
	}
	defer f.Close()

	if err := WritePreview(f, pts); err != nil {
		return errs.IO("encode", path, err)
	}
	return errs.IO("write", path, f.Close())
}
