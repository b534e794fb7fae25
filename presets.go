package fractal

import (
	"maps"
	"slices"
	"strings"
)

// Region is a rectangle of the complex plane.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// View centers a region of the given width on a point. Its height follows
// the image aspect ratio.
func (r Region) View() View {
	return View{
		Zoom:    r.Xmax - r.Xmin,
		CenterX: (r.Xmin + r.Xmax) / 2,
		CenterY: (r.Ymin + r.Ymax) / 2,
	}
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: 0.25,
		Xmax: 0.35,
		Ymin: -0.05,
		Ymax: 0.05,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}

	// Whole set
	FullSet = Region{
		Xmin: -2.5,
		Xmax: 1.0,
		Ymin: -1.25,
		Ymax: 1.25,
	}
)

var presets = map[string]Region{
	"seahorse_valley":         SeahorseValley,
	"elephant_valley":         ElephantValley,
	"spiral_minibrot":         SpiralMinibrot,
	"triple_spiral":           TripleSpiral,
	"valley_of_the_dragon":    ValleyOfTheDragon,
	"minibrot_in_mini_spiral": MinibrotInMiniSpiral,
	"full_set":                FullSet,
}

// Preset looks up a named region, ignoring case.
func Preset(name string) (Region, bool) {
	r, ok := presets[strings.ToLower(name)]
	return r, ok
}

// PresetNames lists the known region names in sorted order.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(presets))
}
