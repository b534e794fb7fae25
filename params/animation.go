package params

import (
	"fmt"
	"math"
	"strings"

	fractal "github.com/marben/fractal_render"
	"github.com/marben/fractal_render/engine"
	"github.com/marben/fractal_render/errs"
)

// Transition shapes a step between its from and to values. The zero value
// is Linear.
type Transition int

const (
	Linear Transition = iota
	// Constant holds the from value for the whole step.
	Constant
	// Smooth eases in and out with a smoothstep curve.
	Smooth
	// Exponential interpolates geometrically, which keeps zooms visually
	// steady. Both ends must be positive.
	Exponential
)

var transitionNames = []string{"linear", "constant", "smooth", "exponential"}

func (t Transition) String() string {
	if int(t) >= 0 && int(t) < len(transitionNames) {
		return transitionNames[t]
	}
	return fmt.Sprintf("Transition(%d)", int(t))
}

func (t *Transition) UnmarshalText(b []byte) error {
	for i, name := range transitionNames {
		if strings.EqualFold(string(b), name) {
			*t = Transition(i)
			return nil
		}
	}
	return fmt.Errorf("unknown transition %q", b)
}

func (t Transition) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Step moves a value from From to To between Start and End seconds.
type Step struct {
	Start      float64    `json:"start"`
	End        float64    `json:"end"`
	From       float64    `json:"from"`
	To         float64    `json:"to"`
	Transition Transition `json:"transition"`
}

// Value evaluates the step at t. Before Start it is From, after End it is To.
func (s Step) Value(t float64) float64 {
	if t <= s.Start {
		return s.From
	}
	if t >= s.End {
		if s.Transition == Constant {
			return s.From
		}
		return s.To
	}
	p := (t - s.Start) / (s.End - s.Start)
	switch s.Transition {
	case Constant:
		return s.From
	case Smooth:
		p = p * p * (3 - 2*p)
	case Exponential:
		return s.From * math.Pow(s.To/s.From, p)
	}
	return s.From + (s.To-s.From)*p
}

func (s Step) validate() error {
	if math.IsNaN(s.Start) || math.IsNaN(s.End) || s.End < s.Start {
		return errs.Config("end", "%v precedes start %v", s.End, s.Start)
	}
	if s.Transition < Linear || s.Transition > Exponential {
		return errs.Config("transition", "unknown transition %v", s.Transition)
	}
	if s.Transition == Exponential && !(s.From > 0 && s.To > 0) {
		return errs.Config("transition", "exponential needs positive from and to, got %v and %v", s.From, s.To)
	}
	return nil
}

type starter interface{ start() float64 }

func (s Step) start() float64        { return s.Start }
func (s FractalStep) start() float64 { return s.Start }

// ActiveStep returns the last step whose start is at or before t.
// Steps must be ordered by start.
func ActiveStep[S starter](steps []S, t float64) (S, bool) {
	var active S
	found := false
	for _, s := range steps {
		if s.start() > t {
			break
		}
		active, found = s, true
	}
	return active, found
}

// Track is a time-ordered list of steps for one value.
type Track []Step

// At evaluates the active step at t. Before the first step the first
// step's From value holds.
func (tr Track) At(t float64) float64 {
	s, ok := ActiveStep([]Step(tr), t)
	if !ok {
		return tr[0].From
	}
	return s.Value(t)
}

func (tr Track) validate(name string) error {
	if len(tr) == 0 {
		return errs.Config(name, "needs at least one step")
	}
	for i, s := range tr {
		if err := s.validate(); err != nil {
			return errs.Prefix(fmt.Sprintf("%s[%d]", name, i), err)
		}
		if i > 0 && s.Start < tr[i-1].Start {
			return errs.Config(fmt.Sprintf("%s[%d].start", name, i), "%v before previous start %v", s.Start, tr[i-1].Start)
		}
	}
	return nil
}

// FractalStep switches the recurrence at Start.
type FractalStep struct {
	Start float64 `json:"start"`
	FractalSpec
}

// Animation is a sequence of frames at FPS for Duration seconds.
type Animation struct {
	Zoom     Track         `json:"zoom"`
	CenterX  Track         `json:"center_x"`
	CenterY  Track         `json:"center_y"`
	Fractal  []FractalStep `json:"fractal,omitempty"`
	Duration float64       `json:"duration"`
	FPS      float64       `json:"fps"`
}

// FrameCount is floor(Duration * FPS).
func (a *Animation) FrameCount() int {
	return int(math.Floor(a.Duration * a.FPS))
}

// FrameTime is the time of frame i in seconds.
func (a *Animation) FrameTime(i int) float64 {
	return float64(i) / a.FPS
}

// Validate checks timing and every track.
func (a *Animation) Validate() error {
	if !(a.Duration > 0) {
		return errs.Config("duration", "must be positive, got %v", a.Duration)
	}
	if !(a.FPS > 0) {
		return errs.Config("fps", "must be positive, got %v", a.FPS)
	}
	if a.FrameCount() < 1 {
		return errs.Config("duration", "%vs at %v fps yields no frames", a.Duration, a.FPS)
	}
	for _, tr := range []struct {
		name  string
		steps Track
	}{{"zoom", a.Zoom}, {"center_x", a.CenterX}, {"center_y", a.CenterY}} {
		if err := tr.steps.validate(tr.name); err != nil {
			return err
		}
	}
	for i, fs := range a.Fractal {
		if _, err := fs.Fractal(); err != nil {
			return errs.Prefix(fmt.Sprintf("fractal[%d]", i), err)
		}
		if i > 0 && fs.Start < a.Fractal[i-1].Start {
			return errs.Config(fmt.Sprintf("fractal[%d].start", i), "%v before previous start %v", fs.Start, a.Fractal[i-1].Start)
		}
	}
	// Zoom must stay positive over the whole animation.
	for i := range a.FrameCount() {
		if z := a.Zoom.At(a.FrameTime(i)); !(z > 0) {
			return errs.Config("zoom", "evaluates to %v at frame %d", z, i)
		}
	}
	return nil
}

// ViewAt evaluates the view and fractal at t.
func (a *Animation) ViewAt(t float64) (fractal.View, engine.Fractal, error) {
	v := fractal.View{
		Zoom:    a.Zoom.At(t),
		CenterX: a.CenterX.At(t),
		CenterY: a.CenterY.At(t),
	}
	spec := FractalSpec{}
	if fs, ok := ActiveStep(a.Fractal, t); ok {
		spec = fs.FractalSpec
	} else if len(a.Fractal) > 0 {
		spec = a.Fractal[0].FractalSpec
	}
	f, err := spec.Fractal()
	return v, f, err
}
