// Package engine evaluates the complex recurrences behind the renderer.
//
// Every recurrence is seeded at zero and iterated until the tracked term's
// squared magnitude reaches 4 or the iteration bound is hit. Each iterate,
// including the escaping one, is part of the orbit, so the orbit length always
// equals the iteration count.
package engine

import (
	"fmt"
	"strings"

	"github.com/marben/fractal_render/errs"
)

// Kind selects a recurrence.
type Kind int

const (
	// Mandelbrot is z <- z^2 + c.
	Mandelbrot Kind = iota
	// SecondDegree tracks two lagged terms: z1 <- c + z0 + z1^2.
	SecondDegree
	// ThirdDegree tracks three lagged terms: z2 <- c + z0 + z1^2 + z2^3.
	ThirdDegree
	// NthDegree slides a window of N terms: new = c + sum(window[k]^(k+1)).
	NthDegree
)

var kindNames = map[Kind]string{
	Mandelbrot:   "mandelbrot",
	SecondDegree: "second_degree",
	ThirdDegree:  "third_degree",
	NthDegree:    "nth_degree",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String. It ignores case.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, errs.Config("fractal.kind", "unknown recurrence %q", s)
}

const escapeRadiusSqr = 4.0

// Fractal is a validated recurrence descriptor. The zero value is Mandelbrot.
type Fractal struct {
	kind  Kind
	order int
}

// New returns the recurrence for kind. order is only read for NthDegree and
// must be at least 1. Orders 1 to 3 resolve to the fixed recurrences, so
// New(NthDegree, 1) evaluates exactly like Mandelbrot.
func New(kind Kind, order int) (Fractal, error) {
	switch kind {
	case Mandelbrot, SecondDegree, ThirdDegree:
		return Fractal{kind: kind}, nil
	case NthDegree:
		switch {
		case order < 1:
			return Fractal{}, errs.Config("fractal.order", "must be at least 1, got %d", order)
		case order <= 3:
			return Fractal{kind: Kind(order - 1)}, nil
		}
		return Fractal{kind: NthDegree, order: order}, nil
	}
	return Fractal{}, errs.Config("fractal.kind", "unknown recurrence %d", int(kind))
}

// Kind returns the resolved recurrence kind.
func (f Fractal) Kind() Kind { return f.kind }

// Order returns the number of lagged terms the recurrence tracks.
func (f Fractal) Order() int {
	if f.kind == NthDegree {
		return f.order
	}
	return int(f.kind) + 1
}

func (f Fractal) String() string {
	if f.kind == NthDegree {
		return fmt.Sprintf("%s(%d)", f.kind, f.order)
	}
	return f.kind.String()
}

// Result is an evaluated orbit. len(Orbit) == Iterations.
type Result struct {
	Iterations int
	Orbit      []complex128
}

// Escaped reports whether the tracked term left the escape radius within
// maxIter iterations. An orbit stopped by the bound still escaped if its
// final iterate lies outside the radius.
func (r Result) Escaped(maxIter int) bool {
	if r.Iterations < maxIter {
		return true
	}
	return len(r.Orbit) > 0 && normSqr(r.Orbit[len(r.Orbit)-1]) >= escapeRadiusSqr
}

// Orbit evaluates c and records every visited iterate. The orbit is appended
// to buf[:0], so callers may reuse one buffer across samples.
func (f Fractal) Orbit(c complex128, maxIter int, buf []complex128) Result {
	orbit := buf[:0]
	n := f.iterate(c, maxIter, &orbit)
	return Result{Iterations: n, Orbit: orbit}
}

// Escape evaluates c and returns only the iteration count.
func (f Fractal) Escape(c complex128, maxIter int) int {
	return f.iterate(c, maxIter, nil)
}

func (f Fractal) iterate(c complex128, maxIter int, orbit *[]complex128) int {
	switch f.kind {
	case SecondDegree:
		return second(c, maxIter, orbit)
	case ThirdDegree:
		return third(c, maxIter, orbit)
	case NthDegree:
		return nth(f.order, c, maxIter, orbit)
	default:
		return mandelbrot(c, maxIter, orbit)
	}
}

func normSqr(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

func mandelbrot(c complex128, maxIter int, orbit *[]complex128) int {
	var z complex128
	i := 0
	for i < maxIter && normSqr(z) < escapeRadiusSqr {
		z = z*z + c
		if orbit != nil {
			*orbit = append(*orbit, z)
		}
		i++
	}
	return i
}

func second(c complex128, maxIter int, orbit *[]complex128) int {
	var z0, z1 complex128
	i := 0
	for i < maxIter && normSqr(z1) < escapeRadiusSqr {
		z0, z1 = z1, c+z0+z1*z1
		if orbit != nil {
			*orbit = append(*orbit, z1)
		}
		i++
	}
	return i
}

func third(c complex128, maxIter int, orbit *[]complex128) int {
	var z0, z1, z2 complex128
	i := 0
	for i < maxIter && normSqr(z2) < escapeRadiusSqr {
		z0, z1, z2 = z1, z2, c+z0+z1*z1+z2*z2*z2
		if orbit != nil {
			*orbit = append(*orbit, z2)
		}
		i++
	}
	return i
}

// nth handles any order >= 1 with an explicit window. Small windows live on
// the stack.
func nth(n int, c complex128, maxIter int, orbit *[]complex128) int {
	var small [8]complex128
	var w []complex128
	if n <= len(small) {
		w = small[:n]
	} else {
		w = make([]complex128, n)
	}

	i := 0
	for i < maxIter && normSqr(w[n-1]) < escapeRadiusSqr {
		next := c
		for k := range n {
			next += powi(w[k], k+1)
		}
		copy(w, w[1:])
		w[n-1] = next
		if orbit != nil {
			*orbit = append(*orbit, next)
		}
		i++
	}
	return i
}

// powi is z^n for n >= 1 by repeated squaring.
func powi(z complex128, n int) complex128 {
	r := z
	n--
	for n > 0 {
		if n&1 == 1 {
			r *= z
		}
		z *= z
		n >>= 1
	}
	return r
}
