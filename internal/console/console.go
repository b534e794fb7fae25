// Package console prints render progress and diagnostics to a terminal.
package console

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/marben/fractal_render/render"
)

const barWidth = 30

// Printer rewrites a single status line while a frame renders.
// It implements render.Sink.
type Printer struct {
	w     io.Writer
	label string

	labelStyle lipgloss.Style
	barStyle   lipgloss.Style
	infoStyle  lipgloss.Style

	m       sync.Mutex
	last    render.Status
	printed bool
}

// NewPrinter returns a printer writing to w. Colors are only emitted when w
// is a terminal.
func NewPrinter(w io.Writer, label string) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:          w,
		label:      label,
		labelStyle: r.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		barStyle:   r.NewStyle().Foreground(lipgloss.Color("49")),
		infoStyle:  r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// SetLabel changes the label shown in front of the bar, e.g. the frame number.
func (p *Printer) SetLabel(label string) {
	p.m.Lock()
	defer p.m.Unlock()
	p.label = label
}

func (p *Printer) Report(s render.Status) {
	p.m.Lock()
	defer p.m.Unlock()
	p.last = s
	p.printed = true
	fmt.Fprint(p.w, "\r"+p.line(s))
}

// Done terminates the status line. It is a no-op if nothing was reported.
func (p *Printer) Done() {
	p.m.Lock()
	defer p.m.Unlock()
	if p.printed {
		fmt.Fprintln(p.w)
		p.printed = false
	}
}

// Println prints a finished-step line, such as the output summary.
func (p *Printer) Println(a ...any) {
	p.m.Lock()
	defer p.m.Unlock()
	fmt.Fprintln(p.w, p.infoStyle.Render(fmt.Sprint(a...)))
}

func (p *Printer) line(s render.Status) string {
	f := s.Fraction()
	filled := int(math.Round(f * barWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("%s %s %5.1f%% %s",
		p.labelStyle.Render(p.label),
		p.barStyle.Render(bar),
		100*f,
		p.infoStyle.Render(s.Elapsed.Truncate(time.Millisecond).String()),
	)
}

var _ render.Sink = (*Printer)(nil)

// Histogram plots bucket counts on a log scale.
func Histogram(w io.Writer, counts []uint64, caption string) error {
	if len(counts) == 0 {
		return nil
	}
	data := make([]float64, len(counts))
	for i, c := range counts {
		data[i] = math.Log1p(float64(c))
	}
	plot := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(min(len(data), 80)),
		asciigraph.Caption(caption+" (log scale)"),
	)
	_, err := fmt.Fprintln(w, plot)
	return err
}
