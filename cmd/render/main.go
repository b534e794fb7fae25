// render is the batch renderer. It reads a parameter file and writes a single
// image, or every frame of an animation, next to the requested output path.
//
//	render [flags] <params.json> <out.png>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	fractal "github.com/marben/fractal_render"
	"github.com/marben/fractal_render/imageio"
	"github.com/marben/fractal_render/internal/console"
	"github.com/marben/fractal_render/internal/job"
	"github.com/marben/fractal_render/params"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run() error {
	var (
		verbose     = flag.Bool("v", false, "log chunk scheduling and frame timing")
		workers     = flag.Int("workers", 0, "worker goroutines, 0 uses every CPU")
		listPresets = flag.Bool("presets", false, "list the named views and exit")
		quiet       = flag.Bool("q", false, "no progress output")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <params.json> <output.(%s)>\n",
			os.Args[0], strings.Join(imageio.Extensions, "|"))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *listPresets {
		for _, name := range fractal.PresetNames() {
			r, _ := fractal.Preset(name)
			v := r.View()
			fmt.Printf("%-26s zoom %-8g center (%g, %g)\n", name, v.Zoom, v.CenterX, v.CenterY)
		}
		return nil
	}
	if flag.NArg() != 2 {
		flag.Usage()
		return errors.New("expected a parameter file and an output path")
	}
	paramsPath, out := flag.Arg(0), flag.Arg(1)

	if *verbose {
		fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	p, err := params.Load(paramsPath)
	if err != nil {
		return err
	}
	if *workers > 0 {
		p.Workers = *workers
	}

	// Interrupts stop the run after the frame being rendered.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := job.Options{Writer: imageio.Writer{}, Diagnostics: os.Stdout}
	if !*quiet {
		opts.Printer = console.NewPrinter(os.Stdout, "rendering")
	}

	log.Printf("rendering %q into %q", paramsPath, out)
	start := time.Now()
	if err := job.Run(ctx, p, out, opts); err != nil {
		return err
	}
	log.Printf("finished in %s", time.Since(start).Truncate(time.Millisecond))
	return nil
}
