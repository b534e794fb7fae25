// server renders a parameter file while streaming progress to browsers.
// Open the printed address to watch frames appear as they finish.
//
//	server [-addr :8080] <params.json> <out.png>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/marben/fractal_render/imageio"
	"github.com/marben/fractal_render/internal/console"
	"github.com/marben/fractal_render/internal/job"
	"github.com/marben/fractal_render/internal/live"
	"github.com/marben/fractal_render/params"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	addr := flag.String("addr", ":8080", "http listen address")
	exit := flag.Bool("exit", false, "stop serving once rendering finishes")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <params.json> <output>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		return errors.New("expected a parameter file and an output path")
	}

	p, err := params.Load(flag.Arg(0))
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	hub := live.NewHub(ctx)
	httpServer := webServer(hub, *addr)

	// httpServer provides the viewer page along with the websocket endpoint
	serveErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("httpServer: %w", err)
		}
	}()

	renderErr := make(chan error, 1)
	go func() {
		renderErr <- job.Run(ctx, p, flag.Arg(1), job.Options{
			Writer:      imageio.Writer{},
			Printer:     console.NewPrinter(os.Stdout, "rendering"),
			Hub:         hub,
			Diagnostics: os.Stdout,
		})
	}()

	var runErr error
	select {
	case runErr = <-renderErr:
		if runErr != nil {
			log.Printf("render failed: %v", runErr)
		} else {
			log.Printf("render finished, %d viewers connected", hub.Clients())
		}
		if !*exit {
			log.Printf("still serving the last frame, interrupt to quit")
			select {
			case <-ctx.Done():
			case err := <-serveErr:
				return err
			}
		}
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		// The frame in progress completes before job.Run returns.
		runErr = <-renderErr
	}

	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}
