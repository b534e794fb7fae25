package main

import (
	"log"
	"net/http"
	"time"

	"github.com/marben/fractal_render/internal/live"
)

// webServer serves the live viewer page, the /ws progress stream and the
// latest frame from hub.
func webServer(hub *live.Hub, addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://%s", displayAddr(addr))
	return srv
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
