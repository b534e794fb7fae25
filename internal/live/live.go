// Package live streams render progress to browsers over a websocket and
// serves the most recent frame.
package live

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"image"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	fractal "github.com/marben/fractal_render"
	"github.com/marben/fractal_render/imageio"
	"github.com/marben/fractal_render/render"
)

//go:embed static
var static embed.FS

// clientBuffer is the number of events queued per client. Events beyond it
// are dropped for that client.
const clientBuffer = 64

const writeTimeout = 5 * time.Second

// Event is the JSON message sent to websocket clients.
type Event struct {
	Type    string  `json:"type"` // "progress", "frame" or "error"
	Frame   int     `json:"frame"`
	Frames  int     `json:"frames,omitempty"`
	Percent float64 `json:"percent"`
	Elapsed string  `json:"elapsed,omitempty"`
	Version int     `json:"version,omitempty"`
	Message string  `json:"message,omitempty"`
}

type client struct {
	ch chan Event
}

// Hub fans events out to every connected client.
type Hub struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	m       sync.Mutex
	clients map[*client]struct{}
	last    *Event // replayed to new clients
	png     []byte
	version int
}

// NewHub returns a hub. Cancel ctx or call Close to disconnect all clients.
func NewHub(ctx context.Context) *Hub {
	ctx, cancel := context.WithCancel(ctx)
	return &Hub{
		ctx:     ctx,
		cancel:  cancel,
		log:     fractal.Logger(),
		clients: make(map[*client]struct{}),
	}
}

// Close disconnects every client.
func (h *Hub) Close() error {
	h.cancel()
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.m.Lock()
	defer h.m.Unlock()
	return len(h.clients)
}

func (h *Hub) addClient() *client {
	c := &client{ch: make(chan Event, clientBuffer)}
	h.m.Lock()
	defer h.m.Unlock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.ch <- *h.last
	}
	h.log.Debug("live client connected", "clients", len(h.clients))
	return c
}

func (h *Hub) removeClient(c *client) {
	h.m.Lock()
	defer h.m.Unlock()
	delete(h.clients, c)
	h.log.Debug("live client disconnected", "clients", len(h.clients))
}

// Publish queues ev for every client without blocking.
func (h *Hub) Publish(ev Event) {
	h.m.Lock()
	defer h.m.Unlock()
	if ev.Type != "progress" {
		h.last = &ev
	}
	for c := range h.clients {
		select {
		case c.ch <- ev:
		default:
		}
	}
}

// Sink reports progress of frame i out of frames.
func (h *Hub) Sink(i, frames int) render.Sink {
	return render.SinkFunc(func(s render.Status) {
		h.Publish(Event{
			Type:    "progress",
			Frame:   i,
			Frames:  frames,
			Percent: 100 * s.Fraction(),
			Elapsed: s.Elapsed.Truncate(time.Millisecond).String(),
		})
	})
}

// PublishFrame stores img as the current frame and notifies clients.
func (h *Hub) PublishFrame(i, frames int, img image.Image, message string) error {
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, "png", img); err != nil {
		return err
	}
	h.m.Lock()
	h.png = buf.Bytes()
	h.version++
	v := h.version
	h.m.Unlock()

	h.Publish(Event{Type: "frame", Frame: i, Frames: frames, Percent: 100, Version: v, Message: message})
	return nil
}

// PublishError notifies clients that rendering failed.
func (h *Hub) PublishError(err error) {
	h.Publish(Event{Type: "error", Message: err.Error()})
}

// Frame returns the PNG encoding of the current frame and its version.
// The version is zero before the first frame.
func (h *Hub) Frame() ([]byte, int) {
	h.m.Lock()
	defer h.m.Unlock()
	return h.png, h.version
}

// Handler serves the viewer page on "/", the websocket on "/ws" and the
// current frame on "/frame.png".
func (h *Hub) Handler() http.Handler {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/frame.png", h.serveFrame)
	mux.Handle("/", http.FileServerFS(sub))
	return mux
}

func (h *Hub) serveFrame(w http.ResponseWriter, r *http.Request) {
	b, v := h.Frame()
	if v == 0 {
		http.Error(w, "no frame rendered yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(b)
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn("websocket accept", "err", err)
		return
	}
	defer conn.CloseNow()

	c := h.addClient()
	defer h.removeClient(c)

	// Clients never send; CloseRead handles pings and the close handshake.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case ev := <-c.ch:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, ev)
			cancel()
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					h.log.Debug("websocket write", "err", err)
				}
				return
			}
		case <-ctx.Done():
			return
		case <-h.ctx.Done():
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
	}
}
