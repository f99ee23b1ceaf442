// Package livereload tells browsers viewing the dev server to reload after a
// rebuild. Pages open a websocket to Path and reload on any message.
package livereload

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// Path is where the hub is mounted, relative to the site base URL.
const Path = "__livereload"

// ReloadMessage is sent to every client after a successful rebuild.
const ReloadMessage = "reload"

const writeWait = 10 * time.Second

// Hub tracks connected pages.
type Hub struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{logger: logger, clients: make(map[*websocket.Conn]struct{})}
}

// ServeHTTP upgrades the request and holds the connection until the page
// goes away. Anything the page sends is discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade error", slog.String("error", err.Error()))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("Live reload client connected", slog.Int("clients", count))

	ctx := conn.CloseRead(r.Context())
	<-ctx.Done()

	h.remove(conn)
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// ClientCount returns the number of connected pages.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends msg to every client and returns how many received it.
// Clients that fail to receive are dropped.
func (h *Hub) Broadcast(ctx context.Context, msg string) int {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	sent := 0
	for _, c := range conns {
		wctx, cancel := context.WithTimeout(ctx, writeWait)
		err := c.Write(wctx, websocket.MessageText, []byte(msg))
		cancel()
		if err != nil {
			h.logger.Debug("Dropping live reload client", slog.String("error", err.Error()))
			h.remove(c)
			_ = c.Close(websocket.StatusGoingAway, "write failed")
			continue
		}
		sent++
	}
	return sent
}

// Script returns the snippet injected into pages; endpoint is the absolute
// path of the hub (base URL + Path).
func Script(endpoint string) string {
	return `<script>(function(){var p=location.protocol==="https:"?"wss://":"ws://";` +
		`var ws=new WebSocket(p+location.host+"` + endpoint + `");` +
		`ws.onmessage=function(){location.reload();};})();</script>`
}
