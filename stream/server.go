// Package stream broadcasts world snapshots to websocket clients so
// external viewers can observe a headless run.
package stream

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeTimeout bounds how long a single snapshot write may block. Publish
// runs on the tick loop, so a stalled client costs at most this much.
const writeTimeout = 250 * time.Millisecond

// MicrobeSnapshot is the wire form of one microbe's state.
type MicrobeSnapshot struct {
	ID       uint32     `json:"id"`
	Position [3]float32 `json:"pos"`
	Rotation [4]float32 `json:"rot"` // w, x, y, z
	Colony   bool       `json:"colony,omitempty"`
	Dead     bool       `json:"dead,omitempty"`
}

// WorldSnapshot is one tick's worth of observable state.
type WorldSnapshot struct {
	Tick     int32             `json:"tick"`
	Microbes []MicrobeSnapshot `json:"microbes"`
}

// Broadcaster fans world snapshots out to connected websocket clients.
// Slow clients are dropped rather than allowed to stall the simulation.
type Broadcaster struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewBroadcaster creates a broadcaster with permissive origin checking
// (this is a local debugging tool, not a public endpoint).
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the websocket upgrade handler for an HTTP mux.
func (b *Broadcaster) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("stream: upgrade failed", "error", err)
			return
		}

		b.mu.Lock()
		b.clients[conn] = struct{}{}
		count := len(b.clients)
		b.mu.Unlock()
		slog.Info("stream: client connected", "clients", count)

		// Drain (and discard) client messages to process close frames
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					b.drop(conn)
					return
				}
			}
		}()
	}
}

// Publish sends a snapshot to every connected client.
func (b *Broadcaster) Publish(snapshot WorldSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	deadline := time.Now().Add(writeTimeout)
	for conn := range b.clients {
		conn.SetWriteDeadline(deadline)
		if err := conn.WriteJSON(snapshot); err != nil {
			conn.Close()
			delete(b.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// drop removes a client after a read error.
func (b *Broadcaster) drop(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	conn.Close()
	delete(b.clients, conn)
}

// Serve starts an HTTP server exposing the websocket endpoint at /ws.
// Blocks; run in a goroutine.
func (b *Broadcaster) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", b.Handler())
	return http.ListenAndServe(addr, mux)
}
