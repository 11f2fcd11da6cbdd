// Package stream broadcasts rendered framebuffers to spectating websocket
// clients: brotli-compressed, and skipped entirely when the frame hash
// hasn't changed since the last broadcast.
package stream

import (
	"net/http"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/google/brotli/go/cbrotli"
	"github.com/gorilla/websocket"
)

// CompressionQuality is the brotli quality level used for every encoded
// frame; lower is faster, higher is smaller. 5 favors a broadcast loop
// running every frame over squeezing out the last few bytes.
const CompressionQuality = 5

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 4,
	WriteBufferSize: 1024 * 16,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans a single emulator's framebuffer out to any number of
// connected spectators.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	lastHash  uint64
	lastFrame []byte
	hasFrame  bool
}

// NewHub returns an empty Hub ready to accept connections and frames.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// ServeHTTP upgrades the incoming request to a websocket connection and
// registers it as a spectator. It implements http.Handler so a Hub can
// be mounted directly on a ServeMux.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 8)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	replay := h.hasFrame
	h.mu.Unlock()

	go c.writePump()
	if replay {
		h.mu.Lock()
		last := h.lastFrame
		h.mu.Unlock()
		c.enqueue(last)
	}

	go func() {
		defer h.remove(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Broadcast compresses framebuffer and sends it to every connected
// spectator, unless it's byte-identical to the last frame broadcast.
func (h *Hub) Broadcast(framebuffer []byte) error {
	hash := xxhash.Sum64(framebuffer)

	h.mu.Lock()
	unchanged := h.hasFrame && hash == h.lastHash
	h.mu.Unlock()
	if unchanged {
		return nil
	}

	encoded, err := cbrotli.Encode(framebuffer, cbrotli.WriterOptions{Quality: CompressionQuality})
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.lastHash = hash
	h.lastFrame = encoded
	h.hasFrame = true
	for c := range h.clients {
		c.enqueue(encoded)
	}
	h.mu.Unlock()
	return nil
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// enqueue drops the frame rather than blocking if the client is already
// behind; a spectator stream favors recency over completeness.
func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			return
		}
	}
}
