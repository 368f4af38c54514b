// Package wsframe implements machine.ScreenSink as a websocket
// broadcaster: every completed frame is fanned out, as a raw binary
// message, to whatever clients are currently connected. It is a
// demonstration layer, not part of the emulator core, grounded in the
// teacher's pkg/display/web hub/client broadcast pattern.
package wsframe

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tylergibbs2/gbcore/internal/machine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub accepts websocket connections and broadcasts frames pushed
// through PushFrame to every client currently registered.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool

	broadcast  chan []byte
	register   chan *client
	unregister chan *client
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub returns a Hub with its broadcast loop not yet started; call
// Run in its own goroutine before serving HTTP traffic.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 4),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run drives client (de)registration and frame fan-out. It blocks
// until its goroutine is abandoned by the caller exiting the process;
// there is no explicit stop signal, mirroring the teacher's hub.run().
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case frame := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					// client too slow to keep up; drop it rather than
					// block the whole broadcast on one stalled socket
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PushFrame implements machine.ScreenSink. It never blocks the
// emulation loop: a full broadcast channel silently drops the frame,
// since a live viewer only cares about the most recent one anyway.
func (h *Hub) PushFrame(rgba *[machine.ScreenWidth * machine.ScreenHeight * 4]byte) {
	buf := make([]byte, len(rgba))
	copy(buf, rgba[:])
	select {
	case h.broadcast <- buf:
	default:
	}
}

// ServeHTTP upgrades the request to a websocket connection and spawns
// its write pump; client messages are not read, this is a one-way
// frame feed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("wsframe: upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 2)}
	h.register <- c
	go c.writePump(h)
}

func (c *client) writePump(h *Hub) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		h.unregister <- c
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
