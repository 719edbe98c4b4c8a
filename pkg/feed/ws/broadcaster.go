// Package ws is a FillSink that broadcasts fills to subscribed websocket
// clients, adapted from the teacher's hub/register/broadcast pattern.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/novaex/lob/pkg/lob"
	"github.com/novaex/lob/pkg/obslog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const clientSendBuffer = 256

// wireFill is the JSON shape published to clients.
type wireFill struct {
	Symbol   string  `json:"symbol"`
	Price    string  `json:"price"`
	Quantity string  `json:"quantity"`
	SideSign int8    `json:"side_sign"`
}

// Broadcaster is a FillSink that fans every fill out to all connected
// websocket clients. Slow clients are dropped rather than allowed to
// stall the fan-out.
type Broadcaster struct {
	logger obslog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewBroadcaster builds an empty Broadcaster. Call ServeHTTP to accept
// connections.
func NewBroadcaster(logger obslog.Logger) *Broadcaster {
	if logger == nil {
		logger = obslog.Nop()
	}
	return &Broadcaster{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// OnFill implements lob.FillSink.
func (b *Broadcaster) OnFill(e lob.FillEvent) {
	payload, err := json.Marshal(wireFill{
		Symbol:   e.Symbol,
		Price:    e.Price.String(),
		Quantity: e.Quantity.String(),
		SideSign: e.SideSign,
	})
	if err != nil {
		b.logger.Error("marshal fill", "error", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		select {
		case c.send <- payload:
		default:
			b.logger.Warn("dropping slow websocket client")
			b.removeLocked(c)
		}
	}
}

// ServeHTTP upgrades the connection and registers it for broadcast.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientSendBuffer)}

	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()

	go b.writePump(c)
	go b.readPump(c)
}

// readPump exists only to notice the client going away; this feed is
// publish-only and ignores inbound frames.
func (b *Broadcaster) readPump(c *client) {
	defer b.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) writePump(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (b *Broadcaster) unregister(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(c)
}

func (b *Broadcaster) removeLocked(c *client) {
	if _, ok := b.clients[c]; !ok {
		return
	}
	delete(b.clients, c)
	close(c.send)
}
