// Package push implements the Push Adapter: a gorilla/websocket hub that
// keeps one addressable connection per handle and delivers fire-and-forget
// envelopes to it.
package push

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/duelcore/matchcore/pkg/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	outboxSize     = 16
)

// Hub maintains the set of connected handles and routes envelopes to them.
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client

	logger logging.Logger

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

// Client is the per-handle websocket session.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan *Envelope
	handle string
}

// NewHub creates a new, unstarted push hub.
func NewHub(logger logging.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes register/unregister requests until Stop is called.
func (h *Hub) Run() {
	h.logger.Info("push hub started")

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case <-h.ctx.Done():
			h.logger.Info("push hub shutting down")
			h.closeAll()
			return
		}
	}
}

// Stop signals Run to shut down and disconnect every client.
func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[client.handle]; ok {
		close(existing.send)
		existing.conn.Close()
	}

	h.clients[client.handle] = client
	h.logger.Info("push client registered", logging.PlayerHandle(client.handle), logging.Int("total_clients", len(h.clients)))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[client.handle]; ok && current == client {
		delete(h.clients, client.handle)
		close(client.send)
		h.logger.Info("push client unregistered", logging.PlayerHandle(client.handle), logging.Int("total_clients", len(h.clients)))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for handle, client := range h.clients {
		close(client.send)
		client.conn.Close()
		delete(h.clients, handle)
	}
}

// Send delivers an envelope to handle's session, fire-and-forget. Returns
// false if the handle has no live session or its outbox is full, in which
// case the client is dropped rather than blocking the caller.
func (h *Hub) Send(handle string, env *Envelope) bool {
	h.mu.RLock()
	client, ok := h.clients[handle]
	h.mu.RUnlock()

	if !ok {
		return false
	}

	select {
	case client.send <- env:
		return true
	default:
		h.logger.Warn("push client outbox full, dropping client", logging.PlayerHandle(handle))
		go func() { h.unregister <- client }()
		return false
	}
}

// IsOnline reports whether handle currently has a live session.
func (h *Hub) IsOnline(handle string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[handle]
	return ok
}

// Register upgrades conn into a managed client for handle and starts its
// read/write pumps. Blocks until the connection closes.
func (h *Hub) Register(conn *websocket.Conn, handle string) {
	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan *Envelope, outboxSize),
		handle: handle,
	}

	h.register <- client

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); client.writePump() }()
	go func() { defer wg.Done(); client.readPump() }()
	wg.Wait()
}

// readPump only drains control frames (pong/close); the protocol has no
// client-to-server payload, so any data frame is discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				c.hub.logger.Error("push write failed", logging.PlayerHandle(c.handle), logging.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
