// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bureau-foundation/hyprwatch/lib/clock"
	"github.com/bureau-foundation/hyprwatch/lib/eventsink"
	"github.com/bureau-foundation/hyprwatch/lib/hyprstate"
)

const (
	defaultPingInterval = 30 * time.Second
	defaultSendBuffer   = 64
	writeWait           = 10 * time.Second
	maxClientMessage    = 4096
)

// Options configures a Hub.
type Options struct {
	// Tracker supplies snapshots. Required.
	Tracker *hyprstate.Tracker

	// PingInterval is how often clients are pinged. Default: 30s.
	PingInterval time.Duration

	// SendBuffer is the per-client queue length. Default: 64.
	SendBuffer int

	// MaxClients limits concurrent websocket clients. Zero means no
	// limit.
	MaxClients int

	// AllowedOrigins lists browser origins allowed to connect. Empty
	// allows the request's own host and loopback origins.
	AllowedOrigins []string

	// Clock drives the ping ticker. Default: clock.Real().
	Clock clock.Clock

	Logger *slog.Logger
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	remote string
}

// Hub tracks websocket clients and broadcasts sink input to them. Safe
// for concurrent use.
type Hub struct {
	tracker        *hyprstate.Tracker
	logger         *slog.Logger
	sendBuffer     int
	maxClients     int
	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool

	ticker    *clock.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

// NewHub returns a Hub and starts its ping loop. Close stops it.
func NewHub(options Options) *Hub {
	if options.PingInterval <= 0 {
		options.PingInterval = defaultPingInterval
	}
	if options.SendBuffer <= 0 {
		options.SendBuffer = defaultSendBuffer
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	hub := &Hub{
		tracker:        options.Tracker,
		logger:         options.Logger,
		sendBuffer:     options.SendBuffer,
		maxClients:     options.MaxClients,
		allowedOrigins: make(map[string]bool),
		clients:        make(map[*client]struct{}),
		ticker:         options.Clock.NewTicker(options.PingInterval),
		done:           make(chan struct{}),
	}
	for _, origin := range options.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			hub.allowedOrigins[trimmed] = true
		}
	}
	hub.upgrader = websocket.Upgrader{CheckOrigin: hub.checkOrigin}
	go hub.pingLoop()
	return hub
}

// Handler returns a mux serving /ws and /state.
func (hub *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/state", hub.ServeState)
	return mux
}

// ServeState writes the current snapshot as JSON.
func (hub *Hub) ServeState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(hub.tracker.Snapshot()); err != nil {
		hub.logger.Warn("writing state response failed", "error", err)
	}
}

// ServeWS upgrades the request and registers the client.
func (hub *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	hub.mu.RLock()
	full := hub.maxClients > 0 && len(hub.clients) >= hub.maxClients
	closed := hub.closed
	hub.mu.RUnlock()
	if closed {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	if full {
		http.Error(w, "too many clients", http.StatusServiceUnavailable)
		return
	}

	conn, err := hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		hub.logger.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	conn.SetReadLimit(maxClientMessage)

	c := &client{conn: conn, send: make(chan []byte, hub.sendBuffer), remote: r.RemoteAddr}
	if !hub.add(c) {
		conn.Close()
		return
	}
	hub.logger.Info("websocket client connected", "remote", c.remote)

	go hub.writePump(c)
	go hub.readPump(c)
}

// add registers c and queues the snapshot as its first message. The
// write lock keeps broadcasts from reaching c before the snapshot.
func (hub *Hub) add(c *client) bool {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.closed {
		return false
	}

	data, err := json.Marshal(Message{Type: MessageSnapshot, Payload: hub.tracker.Snapshot()})
	if err != nil {
		hub.logger.Error("encoding snapshot failed", "error", err)
		return false
	}
	c.send <- data
	hub.clients[c] = struct{}{}
	return true
}

func (hub *Hub) remove(c *client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if _, ok := hub.clients[c]; ok {
		delete(hub.clients, c)
		close(c.send)
	}
}

// readPump discards client messages until the connection fails.
func (hub *Hub) readPump(c *client) {
	defer func() {
		hub.remove(c)
		hub.logger.Info("websocket client disconnected", "remote", c.remote)
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (hub *Hub) writePump(c *client) {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			hub.remove(c)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
}

func (hub *Hub) pingLoop() {
	defer hub.ticker.Stop()
	for {
		select {
		case <-hub.done:
			return
		case <-hub.ticker.C:
			hub.mu.RLock()
			clients := make([]*client, 0, len(hub.clients))
			for c := range hub.clients {
				clients = append(clients, c)
			}
			hub.mu.RUnlock()

			for _, c := range clients {
				if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					hub.logger.Debug("websocket ping failed", "remote", c.remote, "error", err)
					hub.remove(c)
				}
			}
		}
	}
}

// broadcast queues message for every client, disconnecting clients
// whose queue is full.
func (hub *Hub) broadcast(message Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	var slow []*client
	hub.mu.RLock()
	for c := range hub.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	hub.mu.RUnlock()

	for _, c := range slow {
		hub.logger.Warn("websocket client too slow, disconnecting", "remote", c.remote)
		hub.remove(c)
	}
	return nil
}

func (hub *Hub) HandleEvent(_ context.Context, delivery eventsink.Delivery) error {
	return hub.broadcast(eventMessage(delivery))
}

func (hub *Hub) HandleFailure(_ context.Context, failure eventsink.Failure) error {
	return hub.broadcast(failureMessage(failure))
}

// ClientCount returns the number of connected clients.
func (hub *Hub) ClientCount() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.clients)
}

// Close disconnects every client and stops the ping loop. New
// connections are refused afterwards.
func (hub *Hub) Close() error {
	hub.closeOnce.Do(func() {
		close(hub.done)
		hub.mu.Lock()
		hub.closed = true
		for c := range hub.clients {
			delete(hub.clients, c)
			close(c.send)
		}
		hub.mu.Unlock()
	})
	return nil
}

func (hub *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(hub.allowedOrigins) > 0 {
		return hub.allowedOrigins[origin]
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	if parsed.Host == r.Host {
		return true
	}
	switch parsed.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
