package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Local tool; any page on the machine may connect
	},
}

// Message types pushed to clients.
const (
	MessageConnected  = "connected"
	MessageDeckChange = "deck_change"
	MessageTimer      = "timer"
)

// MessageWatch is the one message clients send: it scopes the connection
// to a session. An empty session watches all of them.
const MessageWatch = "watch"

// WebSocketMessage is the JSON message sent to clients.
type WebSocketMessage struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`
	Data    any    `json:"data"`
}

type clientMessage struct {
	Type    string `json:"type"`
	Session string `json:"session"`
}

// WebSocketHub fans deck changes out to every client and session events to
// the clients watching that session.
type WebSocketHub struct {
	mu      sync.RWMutex
	clients map[*WebSocketClient]struct{}
}

// WebSocketClient is one live connection.
type WebSocketClient struct {
	hub  *WebSocketHub
	conn *websocket.Conn
	send chan []byte

	mu      sync.RWMutex
	session string
}

// NewWebSocketHub creates a new WebSocket hub.
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{clients: make(map[*WebSocketClient]struct{})}
}

// Broadcast sends a message to every connected client.
func (h *WebSocketHub) Broadcast(msgType string, data any) {
	h.deliver(WebSocketMessage{Type: msgType, Data: data}, func(*WebSocketClient) bool {
		return true
	})
}

// Publish sends a session-scoped message to the clients watching sessionID
// and to unscoped clients.
func (h *WebSocketHub) Publish(sessionID, msgType string, data any) {
	h.deliver(WebSocketMessage{Type: msgType, Session: sessionID, Data: data}, func(c *WebSocketClient) bool {
		return c.watching(sessionID)
	})
}

func (h *WebSocketHub) deliver(msg WebSocketMessage, want func(*WebSocketClient) bool) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal %s message: %v", msg.Type, err)
		return
	}

	h.mu.RLock()
	targets := make([]*WebSocketClient, 0, len(h.clients))
	for client := range h.clients {
		if want(client) {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		h.trySend(client, payload)
	}
}

// trySend queues data for a client. A client whose buffer is full is
// dropped; one removed concurrently is skipped.
func (h *WebSocketHub) trySend(client *WebSocketClient, data []byte) {
	h.mu.RLock()
	_, live := h.clients[client]
	if live {
		select {
		case client.send <- data:
		default:
			live = false
		}
	}
	h.mu.RUnlock()

	if !live {
		h.removeClient(client)
	}
}

func (h *WebSocketHub) addClient(client *WebSocketClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
}

// removeClient unregisters the client and closes its send channel, which
// tells writePump to hang up. Safe to call more than once.
func (h *WebSocketHub) removeClient(client *WebSocketClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request. The optional ?session= query parameter
// scopes the connection from the start.
func (h *WebSocketHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &WebSocketClient{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		session: r.URL.Query().Get("session"),
	}

	// Queue the greeting before registering so it is always the first frame
	welcome, _ := json.Marshal(WebSocketMessage{
		Type:    MessageConnected,
		Session: client.session,
		Data:    map[string]any{"message": "Live updates enabled"},
	})
	client.send <- welcome

	h.addClient(client)

	go client.writePump()
	go client.readPump()
}

func (c *WebSocketClient) watching(sessionID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session == "" || c.session == sessionID
}

func (c *WebSocketClient) watch(sessionID string) {
	c.mu.Lock()
	c.session = sessionID
	c.mu.Unlock()
}

// handleMessage applies one inbound frame. Unknown types are ignored.
func (c *WebSocketClient) handleMessage(raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("WebSocket: ignoring malformed message: %v", err)
		return
	}
	if msg.Type == MessageWatch {
		c.watch(msg.Session)
	}
}

// readPump handles watch messages and detects disconnects.
func (c *WebSocketClient) readPump() {
	// writePump owns the connection; unregistering closes send, which stops it
	defer c.hub.removeClient(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		c.handleMessage(raw)
	}
}

// writePump sends queued messages, one JSON document per frame, and keeps
// the connection alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
