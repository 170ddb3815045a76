// Package websocket - Daily Reading Room Protocol Handler
// Implements real-time per-date reading rooms: presence, discussion and
// achievement unlock announcements for everyone reading the same day's
// selection.
package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"amarhadis/pkg/models"
)

// Constants for performance and limits
const (
	maxMessageSize  = 1024                // 1KB max message size
	writeWait       = 10 * time.Second    // Time allowed to write a message
	pongWait        = 60 * time.Second    // Time allowed to read the next pong
	pingPeriod      = (pongWait * 9) / 10 // Send pings to client
	maxRoomSize     = 1000                // Max clients per room
	cleanupInterval = 5 * time.Minute     // Room cleanup interval
)

// Hub manages all daily reading rooms and client connections
type Hub struct {
	roomsMu sync.RWMutex
	rooms   map[string]*Room // date_key -> Room
	stop    chan struct{}
	wg      sync.WaitGroup
}

// Room holds everyone reading one day's selection. Rooms are ephemeral:
// discussion is not persisted and empty rooms are reclaimed.
type Room struct {
	dateKey    string
	clientsMu  sync.RWMutex
	clients    map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	stopped    bool
	stop       chan struct{}
}

// Client represents a WebSocket client connection
type Client struct {
	hub          *Hub
	room         *Room
	conn         *websocket.Conn
	send         chan *Message
	userID       string
	username     string
	dateKey      string
	lastActive   time.Time
	onDisconnect func()
}

// Message is the room wire format
type Message struct {
	Type      string    `json:"type"` // "message", "join", "leave", "read", "unlock", "error"
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	DateKey   string    `json:"date_key"`
	HadithID  string    `json:"hadith_id,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new reading room hub
func NewHub() *Hub {
	hub := &Hub{
		rooms: make(map[string]*Room),
		stop:  make(chan struct{}),
	}

	hub.wg.Add(1)
	go hub.cleanupRooms()

	return hub
}

// cleanupRooms periodically removes empty rooms
func (h *Hub) cleanupRooms() {
	defer h.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.roomsMu.Lock()
			for dateKey, room := range h.rooms {
				room.clientsMu.RLock()
				clientCount := len(room.clients)
				room.clientsMu.RUnlock()

				if clientCount == 0 {
					close(room.stop)
					delete(h.rooms, dateKey)
					logrus.Infof("🧹 Cleaned up empty reading room: %s", dateKey)
				}
			}
			h.roomsMu.Unlock()

		case <-h.stop:
			return
		}
	}
}

// GetOrCreateRoom returns the existing room for a date or creates one
func (h *Hub) GetOrCreateRoom(dateKey string) *Room {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	if room, exists := h.rooms[dateKey]; exists {
		return room
	}

	room := &Room{
		dateKey:    dateKey,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		stopped:    false,
	}

	h.rooms[dateKey] = room
	go room.run()

	logrus.Infof("🆕 Created reading room: %s", dateKey)
	return room
}

// run handles room operations
func (r *Room) run() {
	for {
		select {
		case client := <-r.register:
			r.handleRegister(client)
		case client := <-r.unregister:
			r.handleUnregister(client)
		case message := <-r.broadcast:
			r.handleBroadcast(message)
		case <-r.stop:
			r.handleStop()
			return
		}
	}
}

// handleRegister processes client registration
func (r *Room) handleRegister(client *Client) {
	if r.stopped {
		return
	}

	r.clientsMu.Lock()
	if len(r.clients) >= maxRoomSize {
		r.clientsMu.Unlock()
		logrus.Warnf("Room %s full, rejecting client %s", r.dateKey, client.userID)
		return
	}

	r.clients[client] = true
	r.clientsMu.Unlock()

	logrus.Debugf("✅ Client %s joined room %s", client.userID, r.dateKey)

	joinMsg := &Message{
		Type:      "join",
		UserID:    client.userID,
		Username:  client.username,
		DateKey:   r.dateKey,
		Timestamp: time.Now(),
	}
	r.broadcastToAll(joinMsg)
}

// handleUnregister processes client unregistration
func (r *Room) handleUnregister(client *Client) {
	if r.stopped {
		return
	}

	r.clientsMu.Lock()
	if _, ok := r.clients[client]; ok {
		delete(r.clients, client)
		close(client.send)
	}
	r.clientsMu.Unlock()

	logrus.Debugf("👋 Client %s left room %s", client.userID, r.dateKey)

	leaveMsg := &Message{
		Type:      "leave",
		UserID:    client.userID,
		Username:  client.username,
		DateKey:   r.dateKey,
		Timestamp: time.Now(),
	}
	r.broadcastToAll(leaveMsg)
}

// handleBroadcast processes message broadcast
func (r *Room) handleBroadcast(message *Message) {
	if r.stopped {
		return
	}
	r.broadcastToAll(message)
}

// handleStop cleans up room resources
func (r *Room) handleStop() {
	r.stopped = true

	r.clientsMu.Lock()
	for client := range r.clients {
		close(client.send)
		client.conn.Close()
	}
	r.clients = nil
	r.clientsMu.Unlock()

	logrus.Infof("🛑 Room stopped: %s", r.dateKey)
}

// broadcastToAll sends a message to all clients in the room
func (r *Room) broadcastToAll(message *Message) {
	r.clientsMu.RLock()
	defer r.clientsMu.RUnlock()

	for client := range r.clients {
		select {
		case client.send <- message:
		default:
			// Client send buffer full; drop the connection and let the
			// client's own read pump unregister it. Sending on
			// r.unregister here would block the run loop on itself.
			logrus.Warnf("Client %s send buffer full, disconnecting", client.userID)
			client.conn.Close()
		}
	}
}

// BroadcastRead announces into today's room that a reader finished a
// hadith. No-op when the room does not exist.
func (h *Hub) BroadcastRead(dateKey, userID, username, hadithID string) {
	h.sendToRoom(dateKey, &Message{
		Type:      "read",
		UserID:    userID,
		Username:  username,
		DateKey:   dateKey,
		HadithID:  hadithID,
		Timestamp: time.Now(),
	})
}

// BroadcastUnlock announces a fresh achievement unlock to today's room
func (h *Hub) BroadcastUnlock(dateKey, userID, username string, achievements []models.Achievement) {
	for _, a := range achievements {
		h.sendToRoom(dateKey, &Message{
			Type:      "unlock",
			UserID:    userID,
			Username:  username,
			DateKey:   dateKey,
			Content:   a.Name,
			Timestamp: time.Now(),
		})
	}
}

func (h *Hub) sendToRoom(dateKey string, msg *Message) {
	h.roomsMu.RLock()
	room, exists := h.rooms[dateKey]
	h.roomsMu.RUnlock()
	if !exists {
		return
	}

	select {
	case room.broadcast <- msg:
	default:
		logrus.Warnf("Room %s broadcast buffer full, dropping %s event", dateKey, msg.Type)
	}
}

// readPump reads messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		if c.onDisconnect != nil {
			c.onDisconnect()
		}
		c.room.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.lastActive = time.Now()
		return nil
	})

	for {
		_, messageData, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Warnf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(messageData, &msg); err != nil {
			logrus.Warnf("Invalid message format from client %s: %v", c.userID, err)
			c.sendError("invalid_format", "Invalid JSON format")
			continue
		}

		if len(msg.Content) == 0 || len(msg.Content) > 500 {
			c.sendError("invalid_content", "Message must be 1-500 characters")
			continue
		}

		// Clients only ever originate discussion messages; system
		// event types come from the server side
		msg.Type = "message"
		msg.UserID = c.userID
		msg.Username = c.username
		msg.DateKey = c.dateKey
		msg.Timestamp = time.Now()
		c.lastActive = msg.Timestamp

		c.room.broadcast <- &msg
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
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
				// Client was unregistered
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				logrus.Errorf("Failed to marshal message: %v", err)
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.room.stop:
			return
		}
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	errMsg := &Message{
		Type:      "error",
		UserID:    "system",
		Username:  "System",
		DateKey:   c.dateKey,
		Content:   fmt.Sprintf("Error [%s]: %s", code, message),
		Timestamp: time.Now(),
	}

	select {
	case c.send <- errMsg:
	default:
		// Don't block if channel is full
	}
}

// ServeClient handles a WebSocket connection for a client
func (h *Hub) ServeClient(conn *websocket.Conn, userID, username, dateKey string, onDisconnect func()) {
	room := h.GetOrCreateRoom(dateKey)

	client := &Client{
		hub:          h,
		room:         room,
		conn:         conn,
		send:         make(chan *Message, 256),
		userID:       userID,
		username:     username,
		dateKey:      dateKey,
		lastActive:   time.Now(),
		onDisconnect: onDisconnect,
	}

	room.register <- client

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()
}

// GetRoomClientCount returns the number of clients in a room
func (h *Hub) GetRoomClientCount(dateKey string) int {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()

	if room, exists := h.rooms[dateKey]; exists {
		room.clientsMu.RLock()
		defer room.clientsMu.RUnlock()
		return len(room.clients)
	}
	return 0
}

// GetRoomPresence returns current reader presence for a room
func (h *Hub) GetRoomPresence(dateKey string) []*models.UserPresence {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()

	if room, exists := h.rooms[dateKey]; exists {
		room.clientsMu.RLock()
		defer room.clientsMu.RUnlock()

		presence := make([]*models.UserPresence, 0, len(room.clients))
		now := time.Now()

		for client := range room.clients {
			status := "online"
			if now.Sub(client.lastActive) > 5*time.Minute {
				status = "away"
			}

			presence = append(presence, &models.UserPresence{
				UserID:     client.userID,
				Username:   client.username,
				DateKey:    dateKey,
				Status:     status,
				LastActive: client.lastActive,
			})
		}

		return presence
	}

	return []*models.UserPresence{}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	logrus.Info("🛑 Stopping WebSocket hub...")

	close(h.stop)

	h.roomsMu.Lock()
	for _, room := range h.rooms {
		close(room.stop)
	}
	h.roomsMu.Unlock()

	h.wg.Wait()
	logrus.Info("✅ WebSocket hub stopped")
}
