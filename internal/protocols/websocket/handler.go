package websocket

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"amarhadis/internal/core"
	"amarhadis/pkg/utils"
)

// Handler manages WebSocket connections for daily reading rooms
type Handler struct {
	hub            *Hub
	authSvc        core.AuthService
	allowedOrigins []string
	upgrader       websocket.Upgrader
	metrics        struct {
		sync.Mutex
		totalConnections uint64
		activeRooms      map[string]int
	}
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc core.AuthService, allowedOrigins []string) *Handler {
	if allowedOrigins == nil {
		allowedOrigins = []string{"*"}
	}

	handler := &Handler{
		hub:            hub,
		authSvc:        authSvc,
		allowedOrigins: allowedOrigins,
	}
	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		CheckOrigin:       handler.checkOrigin,
		EnableCompression: true,
		Subprotocols:      []string{"amarhadis.reader-v1", "amarhadis.web-v1"},
	}
	handler.metrics.activeRooms = make(map[string]int)
	return handler
}

// Hub exposes the hub for event broadcasting from other surfaces
func (h *Handler) Hub() *Hub {
	return h.hub
}

// HandleWebSocket upgrades an HTTP connection into a reading room.
// The room is addressed by date key; "today" is accepted as an alias.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	dateKey := c.Param("date")
	if dateKey == "" || dateKey == "today" {
		dateKey = utils.TodayKey()
	}
	if err := utils.ValidateDateKey(dateKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date key"})
		return
	}

	token, err := extractToken(c)
	if err != nil {
		h.sendWebSocketError(c, http.StatusUnauthorized, "authentication_required", err.Error())
		return
	}

	user, err := h.authSvc.ValidateToken(c.Request.Context(), token)
	if err != nil {
		h.sendWebSocketError(c, http.StatusUnauthorized, "invalid_token", err.Error())
		return
	}

	logrus.Infof("WebSocket connection attempt: date=%s user_id=%s", dateKey, user.ID)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Errorf("WebSocket upgrade failed: %v", err)
		// NOTE: gorilla/websocket writes its own HTTP response (often 403) when CheckOrigin fails.
		// Writing JSON here can cause confusing double-write behavior, so just return.
		return
	}

	h.updateMetrics(dateKey, true)

	h.hub.ServeClient(conn, user.ID, user.Username, dateKey, func() {
		h.updateMetrics(dateKey, false)
	})

	logrus.Infof("✅ WebSocket client connected: date=%s user_id=%s", dateKey, user.ID)
}

// GetRoomStatus returns the live state of a reading room
func (h *Handler) GetRoomStatus(c *gin.Context) {
	dateKey := c.Param("date")
	if dateKey == "" || dateKey == "today" {
		dateKey = utils.TodayKey()
	}
	if err := utils.ValidateDateKey(dateKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date key"})
		return
	}

	clientCount := h.hub.GetRoomClientCount(dateKey)
	presence := h.hub.GetRoomPresence(dateKey)

	c.JSON(http.StatusOK, gin.H{
		"date_key":     dateKey,
		"client_count": clientCount,
		"active":       clientCount > 0,
		"online_users": presence,
	})
}

// GetGlobalStatus returns global WebSocket statistics
func (h *Handler) GetGlobalStatus(c *gin.Context) {
	h.metrics.Lock()
	defer h.metrics.Unlock()

	activeRooms := make([]gin.H, 0, len(h.metrics.activeRooms))
	for dateKey, count := range h.metrics.activeRooms {
		if count > 0 {
			activeRooms = append(activeRooms, gin.H{
				"date_key": dateKey,
				"clients":  count,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_connections": h.metrics.totalConnections,
		"active_rooms":      activeRooms,
		"server_time":       time.Now().UTC(),
	})
}

// extractToken extracts the authentication token from the request
func extractToken(c *gin.Context) (string, error) {
	// Try query parameter first (for terminal clients)
	token := c.Query("token")
	if token != "" {
		return token, nil
	}

	// Try Authorization header
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1], nil
		}
	}

	// Try cookie (for web clients)
	cookie, err := c.Request.Cookie("token")
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", fmt.Errorf("no authentication token provided")
}

// checkOrigin validates the request origin against the configured
// allow list
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	// Non-browser clients may omit Origin; treat as allowed.
	if origin == "" {
		return true
	}

	// Always allow local development origins (terminal client).
	if u, err := url.Parse(origin); err == nil {
		host := strings.ToLower(u.Hostname())
		if host == "localhost" || host == "127.0.0.1" || host == "0.0.0.0" {
			return true
		}
	}

	// In development, allow all origins
	if gin.Mode() == gin.DebugMode {
		return true
	}

	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

// sendWebSocketError sends a proper WebSocket error with logging
func (h *Handler) sendWebSocketError(c *gin.Context, status int, code, message string) {
	logrus.Warnf("WebSocket error: status=%d code=%s message=%s", status, code, message)

	c.JSON(status, gin.H{
		"error":     code,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// updateMetrics updates connection metrics
func (h *Handler) updateMetrics(dateKey string, connected bool) {
	h.metrics.Lock()
	defer h.metrics.Unlock()

	if connected {
		h.metrics.totalConnections++
		h.metrics.activeRooms[dateKey]++
	} else {
		if count, exists := h.metrics.activeRooms[dateKey]; exists {
			count--
			if count <= 0 {
				delete(h.metrics.activeRooms, dateKey)
			} else {
				h.metrics.activeRooms[dateKey] = count
			}
		}
	}
}
