package websocket

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func originRequest(origin string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/2026-01-01/ws", nil)
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	return r
}

func TestCheckOriginHonorsAllowList(t *testing.T) {
	// Debug mode waves every origin through, so pin release mode for
	// the duration of the test
	prev := gin.Mode()
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(prev)

	hub := NewHub()
	defer hub.Stop()
	h := NewHandler(hub, nil, []string{"https://amarhadis.app"})

	assert.True(t, h.checkOrigin(originRequest("https://amarhadis.app")))
	assert.False(t, h.checkOrigin(originRequest("https://evil.example")))
	assert.False(t, h.checkOrigin(originRequest("http://amarhadis.app.evil.example")))
}

func TestCheckOriginAllowsNonBrowserAndLocalClients(t *testing.T) {
	prev := gin.Mode()
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(prev)

	hub := NewHub()
	defer hub.Stop()
	h := NewHandler(hub, nil, []string{"https://amarhadis.app"})

	// Native readers send no Origin header at all
	assert.True(t, h.checkOrigin(originRequest("")))
	assert.True(t, h.checkOrigin(originRequest("http://localhost:3000")))
	assert.True(t, h.checkOrigin(originRequest("http://127.0.0.1:8080")))
}

func TestCheckOriginWildcardDefault(t *testing.T) {
	prev := gin.Mode()
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(prev)

	hub := NewHub()
	defer hub.Stop()
	h := NewHandler(hub, nil, nil)

	assert.True(t, h.checkOrigin(originRequest("https://anything.example")))
}
