package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connPair dials a throwaway server and returns both ends of a live
// WebSocket connection.
func connPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	serverConn := <-serverConns
	t.Cleanup(func() {
		clientConn.Close()
		serverConn.Close()
	})
	return serverConn, clientConn
}

func TestBroadcastDisconnectsSlowClient(t *testing.T) {
	slowConn, slowPeer := connPair(t)
	healthyConn, _ := connPair(t)

	room := &Room{
		dateKey: "2026-01-01",
		clients: make(map[*Client]bool),
	}
	slow := &Client{room: room, conn: slowConn, send: make(chan *Message), userID: "slow"}
	healthy := &Client{room: room, conn: healthyConn, send: make(chan *Message, 8), userID: "healthy"}
	room.clients[slow] = true
	room.clients[healthy] = true

	done := make(chan struct{})
	go func() {
		room.broadcastToAll(&Message{Type: "message", Content: "assalamu alaikum"})
		close(done)
	}()

	// A client that never drains its buffer must not stall the room
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast stalled on a full send buffer")
	}

	select {
	case msg := <-healthy.send:
		assert.Equal(t, "message", msg.Type)
	default:
		t.Fatal("healthy client missed the broadcast")
	}

	// The slow client's connection was dropped, so its peer sees the
	// socket die
	slowPeer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := slowPeer.ReadMessage()
	assert.Error(t, err)
}

func TestBroadcastDeliversToAllWithCapacity(t *testing.T) {
	room := &Room{
		dateKey: "2026-01-01",
		clients: make(map[*Client]bool),
	}
	a := &Client{room: room, send: make(chan *Message, 1), userID: "a"}
	b := &Client{room: room, send: make(chan *Message, 1), userID: "b"}
	room.clients[a] = true
	room.clients[b] = true

	room.broadcastToAll(&Message{Type: "read", HadithID: "h1"})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			assert.Equal(t, "h1", msg.HadithID)
		default:
			t.Fatalf("client %s missed the broadcast", c.userID)
		}
	}
}
