package udp

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"amarhadis/internal/core"
	"amarhadis/pkg/models"
	"amarhadis/pkg/utils"
)

// Announcement is a UDP broadcast datagram
type Announcement struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"` // "daily", "system"
	DateKey   string    `json:"date_key,omitempty"`
	Count     int       `json:"count,omitempty"`
	Theme     string    `json:"theme,omitempty"`
}

// Server broadcasts daily selection announcements over UDP
type Server struct {
	addr          string
	conn          *net.UDPConn
	broadcast     chan Announcement
	stop          chan struct{}
	rateLimiter   *rate.Limiter
	dailySvc      core.DailyService
	broadcastAddr *net.UDPAddr
	stats         struct {
		mu             sync.RWMutex
		packetsDropped uint64
		packetsSent    uint64
	}
}

const (
	maxPacketSize    = 1024 // 1KB max packet size
	packetsPerSecond = 100
	burstSize        = 50
)

// NewServer creates a new UDP announcement server
func NewServer(host string, port int, dailySvc core.DailyService) *Server {
	// All clients listen on the same port
	broadcastAddr, _ := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", "255.255.255.255", port))

	return &Server{
		addr:          fmt.Sprintf("%s:%d", host, port),
		broadcast:     make(chan Announcement, 256),
		stop:          make(chan struct{}),
		rateLimiter:   rate.NewLimiter(rate.Limit(packetsPerSecond), burstSize),
		dailySvc:      dailySvc,
		broadcastAddr: broadcastAddr,
	}
}

// Start starts the UDP announcement server
func (s *Server) Start() error {
	addr, err := net.ResolveUDPAddr("udp", s.addr)
	if err != nil {
		return fmt.Errorf("resolve udp addr: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("listen udp: %w", err)
	}

	if err := conn.SetWriteBuffer(maxPacketSize); err != nil {
		fmt.Printf("⚠️ UDP: Failed to set write buffer: %v\n", err)
	}

	s.conn = conn
	fmt.Printf("✅ UDP Announcement Server started on %s (broadcast mode)\n", s.addr)

	go s.broadcastLoop()
	go s.watchMidnight()

	return nil
}

// Stop stops the UDP server
func (s *Server) Stop() {
	fmt.Println("🛑 UDP Announcement Server stopping...")
	close(s.stop)
	if s.conn != nil {
		s.conn.Close()
	}
	fmt.Println("✅ UDP Announcement Server stopped")
}

// broadcastLoop sends announcements via UDP broadcast
func (s *Server) broadcastLoop() {
	fmt.Println("🔊 UDP broadcast loop started")

	for {
		select {
		case announcement := <-s.broadcast:
			if err := s.broadcastAnnouncement(announcement); err != nil {
				fmt.Printf("❌ UDP broadcast error: %v\n", err)
			}
		case <-s.stop:
			return
		}
	}
}

// broadcastAnnouncement sends a single announcement via UDP broadcast
func (s *Server) broadcastAnnouncement(announcement Announcement) error {
	if !s.rateLimiter.Allow() {
		s.stats.mu.Lock()
		s.stats.packetsDropped++
		s.stats.mu.Unlock()
		return fmt.Errorf("rate limit exceeded")
	}

	if announcement.Timestamp.IsZero() {
		announcement.Timestamp = time.Now()
	}

	data, err := json.Marshal(announcement)
	if err != nil {
		return fmt.Errorf("marshal announcement: %w", err)
	}

	if len(data) > maxPacketSize {
		fmt.Printf("⚠️ UDP: Announcement too large (%d bytes), truncating\n", len(data))
		data = data[:maxPacketSize]
	}

	// Fire-and-forget
	s.conn.SetWriteDeadline(time.Now().Add(100 * time.Millisecond))
	if _, err := s.conn.WriteToUDP(data, s.broadcastAddr); err != nil {
		fmt.Printf("⚠️ UDP send error (ignored): %v\n", err)
	}

	s.stats.mu.Lock()
	s.stats.packetsSent++
	s.stats.mu.Unlock()

	fmt.Printf("📤 UDP broadcasted: '%s' (%d bytes)\n",
		truncateMessage(announcement.Message, 50), len(data))

	return nil
}

// watchMidnight announces the fresh selection each time the date rolls over
func (s *Server) watchMidnight() {
	fmt.Println("🕌 UDP midnight watcher started")

	// Announce the current day at startup so late joiners hear it too
	s.AnnounceSelection(s.dailySvc.Today(context.Background()))

	for {
		select {
		case <-s.stop:
			return
		case <-time.After(utils.UntilMidnight(time.Now())):
			selection := s.dailySvc.Today(context.Background())
			s.AnnounceSelection(selection)
		}
	}
}

// AnnounceSelection broadcasts a daily selection announcement
func (s *Server) AnnounceSelection(selection *models.DailySelection) {
	if selection == nil {
		return
	}

	msg := fmt.Sprintf("📖 আজকের হাদিস প্রস্তুত — %d hadith for %s", len(selection.Items), selection.DateKey)
	s.Broadcast(Announcement{
		Message: msg,
		Type:    "daily",
		DateKey: selection.DateKey,
		Count:   len(selection.Items),
		Theme:   selection.Theme,
	})
}

// SendSystemAnnouncement broadcasts a system message (admin use)
func (s *Server) SendSystemAnnouncement(message string) {
	s.Broadcast(Announcement{
		Message:   message,
		Timestamp: time.Now(),
		Type:      "system",
	})
}

// Broadcast queues an announcement (fire-and-forget)
func (s *Server) Broadcast(announcement Announcement) {
	select {
	case s.broadcast <- announcement:
	default:
		s.stats.mu.Lock()
		s.stats.packetsDropped++
		s.stats.mu.Unlock()
		fmt.Println("❌ UDP: Broadcast channel full, dropping announcement")
	}
}

// GetStats returns server statistics
func (s *Server) GetStats() (dropped, sent uint64) {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()
	return s.stats.packetsDropped, s.stats.packetsSent
}

func truncateMessage(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
