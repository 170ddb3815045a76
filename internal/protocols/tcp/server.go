package tcp

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"amarhadis/internal/repository"
)

// EventType represents a hadith engagement event
type EventType string

const (
	EventTypeRead  EventType = "read"
	EventTypeLike  EventType = "like"
	EventTypeShare EventType = "share"
)

// EngagementEvent is a weekly-score event sent by other services
type EngagementEvent struct {
	Type      EventType `json:"type"`
	HadithID  string    `json:"hadith_id"`
	UserID    *string   `json:"user_id"`
	EventTime time.Time `json:"event_time"`
	Weight    int       `json:"weight"` // read=1, like=1, share=2
	Source    string    `json:"source"` // "http", "websocket", "cli", "system"
}

// Server aggregates engagement events into hadith counters and weekly scores
type Server struct {
	addr       string
	listener   net.Listener
	hadithRepo repository.HadithRepository
	connMu     sync.Mutex
	stop       chan struct{}
	stopped    chan struct{}
}

// NewServer creates a new TCP engagement aggregator server
func NewServer(host string, port int, hadithRepo repository.HadithRepository) *Server {
	return &Server{
		addr:       fmt.Sprintf("%s:%d", host, port),
		hadithRepo: hadithRepo,
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Start starts the TCP engagement aggregator server
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("tcp listen failed on %s: %w", s.addr, err)
	}

	s.listener = listener
	fmt.Printf("✅ TCP Engagement Aggregator started on %s\n", s.addr)

	go s.acceptLoop()
	return nil
}

// Stop stops the TCP server gracefully
func (s *Server) Stop() {
	fmt.Println("🛑 TCP Engagement Aggregator stopping...")

	s.connMu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	s.connMu.Unlock()

	close(s.stop)

	select {
	case <-s.stopped:
		fmt.Println("✅ TCP Engagement Aggregator stopped cleanly")
	case <-time.After(5 * time.Second):
		fmt.Println("⚠️ TCP Engagement Aggregator forced stop after timeout")
	}
}

// acceptLoop accepts incoming TCP connections
func (s *Server) acceptLoop() {
	defer close(s.stopped)

	fmt.Println("👂 TCP Engagement Aggregator accepting connections...")

	for {
		select {
		case <-s.stop:
			return
		default:
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.stop:
					return
				default:
					fmt.Printf("❌ TCP accept error: %v\n", err)
					continue
				}
			}

			conn.SetReadDeadline(time.Now().Add(30 * time.Second))
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))

			clientAddr := conn.RemoteAddr().String()
			fmt.Printf("🔌 TCP client connected from %s\n", clientAddr)

			go s.handleConnection(conn, clientAddr)
		}
	}
}

// handleConnection processes a TCP connection with length-prefixed framing
func (s *Server) handleConnection(conn net.Conn, clientAddr string) {
	defer func() {
		conn.Close()
		fmt.Printf("🔌 TCP client disconnected: %s\n", clientAddr)
	}()

	reader := bufio.NewReader(conn)
	ctx := context.Background()

	for {
		select {
		case <-s.stop:
			return
		default:
			// 4-byte big-endian length prefix
			var length uint32
			if err := binary.Read(reader, binary.BigEndian, &length); err != nil {
				if err != io.EOF {
					fmt.Printf("❌ TCP read length error from %s: %v\n", clientAddr, err)
				}
				return
			}

			const maxFrameSize = 1024
			if length == 0 {
				fmt.Printf("❌ TCP invalid frame length 0 from %s\n", clientAddr)
				return
			}
			if length > maxFrameSize {
				fmt.Printf("❌ TCP frame too large from %s: %d bytes (max %d)\n",
					clientAddr, length, maxFrameSize)
				return
			}

			data := make([]byte, length)
			if _, err := io.ReadFull(reader, data); err != nil {
				fmt.Printf("❌ TCP read data error from %s: %v\n", clientAddr, err)
				return
			}

			var event EngagementEvent
			if err := json.Unmarshal(data, &event); err != nil {
				fmt.Printf("❌ TCP parse error from %s: %v\n", clientAddr, err)
				s.sendError(conn, fmt.Sprintf("Invalid event format: %v", err))
				continue
			}

			if event.EventTime.IsZero() {
				event.EventTime = time.Now()
			}
			if event.Source == "" {
				event.Source = "system"
			}
			if event.Weight == 0 {
				switch event.Type {
				case EventTypeShare:
					event.Weight = 2
				default:
					event.Weight = 1
				}
			}

			if err := s.validateEvent(&event); err != nil {
				fmt.Printf("❌ TCP validation error from %s: %v\n", clientAddr, err)
				s.sendError(conn, err.Error())
				continue
			}

			if err := s.processEvent(ctx, &event); err != nil {
				fmt.Printf("❌ TCP processing error for event %s from %s: %v\n",
					event.Type, clientAddr, err)
				s.sendError(conn, fmt.Sprintf("Processing failed: %v", err))
				continue
			}

			s.sendSuccess(conn, "Event processed successfully")
		}
	}
}

// validateEvent validates incoming engagement events
func (s *Server) validateEvent(event *EngagementEvent) error {
	validTypes := map[EventType]bool{
		EventTypeRead:  true,
		EventTypeLike:  true,
		EventTypeShare: true,
	}

	if !validTypes[event.Type] {
		return fmt.Errorf("invalid event type: %s (must be 'read', 'like', or 'share')", event.Type)
	}

	if event.HadithID == "" {
		return fmt.Errorf("hadith_id is required")
	}

	if event.Weight < 1 || event.Weight > 10 {
		return fmt.Errorf("invalid weight: %d (must be 1-10)", event.Weight)
	}

	validSources := map[string]bool{
		"http":      true,
		"websocket": true,
		"cli":       true,
		"system":    true,
	}

	if !validSources[event.Source] {
		return fmt.Errorf("invalid source: %s (must be 'http', 'websocket', 'cli', or 'system')", event.Source)
	}

	return nil
}

// processEvent bumps the matching counter and folds the weight into the weekly score
func (s *Server) processEvent(ctx context.Context, event *EngagementEvent) error {
	fmt.Printf("📊 Processing event: type=%s hadith_id=%s weight=%d source=%s\n",
		event.Type, event.HadithID, event.Weight, event.Source)

	switch event.Type {
	case EventTypeRead:
		if err := s.hadithRepo.IncrementViewCount(ctx, event.HadithID); err != nil {
			return fmt.Errorf("failed to increment view count: %w", err)
		}
	case EventTypeLike:
		if err := s.hadithRepo.IncrementLikeCount(ctx, event.HadithID); err != nil {
			return fmt.Errorf("failed to increment like count: %w", err)
		}
	case EventTypeShare:
		if err := s.hadithRepo.IncrementShareCount(ctx, event.HadithID); err != nil {
			return fmt.Errorf("failed to increment share count: %w", err)
		}
	}

	hadith, err := s.hadithRepo.GetByID(ctx, event.HadithID)
	if err != nil {
		return fmt.Errorf("failed to load hadith: %w", err)
	}

	newScore := hadith.WeeklyScore + event.Weight
	if err := s.hadithRepo.UpdateWeeklyScore(ctx, event.HadithID, newScore); err != nil {
		return fmt.Errorf("failed to update weekly score: %w", err)
	}

	return nil
}

// sendError sends an error response back to client
func (s *Server) sendError(conn net.Conn, message string) {
	s.sendResponse(conn, map[string]string{
		"status":  "error",
		"message": message,
	})
}

// sendSuccess sends a success response back to client
func (s *Server) sendSuccess(conn net.Conn, message string) {
	s.sendResponse(conn, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// sendResponse sends a JSON response with length-prefixed framing
func (s *Server) sendResponse(conn net.Conn, data interface{}) {
	responseBytes, err := json.Marshal(data)
	if err != nil {
		fmt.Printf("❌ TCP response marshal error: %v\n", err)
		return
	}

	if err := binary.Write(conn, binary.BigEndian, uint32(len(responseBytes))); err != nil {
		fmt.Printf("❌ TCP response length write error: %v\n", err)
		return
	}

	if _, err := conn.Write(responseBytes); err != nil {
		fmt.Printf("❌ TCP response write error: %v\n", err)
	}
}

// SendEngagementEvent is a helper for other services to push engagement events
func SendEngagementEvent(addr string, event EngagementEvent) error {
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		return fmt.Errorf("dial tcp: %w", err)
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(1 * time.Second))
	conn.SetReadDeadline(time.Now().Add(1 * time.Second))

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := binary.Write(conn, binary.BigEndian, uint32(len(data))); err != nil {
		return fmt.Errorf("write length: %w", err)
	}

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	var responseLength uint32
	if err := binary.Read(conn, binary.BigEndian, &responseLength); err != nil {
		return fmt.Errorf("read response length: %w", err)
	}

	responseData := make([]byte, responseLength)
	if _, err := io.ReadFull(conn, responseData); err != nil {
		return fmt.Errorf("read response data: %w", err)
	}

	var response map[string]string
	if err := json.Unmarshal(responseData, &response); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if response["status"] != "success" {
		return fmt.Errorf("server error: %s", response["message"])
	}

	return nil
}
