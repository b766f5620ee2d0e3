package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// ScoreStream broadcasts fresh score snapshots to websocket subscribers on
// /ws/scores. It implements the scheduler's ScorePublisher, so the score job
// pushes through it without knowing about websockets.
type ScoreStream struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
	latest  []byte // last published snapshot, replayed to new subscribers
}

// NewScoreStream creates the score broadcast hub.
func NewScoreStream(log *logger.Logger) *ScoreStream {
	return &ScoreStream{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard frontend is served from another origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  log,
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// PublishScores broadcasts a snapshot to all connected subscribers. Slow
// subscribers are disconnected rather than blocking the publisher.
func (s *ScoreStream) PublishScores(record *contracts.ScoreRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.WithError(err).Error("Failed to marshal score snapshot for stream")
		return
	}

	s.mu.Lock()
	s.latest = payload
	for conn, send := range s.clients {
		select {
		case send <- payload:
		default:
			s.logger.Warn("Dropping slow websocket subscriber")
			delete(s.clients, conn)
			close(send)
		}
	}
	s.mu.Unlock()
}

// Subscribers returns the current subscriber count.
func (s *ScoreStream) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// HandleWS upgrades the connection and streams snapshots until the client
// disconnects.
// GET /ws/scores
func (s *ScoreStream) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	send := make(chan []byte, 8)

	s.mu.Lock()
	s.clients[conn] = send
	if s.latest != nil {
		send <- s.latest
	}
	s.mu.Unlock()

	s.logger.WithField("remote", r.RemoteAddr).Debug("Score subscriber connected")

	go s.writeLoop(conn, send)
	s.readLoop(conn, send)
}

func (s *ScoreStream) writeLoop(conn *websocket.Conn, send chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case payload, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so pong handling works, and tears the
// subscriber down when the connection drops.
func (s *ScoreStream) readLoop(conn *websocket.Conn, send chan []byte) {
	defer func() {
		s.mu.Lock()
		if _, ok := s.clients[conn]; ok {
			delete(s.clients, conn)
			close(send)
		}
		s.mu.Unlock()
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
