package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Server accepts WebSocket connections and hands their traffic to the
// game service
type Server struct {
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	gameService *GameService
}

// NewServer creates a new WebSocket server
func NewServer(logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Page delivery and origin policy belong to the fronting
				// web server; accept everything here
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetGameService sets the game service for the server
func (s *Server) SetGameService(gameService *GameService) {
	s.gameService = gameService
}

// Handler returns the HTTP handler serving the WebSocket endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Run starts the connection lifecycle loop. The caller owns the HTTP
// listener serving Handler.
func (s *Server) Run() {
	go s.run()
}

// Stop stops the WebSocket server
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "conn", conn.ID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()

			if ok {
				// The connection id is the player's identity; a dropped
				// connection is a departed player
				if s.gameService != nil {
					s.gameService.HandleDisconnect(conn.ID())
				}
				s.logger.Info("Client disconnected", "conn", conn.ID(), "total", total)
			}

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.gameService)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// Broadcast sends a message to every connected client
func (s *Server) Broadcast(msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send message to client", "error", err, "conn", conn.ID())
		} else {
			count++
		}
	}

	s.logger.Debug("Broadcasted message", "type", msg.Type, "recipients", count)
}

// SendTo sends a message to the client with the given connection id
func (s *Server) SendTo(connID string, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.ID() == connID {
			return conn.SendMessage(msg)
		}
	}

	return fmt.Errorf("connection not found: %s", connID)
}

// CloseConnections closes the connections with the given ids. Used to
// evict session members when a game ends.
func (s *Server) CloseConnections(connIDs []string) {
	ids := make(map[string]bool, len(connIDs))
	for _, id := range connIDs {
		ids[id] = true
	}

	s.mu.RLock()
	var toClose []*Connection
	for conn := range s.connections {
		if ids[conn.ID()] {
			toClose = append(toClose, conn)
		}
	}
	s.mu.RUnlock()

	for _, conn := range toClose {
		_ = conn.Close()
	}
}
