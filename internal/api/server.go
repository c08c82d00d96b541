package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/amterp/elysian/internal/service"
)

// wsPath is where clients connect for live updates.
const wsPath = "/api/v1/ws"

// Server wraps the HTTP server, the deck file watcher and the timer
// scheduler.
type Server struct {
	httpServer *http.Server
	watcher    *FileWatcher
	wsHub      *WebSocketHub
	scheduler  *TimerScheduler

	mu           sync.Mutex
	stopSchedule context.CancelFunc
}

// NewServer creates a new server over the shared deck service and session
// registry. If deckFile is empty, file watching is disabled.
func NewServer(decks *service.DeckService, sessions *SessionRegistry, deckFile string, port int) *Server {
	mux := http.NewServeMux()
	NewHandler(decks, sessions).RegisterRoutes(mux)

	wsHub := NewWebSocketHub()
	mux.HandleFunc("GET "+wsPath, wsHub.ServeWS)

	var watcher *FileWatcher
	if deckFile != "" {
		var err error
		watcher, err = NewFileWatcher(deckFile)
		if err != nil {
			log.Printf("Warning: failed to create file watcher: %v", err)
			watcher = nil
		} else {
			watcher.Subscribe(NewDeckSync(decks, sessions, wsHub))
		}
	}

	wrapped := Logging(Recover(Cors(mux)))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      wrapped,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		watcher:   watcher,
		wsHub:     wsHub,
		scheduler: NewTimerScheduler(sessions, wsHub),
	}
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			log.Printf("Warning: failed to start file watcher: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.stopSchedule = cancel
	s.mu.Unlock()
	go s.scheduler.Run(ctx)

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.stopSchedule != nil {
		s.stopSchedule()
	}
	s.mu.Unlock()

	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			log.Printf("Warning: failed to stop file watcher: %v", err)
		}
	}

	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
