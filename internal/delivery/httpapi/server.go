package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

// StatsProvider minimal view of the chat use case
type StatsProvider interface {
	Stats(ctx context.Context) (entity.ConversationStats, error)
}

// CooldownCounter active cooldown yozuvlari soni
type CooldownCounter interface {
	Len() int
}

type healthResponse struct {
	Status string `json:"status"`
}

type statsResponse struct {
	entity.ConversationStats
	ActiveCooldowns int       `json:"active_cooldowns"`
	StartedAt       time.Time `json:"started_at"`
	UptimeSecs      float64   `json:"uptime_seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server ops endpoints: GET /health and GET /stats.
// Optional; the bot runs without it when HTTP_ADDR is empty.
type Server struct {
	addr      string
	stats     StatsProvider
	cooldowns CooldownCounter
	startedAt time.Time
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
}

// NewServer creates the router; Start begins listening. cooldowns may be nil.
func NewServer(addr string, stats StatsProvider, cooldowns CooldownCounter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:      addr,
		stats:     stats,
		cooldowns: cooldowns,
		startedAt: time.Now(),
		logger:    logger.With(slog.String("component", "http")),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)
	s.router = r

	return s
}

// ServeHTTP lets tests drive the router without a listener
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens in the background; returns once the port is open
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("http server: listen %s: %w", s.addr, err)
	}

	s.server = &http.Server{
		Handler:      s,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("HTTP server listening", slog.String("addr", ln.Addr().String()))
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", slog.Any("err", err))
		}
	}()
	return nil
}

// Shutdown gracefully stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Stats(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to read stats", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "stats unavailable"})
		return
	}

	resp := statsResponse{
		ConversationStats: stats,
		StartedAt:         s.startedAt,
		UptimeSecs:        time.Since(s.startedAt).Seconds(),
	}
	if s.cooldowns != nil {
		resp.ActiveCooldowns = s.cooldowns.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
