package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aerolith-io/groundwatch/internal/lib/logger/sl"
	"github.com/aerolith-io/groundwatch/internal/monitor"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

type ComponentHealth struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status     Status            `json:"status"`
	Components []ComponentHealth `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

type LogResponse struct {
	Count   int             `json:"count"`
	Entries []monitor.Entry `json:"entries"`
}

type HealthChecker interface {
	Name() string
	Check(ctx context.Context) (Status, string)
}

// Server exposes read-only views of the monitor state plus liveness
// and readiness endpoints. It never mutates the core.
type Server struct {
	log      *slog.Logger
	address  string
	core     *monitor.Core
	server   *http.Server
	listener net.Listener
	checkers []HealthChecker
	mu       sync.RWMutex
}

func NewServer(log *slog.Logger, address string, core *monitor.Core) *Server {
	return &Server{
		log:      log,
		address:  address,
		core:     core,
		checkers: make([]HealthChecker, 0),
	}
}

func (s *Server) AddChecker(checker HealthChecker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers = append(s.checkers, checker)
}

func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:      s.router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.log.Info("starting api server", slog.String("address", listener.Addr().String()))

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("api server error", sl.Err(err))
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Addr reports the bound listen address, useful when the configured
// port is 0.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/live", s.handleLive)
	r.Get("/v1/snapshot", s.handleSnapshot)
	r.Get("/v1/log", s.handleLog)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	checkers := make([]HealthChecker, len(s.checkers))
	copy(checkers, s.checkers)
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:     StatusHealthy,
		Components: make([]ComponentHealth, 0, len(checkers)),
		Timestamp:  time.Now().UTC(),
	}

	for _, checker := range checkers {
		status, message := checker.Check(ctx)
		response.Components = append(response.Components, ComponentHealth{
			Name:    checker.Name(),
			Status:  status,
			Message: message,
		})

		if status == StatusUnhealthy {
			response.Status = StatusUnhealthy
		} else if status == StatusDegraded && response.Status == StatusHealthy {
			response.Status = StatusDegraded
		}
	}

	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, response)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.core.State().Snapshot())
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	entries := s.core.StatusLog().Entries()
	writeJSON(w, http.StatusOK, LogResponse{
		Count:   len(entries),
		Entries: entries,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// LinkHealthChecker reports the telemetry link as degraded when no
// message has arrived within the staleness window, and unhealthy when
// none has ever arrived.
type LinkHealthChecker struct {
	lastMessageAt func() time.Time
	staleAfter    time.Duration
}

func NewLinkHealthChecker(lastMessageAt func() time.Time, staleAfter time.Duration) *LinkHealthChecker {
	return &LinkHealthChecker{
		lastMessageAt: lastMessageAt,
		staleAfter:    staleAfter,
	}
}

func (c *LinkHealthChecker) Name() string {
	return "link"
}

func (c *LinkHealthChecker) Check(ctx context.Context) (Status, string) {
	last := c.lastMessageAt()
	if last.IsZero() {
		return StatusUnhealthy, "no telemetry received"
	}

	if age := time.Since(last); age > c.staleAfter {
		return StatusDegraded, "no telemetry for " + age.Truncate(time.Millisecond).String()
	}

	return StatusHealthy, ""
}
