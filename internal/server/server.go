// Package server exposes report generation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kingrea/report-engine/internal/contracts"
	"github.com/kingrea/report-engine/internal/engine"
	"github.com/kingrea/report-engine/internal/plan"
)

// ProtocolVersion is reported by the health endpoint.
const ProtocolVersion = 1

// ServerStatus reports runtime lifecycle states for the HTTP server.
type ServerStatus string

const (
	StatusStarting ServerStatus = "starting"
	StatusReady    ServerStatus = "ready"
	StatusDraining ServerStatus = "draining"
)

// Server wraps the HTTP listener and the report handlers.
type Server struct {
	settings Settings
	logger   *zap.Logger
	clock    func() time.Time
	engine   atomic.Pointer[engine.Engine]

	mu        sync.RWMutex
	server    *http.Server
	listener  net.Listener
	status    ServerStatus
	startTime time.Time
}

// Option customizes server construction.
type Option func(*Server)

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New prepares a server that generates reports with eng.
func New(settings Settings, eng *engine.Engine, opts ...Option) *Server {
	settings.normalize()
	s := &Server{
		settings: settings,
		logger:   zap.NewNop(),
		clock:    func() time.Time { return time.Now().UTC() },
		status:   StatusStarting,
	}
	if eng == nil {
		eng = engine.New(nil)
	}
	s.engine.Store(eng)
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SetEngine swaps the engine used for new requests, e.g. after a config
// reload. In-flight requests finish on the engine they started with.
func (s *Server) SetEngine(eng *engine.Engine) {
	if eng != nil {
		s.engine.Store(eng)
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/reports", s.handleReports)
	mux.HandleFunc("/v1/plans", s.handlePlans)
	return mux
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("server: server is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("server: already started")
	}
	addr := s.settings.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	s.listener = listener
	s.startTime = s.clock()
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		srv.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = srv
	s.status = StatusReady
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve error", zap.Error(err))
		}
	}()
	s.logger.Info("listening", zap.String("addr", listener.Addr().String()))
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil || s.server == nil {
		return nil
	}
	s.status = StatusDraining
	deadline := ctx
	if deadline == nil {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := s.server.Shutdown(deadline); err != nil {
		return err
	}
	s.listener = nil
	s.server = nil
	return nil
}

// Addr returns the bound TCP address once the server has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// BaseURL returns the HTTP base URL for the running server.
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		return s.settings.URL()
	}
	return "http://" + addr
}

// Status reports the server's lifecycle state.
func (s *Server) Status() ServerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Server) uptimeSeconds() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.startTime.IsZero() {
		return 0
	}
	return int64(s.clock().Sub(s.startTime).Seconds())
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       int    `json:"version"`
	InjectionMode string `json:"injectionMode"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

type errorResponse struct {
	Error      string         `json:"error"`
	Violations []string       `json:"violations,omitempty"`
	Report     *engine.Report `json:"report,omitempty"`
}

type planRequest struct {
	Request plan.Request `json:"request"`
	Record  any          `json:"record"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", fmt.Sprintf("%s, %s", http.MethodGet, http.MethodHead))
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        string(s.Status()),
		Version:       ProtocolVersion,
		InjectionMode: s.engine.Load().Flags().Mode(),
		UptimeSeconds: s.uptimeSeconds(),
	})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if !s.decode(w, r, &req) {
		return
	}
	report, err := s.engine.Load().Generate(r.Context(), req)
	if err != nil {
		var violation *contracts.ViolationError
		switch {
		case errors.As(err, &violation):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:      "report contract violated",
				Violations: report.Violations,
				Report:     report,
			})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "request cancelled"})
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.engine.Load().Plan(req.Request, req.Record)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// decode reads a POST body into dst, writing the error response itself when
// it returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return false
	}
	if r.Body == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "empty body"})
		return false
	}
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "payload exceeds limit"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unable to read body"})
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
