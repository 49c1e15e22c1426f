package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"runtime"
	"time"

	"media-screensaver/internal/logging"
	"media-screensaver/internal/session"
	"media-screensaver/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusProvider supplies the session snapshot served at /status.
type StatusProvider interface {
	Status() session.Status
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
	ScanState    string `json:"scanState"`
	Entries      int    `json:"entries"`
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
}

// Server exposes metrics and a read-only view of the session.
type Server struct {
	addr     string
	provider StatusProvider
	started  time.Time
	router   *mux.Router
	srv      *http.Server
}

// New creates a server for addr. Call Start to listen.
func New(addr string, provider StatusProvider) *Server {
	s := &Server{
		addr:     addr,
		provider: provider,
		started:  time.Now(),
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.healthCheck).Methods("GET")
	r.HandleFunc("/status", s.status).Methods("GET")
	r.HandleFunc("/version", s.version).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.Use(requestLogger)
	return r
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Start listens on the configured address and serves in the background.
// It returns once the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr().String()
	s.srv = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	startup.LogHTTPRoutes(s.router, s.addr)

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Status server error: %v", err)
		}
	}()
	return nil
}

// Addr returns the listen address, resolved once Start succeeded.
func (s *Server) Addr() string {
	return s.addr
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	st := s.provider.Status()
	response := HealthResponse{
		Status:       "healthy",
		Version:      startup.Version,
		Uptime:       time.Since(s.started).Round(time.Second).String(),
		ScanState:    st.ScanState,
		Entries:      st.Count,
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
	}
	if st.ScanState == "in_progress" || st.ScanState == "idle" {
		response.Status = "starting"
	}
	writeJSON(w, response)
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.provider.Status())
}

func (s *Server) version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, startup.GetBuildInfo())
}

// writeJSON encodes v as JSON. Encoding errors are only logged since the
// status code has already been sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}
