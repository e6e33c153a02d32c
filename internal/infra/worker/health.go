package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// RunStatus describes the most recent scheduled run.
type RunStatus struct {
	RunID      string    `json:"run_id,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
	Success    bool      `json:"success"`
	Skipped    bool      `json:"skipped"`
	Items      int       `json:"items"`
	Error      string    `json:"error,omitempty"`
}

// HealthServer serves liveness and readiness probes.
//
//   - GET /health: always 200, with the last run when there is one
//   - GET /health/ready: 200 once the scheduler is running, 503 before
type HealthServer struct {
	addr    string
	logger  *slog.Logger
	isReady atomic.Bool
	lastRun atomic.Pointer[RunStatus]
	server  *http.Server
}

type healthResponse struct {
	Status  string     `json:"status"`
	LastRun *RunStatus `json:"last_run,omitempty"`
}

func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthServer{addr: addr, logger: logger}
}

// Handler returns the probe routes.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleLiveness)
	mux.HandleFunc("/health/ready", h.handleReadiness)
	return mux
}

// Start serves until ctx is cancelled, then shuts down within 5 seconds.
// It returns http.ErrServerClosed after a graceful shutdown.
func (h *HealthServer) Start(ctx context.Context) error {
	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      h.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		if err := h.server.ListenAndServe(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		h.logger.Info("health server stopped")
		return http.ErrServerClosed

	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("health server failed", slog.Any("error", err))
		}
		return err
	}
}

func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

// RecordRun publishes the outcome of a run on /health.
func (h *HealthServer) RecordRun(status RunStatus) {
	h.lastRun.Store(&status)
}

// LastRun returns the last recorded run, or nil.
func (h *HealthServer) LastRun() *RunStatus {
	return h.lastRun.Load()
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", LastRun: h.lastRun.Load()})
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if h.isReady.Load() {
		h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	h.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
}

func (h *HealthServer) writeJSON(w http.ResponseWriter, status int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
