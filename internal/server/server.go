// File: internal/server/server.go
// Description: Optional HTTP control surface. One endpoint triggers a full
// activation run; a single-flight guard rejects a trigger while a run is
// already in flight, since the core itself provides no run-level mutual
// exclusion.

package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/simflow/internal/activation"
	"github.com/xkilldash9x/simflow/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Trigger performs one complete activation run and returns its summary.
type Trigger func(ctx context.Context, runID string) (activation.Summary, error)

// RunRecord captures the result of the most recent completed run.
type RunRecord struct {
	RunID      string             `json:"run_id"`
	Summary    activation.Summary `json:"summary"`
	Error      string             `json:"error,omitempty"`
	FinishedAt time.Time          `json:"finished_at"`
}

// Server exposes the run trigger over HTTP.
type Server struct {
	cfg     config.ServerConfig
	logger  *zap.Logger
	trigger Trigger

	inFlight atomic.Bool
	mu       sync.Mutex
	last     *RunRecord
}

// New creates the control server around a run trigger.
func New(cfg config.ServerConfig, logger *zap.Logger, trigger Trigger) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger.Named("server"),
		trigger: trigger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/runs", s.handleStartRun)
	mux.HandleFunc("GET /api/v1/runs/last", s.handleLastRun)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within the configured deadline.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Control server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Control server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// handleStartRun kicks off one run in the background. While a run is in
// flight, further triggers are rejected with 409 Conflict.
func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.writeJSON(w, http.StatusConflict, map[string]string{
			"error": "a run is already in flight",
		})
		return
	}

	runID := uuid.New().String()
	s.logger.Info("Run triggered via HTTP", zap.String("run_id", runID))

	go func() {
		defer s.inFlight.Store(false)

		// The run outlives the HTTP request on purpose.
		summary, err := s.trigger(context.Background(), runID)

		record := &RunRecord{RunID: runID, Summary: summary, FinishedAt: time.Now().UTC()}
		if err != nil {
			record.Error = err.Error()
			s.logger.Error("Triggered run failed", zap.String("run_id", runID), zap.Error(err))
		}

		s.mu.Lock()
		s.last = record
		s.mu.Unlock()
	}()

	s.writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
}

func (s *Server) handleLastRun(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()

	if last == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "no completed run yet"})
		return
	}
	s.writeJSON(w, http.StatusOK, last)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("Failed to encode response", zap.Error(err))
	}
}
