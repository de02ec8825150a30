// Package server exposes the HTTP front end: task submission, task
// status, prompt responses, and report retrieval. It is a thin
// collaborator around the runner and the report store.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/net/netutil"

	"github.com/webpilot/webpilot/pkg/logging"
	"github.com/webpilot/webpilot/pkg/report"
	"github.com/webpilot/webpilot/pkg/runner"
)

// BatchFunc executes one batch for a task. The server invokes it on a
// dedicated goroutine per submission; each invocation owns its own
// executor session and conversation state.
type BatchFunc func(ctx context.Context, task *runner.Task, instructions string)

// Server is the HTTP front end.
type Server struct {
	addr     string
	maxConns int
	registry *runner.Registry
	store    *report.Store
	batch    BatchFunc
	log      *logging.Logger
}

// New creates a server. The batch function is what actually drives the
// browser; the server only routes and records.
func New(addr string, maxConns int, registry *runner.Registry, store *report.Store, batch BatchFunc) *Server {
	log, err := logging.NewLogger("server")
	if err != nil {
		log.Warnf("failed to initialize server logger, using stderr fallback: %v", err)
	}
	return &Server{
		addr:     addr,
		maxConns: maxConns,
		registry: registry,
		store:    store,
		batch:    batch,
		log:      log,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/send-task", s.handleSendTask).Methods(http.MethodPost)
	r.HandleFunc("/api/task-status/{task_id}", s.handleTaskStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/respond-to-prompt/{task_id}", s.handleRespondToPrompt).Methods(http.MethodPost)
	r.HandleFunc("/api/test-report", s.handleTestReport).Methods(http.MethodGet)
	r.HandleFunc("/api/test-report/html", s.handleTestReportHTML).Methods(http.MethodGet)
	r.HandleFunc("/api/test-report/clear", s.handleClearReport).Methods(http.MethodPost)
	return r
}

// Run serves until ctx is cancelled. The listener is capped at maxConns
// concurrent connections.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	if s.maxConns > 0 {
		listener = netutil.LimitListener(listener, s.maxConns)
	}

	httpServer := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()

	s.log.Infof("listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// runBatch wraps the batch function with panic containment so a failing
// worker never takes down the process.
func (s *Server) runBatch(task *runner.Task, instructions string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("batch worker for task %s panicked: %v", task.ID, r)
		}
	}()
	s.batch(context.Background(), task, instructions)
}
