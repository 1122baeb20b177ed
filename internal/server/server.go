// Package server implements the HTTP API for document generation: uploads,
// modernization and rollout runs, document inspection and generation history.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rangen-network/rangen/pkg/audit"
	"github.com/rangen-network/rangen/pkg/history"
	"github.com/rangen-network/rangen/pkg/store"
	"github.com/rangen-network/rangen/pkg/util"
)

// Server owns the HTTP handlers and their collaborators.
type Server struct {
	store     *store.Store
	history   history.Store
	audit     *audit.FileLogger
	maxUpload int64

	srv *http.Server
	ln  net.Listener
}

// New builds a Server from config, opening the file store and the history
// backend.
func New(cfg *Config) (*Server, error) {
	cfg.applyDefaults()

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	var hist history.Store
	if cfg.RedisAddr != "" {
		hist = history.NewRedis(cfg.RedisAddr, cfg.RedisDB)
	} else {
		hist = history.NewMemory()
	}

	s := &Server{
		store:     st,
		history:   hist,
		maxUpload: cfg.MaxUploadMB << 20,
	}

	if cfg.AuditLog != "" {
		logger, err := audit.NewFileLogger(cfg.AuditLog, audit.RotationConfig{})
		if err != nil {
			return nil, err
		}
		s.audit = logger
	}

	return s, nil
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/modernization", s.handleModernization)
	mux.HandleFunc("/api/rollout", s.handleRollout)
	mux.HandleFunc("/api/view", s.handleView)
	mux.HandleFunc("/api/documents", s.handleDocuments)
	mux.HandleFunc("/api/documents/", s.handleDocumentByName)
	mux.HandleFunc("/api/preview/", s.handlePreview)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/download/", s.handleDownload)
	return mux
}

// ListenAndServe starts the server on listen and blocks until Shutdown.
func (s *Server) ListenAndServe(listen string) error {
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return err
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s.Handler()}
	util.WithField("listen", ln.Addr().String()).Info("server started")
	if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and closes the history backend.
func (s *Server) Shutdown(ctx context.Context) error {
	var first error
	if s.srv != nil {
		if err := s.srv.Shutdown(ctx); err != nil && err != context.Canceled {
			first = err
		}
	}
	if err := s.history.Close(); err != nil && first == nil {
		first = err
	}
	if s.audit != nil {
		if err := s.audit.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		util.WithField("error", err).Error("encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, util.ErrMalformedDocument),
		errors.Is(err, util.ErrMissingColumn),
		errors.Is(err, store.ErrUnsupportedType):
		status = http.StatusBadRequest
	case errors.Is(err, util.ErrStationNotFound),
		errors.Is(err, util.ErrDNNotFound),
		errors.Is(err, util.ErrClassNotFound),
		errors.Is(err, os.ErrNotExist):
		status = http.StatusNotFound
	case errors.Is(err, util.ErrDNCollision):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		util.WithField("error", err).Error("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// record writes a generation run to history and the audit log. History
// failures are logged, not surfaced: the generated document is already on
// disk and the client should get it.
func (s *Server) record(r *http.Request, station, operation, outputFile string, objects int, runErr error, elapsed time.Duration) {
	ev := audit.NewEvent(requestUser(r), station, operation).
		WithOutputFile(outputFile).
		WithObjects(objects).
		WithDuration(elapsed)
	ev.ClientIP = r.RemoteAddr
	if runErr != nil {
		ev.WithError(runErr)
	} else {
		ev.WithSuccess()
	}
	if s.audit != nil {
		if err := s.audit.Log(ev); err != nil {
			util.WithField("error", err).Warn("audit log write failed")
		}
	}

	if runErr != nil {
		return
	}
	entry := history.Entry{
		Station:    station,
		Operation:  operation,
		OutputFile: outputFile,
		Objects:    objects,
	}
	if err := s.history.Append(r.Context(), entry); err != nil {
		util.WithField("error", err).Warn("history append failed")
	}
}

func requestUser(r *http.Request) string {
	if u := r.Header.Get("X-Forwarded-User"); u != "" {
		return u
	}
	return "web"
}
