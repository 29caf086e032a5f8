// Package server is a development stand-in for the governance service and,
// optionally, the scan service. It keeps the exception list in memory (or
// in a JSON file) and answers the same routes the console calls.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/api"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/governance"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/logging"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/scan"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/storage"
)

// Response messages.
const (
	MsgAdded         = "exception added"
	MsgAlreadyExists = "exception already present"
	MsgRemoved       = "exception removed"
	MsgNotFound      = "rule (repository + lib) not found"
)

// Options configures a Server.
type Options struct {
	// Rules persists the exception list. Nil keeps it in memory.
	Rules storage.RuleStorage

	// Scanner enables the /api/scans routes when set.
	Scanner scan.Service

	Log            logrus.FieldLogger
	AllowedOrigins []string
	RateLimit      int
	RateWindow     time.Duration
	BodyLimit      int64
}

// Server serves the governance routes.
type Server struct {
	rules   *RuleSet
	jobs    *jobQueue
	log     logrus.FieldLogger
	handler http.Handler
	cancel  context.CancelFunc
}

// writeResponse is the body of successful exception writes.
type writeResponse struct {
	Msg        string                 `json:"msg"`
	Exceptions []models.ExceptionRule `json:"exceptions"`
}

// New builds a server and its handler chain.
func New(opts Options) (*Server, error) {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}

	rules, err := NewRuleSet(opts.Rules)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{rules: rules, log: log, cancel: cancel}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+governance.ExceptionsPath, s.handleList)
	mux.HandleFunc("POST "+governance.ExceptionsPath, s.handleAdd)
	mux.HandleFunc("DELETE "+governance.ExceptionsPath, s.handleRemove)

	if opts.Scanner != nil {
		s.jobs = newJobQueue(ctx, opts.Scanner, log)
		mux.HandleFunc("POST "+scan.ScansPath, s.handleSubmitScan)
		mux.HandleFunc("GET "+scan.ScansPath+"/{id}", s.handleGetScan)
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = api.DefaultRateLimitRequests
	}
	window := opts.RateWindow
	if window <= 0 {
		window = api.DefaultRateLimitWindow
	}

	s.handler = api.Chain(mux,
		api.RequestID,
		api.AccessLog(log),
		api.SecurityHeaders,
		api.CORS(origins...),
		api.RateLimitPerIP(limit, window),
		api.BodySizeLimit(opts.BodyLimit),
	)
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Rules exposes the exception list backing the server.
func (s *Server) Rules() *RuleSet {
	return s.rules
}

// Close stops background scan jobs and waits for them.
func (s *Server) Close() {
	s.cancel()
	if s.jobs != nil {
		s.jobs.wait()
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("governance server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("governance server stopped")
	return nil
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"exceptions": s.rules.List()})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	rule, ok := s.decodeRule(w, r, true)
	if !ok {
		return
	}

	added, list, err := s.rules.Add(rule)
	if err != nil {
		s.log.WithError(err).Error("add exception failed")
		writeError(w, http.StatusInternalServerError, "policy store: "+err.Error())
		return
	}

	msg := MsgAdded
	if !added {
		msg = MsgAlreadyExists
	}
	writeJSON(w, http.StatusOK, writeResponse{Msg: msg, Exceptions: list})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	rule, ok := s.decodeRule(w, r, false)
	if !ok {
		return
	}

	removed, list, err := s.rules.Remove(rule)
	if err != nil {
		s.log.WithError(err).Error("remove exception failed")
		writeError(w, http.StatusInternalServerError, "policy store: "+err.Error())
		return
	}

	if !removed {
		writeJSON(w, http.StatusOK, writeResponse{Msg: MsgNotFound, Exceptions: list})
		return
	}
	writeJSON(w, http.StatusOK, writeResponse{Msg: MsgRemoved, Exceptions: list})
}

// decodeRule reads and validates an exception body. Adds are checked in full
// and stored trimmed; removes only need both fields and match the pair as sent.
func (s *Server) decodeRule(w http.ResponseWriter, r *http.Request, add bool) (models.ExceptionRule, bool) {
	var in api.ExceptionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return models.ExceptionRule{}, false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return models.ExceptionRule{}, false
	}

	if !add {
		if err := api.ValidatePair(in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return models.ExceptionRule{}, false
		}
		return models.ExceptionRule{Repository: in.Repository, Lib: in.Lib}, true
	}

	in = in.Trimmed()
	if err := api.ValidateExceptionInput(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return models.ExceptionRule{}, false
	}
	return models.ExceptionRule{Repository: in.Repository, Lib: in.Lib}, true
}

func (s *Server) handleSubmitScan(w http.ResponseWriter, r *http.Request) {
	var req scan.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in := api.ExceptionInput{Repository: req.Repository}.Trimmed()
	if err := api.ValidateRepository(in.Repository); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, s.jobs.submit(in.Repository))
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "scan job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
