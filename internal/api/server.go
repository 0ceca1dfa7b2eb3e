package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/roster/internal/extractor"
	"github.com/MikeSquared-Agency/roster/internal/metrics"
	"github.com/MikeSquared-Agency/roster/internal/runner"
)

// maxTranscriptBytes bounds the body of a parse request.
const maxTranscriptBytes = 5 << 20

// Parser runs a transcript held in memory through the pipeline.
type Parser interface {
	ParseText(ctx context.Context, text string) *runner.Summary
}

type Server struct {
	router *chi.Mux
	port   int
	model  string
	parser Parser
	srv    *http.Server
}

func NewServer(port int, model string, parser Parser) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		model:  model,
		parser: parser,
	}

	router.Get("/health", s.health)
	router.Handle("/metrics", metrics.Handler())
	router.Route("/api/v1/roster", func(r chi.Router) {
		r.Get("/status", s.status)
		r.Post("/parse", s.parse)
	})

	return s
}

// Start serves until Shutdown is called. It returns nil on a clean shutdown.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("API server starting", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"agent": "roster",
		"model": s.model,
	})
}

type parseResponse struct {
	RunID     uuid.UUID         `json:"run_id"`
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Repaired  int               `json:"repaired"`
	Intros    []extractor.Intro `json:"intros"`
}

func (s *Server) parse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTranscriptBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "transcript too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		writeError(w, http.StatusBadRequest, "empty transcript")
		return
	}

	sum := s.parser.ParseText(r.Context(), string(body))
	writeJSON(w, http.StatusOK, parseResponse{
		RunID:     sum.RunID,
		Total:     sum.Total,
		Succeeded: sum.Succeeded,
		Failed:    sum.Failed,
		Repaired:  sum.Repaired,
		Intros:    sum.Intros,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
