package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/lexctrace"
	"github.com/aretw0/lexctrace/pkg/domain"
)

// Engine is the part of lexctrace.Engine served over HTTP.
type Engine interface {
	Root() string
	Trace(ctx context.Context, input, output string) (*domain.TraceResult, error)
	Diagram(format lexctrace.Format, result *domain.TraceResult) (string, error)
	Validate() (*lexctrace.Report, error)
}

// TraceRequest is the body of POST /trace.
type TraceRequest struct {
	Input  string `json:"input" validate:"max=4096"`
	Output string `json:"output" validate:"max=4096"`
	Format string `json:"format,omitempty" validate:"omitempty,oneof=mermaid mmd dot gv"`
}

// TraceResponse is the body answering POST /trace.
type TraceResponse struct {
	Found   bool                `json:"found"`
	Result  *domain.TraceResult `json:"result"`
	Diagram string              `json:"diagram,omitempty"`
}

// ValidateResponse is the body answering GET /validate.
type ValidateResponse struct {
	Valid          bool                 `json:"valid"`
	NonTerminating bool                 `json:"non_terminating"`
	Report         *lexctrace.Report `json:"report"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Server serves trace queries against one engine.
type Server struct {
	Engine   Engine
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	validate *validator.Validate
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes the metrics of g on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:   engine,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestID, accessLog(s.logger), enableCORS)

	r.Post("/trace", s.Trace)
	r.Get("/graph", s.GetGraph)
	r.Get("/validate", s.GetValidate)
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Trace handles the POST /trace request.
func (s *Server) Trace(w http.ResponseWriter, r *http.Request) {
	var body TraceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := s.validate.Struct(body); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	result, err := s.Engine.Trace(r.Context(), body.Input, body.Output)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}

	resp := TraceResponse{Found: result.Found(), Result: result}
	if body.Format != "" {
		diagram, err := s.Engine.Diagram(lexctrace.Format(body.Format), result)
		if err != nil {
			s.fail(w, r, http.StatusInternalServerError, err)
			return
		}
		resp.Diagram = diagram
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetGraph handles the GET /graph request, answering diagram source text.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = string(lexctrace.FormatMermaid)
	}
	f, ok := lexctrace.ParseFormat(format)
	if !ok {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("unsupported diagram format %q", format))
		return
	}

	diagram, err := s.Engine.Diagram(f, nil)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	if f == lexctrace.FormatDOT {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	io.WriteString(w, diagram)
}

// GetValidate handles the GET /validate request.
func (s *Server) GetValidate(w http.ResponseWriter, r *http.Request) {
	report, err := s.Engine.Validate()
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:          report.Err() == nil,
		NonTerminating: report.NonTerminating(),
		Report:         report,
	})
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "lexctrace-http",
		"version": lexctrace.Version,
		"root":    s.Engine.Root(),
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := RequestID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "path", r.URL.Path, "err", err, "request_id", id)
	} else {
		s.logger.Warn("Request rejected", "path", r.URL.Path, "err", err, "request_id", id)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: id})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, lexctrace.ErrFormTooLarge),
		errors.Is(err, lexctrace.ErrInvalidUTF8),
		errors.Is(err, lexctrace.ErrControlChar):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownRoot):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStepBudgetExceeded),
		errors.Is(err, domain.ErrDepthExceeded),
		errors.Is(err, domain.ErrUnknownClass):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}
