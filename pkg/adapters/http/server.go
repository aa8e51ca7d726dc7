package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/regfsm"
	"github.com/aretw0/regfsm/internal/logging"
	"github.com/aretw0/regfsm/internal/presentation/graph"
	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/expr"
	"github.com/aretw0/regfsm/pkg/fsm"
	"github.com/aretw0/regfsm/pkg/observability"
	"github.com/aretw0/regfsm/pkg/schema"
)

//go:embed openapi.yaml
var rawOpenAPI []byte

var loadOpenAPI = sync.OnceValues(func() (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(rawOpenAPI)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return doc, nil
})

// OpenAPIDoc returns the parsed and validated OpenAPI document served at /openapi.yaml.
func OpenAPIDoc() (*openapi3.T, error) {
	return loadOpenAPI()
}

// Engine defines what the HTTP API needs from the regfsm core.
type Engine interface {
	ValidateAll(expression string) error
	Compile(ctx context.Context, expression string) (*domain.Result, error)
	Match(ctx context.Context, expression string, inputs []string) ([]bool, error)
	Get(ctx context.Context, id string) (*domain.Result, error)
	List(ctx context.Context) ([]schema.Summary, error)
	Delete(ctx context.Context, id string) error
	MaxLength() int
}

var _ Engine = (*regfsm.Engine)(nil)

// Server holds the handlers of the HTTP API.
type Server struct {
	Engine  Engine
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics exposes m at /metrics and counts validation failures into it.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.Health)
	r.Get("/info", s.Info)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawOpenAPI)
	})
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Post("/validate", s.Validate)
	r.Post("/compile", s.Compile)
	r.Post("/match", s.Match)
	r.Route("/results", func(r chi.Router) {
		r.Get("/", s.ListResults)
		r.Get("/{id}", s.GetResult)
		r.Delete("/{id}", s.DeleteResult)
		r.Get("/{id}/graph", s.GraphResult)
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ExpressionRequest is the body of /validate and /compile.
type ExpressionRequest struct {
	Expression string `json:"expression"`
}

// MatchRequest is the body of /match.
type MatchRequest struct {
	Expression string   `json:"expression"`
	Inputs     []string `json:"inputs"`
}

// MatchResponse maps every input to whether it is accepted.
type MatchResponse struct {
	Results map[string]bool `json:"results"`
}

// ErrorResponse is the body of every 4xx/5xx reply. Kind, Position and
// Char are set for syntax errors only.
type ErrorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind,omitempty"`
	Position *int   `json:"position,omitempty"`
	Char     string `json:"char,omitempty"`
}

// ValidateResponse lists every syntax violation.
type ValidateResponse struct {
	Valid  bool            `json:"valid"`
	Errors []ErrorResponse `json:"errors"`
}

// InfoResponse describes the running service.
type InfoResponse struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	MaxLength  int    `json:"max_length"`
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	resp := InfoResponse{
		Version:   strings.TrimSpace(regfsm.Version),
		MaxLength: s.Engine.MaxLength(),
	}
	doc, err := OpenAPIDoc()
	if err != nil {
		s.Logger.Error("OpenAPI document unavailable", "error", err)
	} else {
		resp.APIVersion = doc.Info.Version
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Validate handles POST /validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body ExpressionRequest
	if !s.decode(w, r, &body) {
		return
	}

	err := s.Engine.ValidateAll(body.Expression)
	if s.Metrics != nil {
		s.Metrics.ObserveValidation(err)
	}
	resp := ValidateResponse{Valid: err == nil, Errors: []ErrorResponse{}}
	for _, se := range expr.SyntaxErrors(err) {
		resp.Errors = append(resp.Errors, syntaxError(se))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Compile handles POST /compile.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	var body ExpressionRequest
	if !s.decode(w, r, &body) {
		return
	}

	res, err := s.Engine.Compile(r.Context(), body.Expression)
	if err != nil {
		s.fail(w, "compile", err)
		return
	}
	s.writeJSON(w, http.StatusOK, schema.FromResult(res))
}

// Match handles POST /match.
func (s *Server) Match(w http.ResponseWriter, r *http.Request) {
	var body MatchRequest
	if !s.decode(w, r, &body) {
		return
	}

	accepted, err := s.Engine.Match(r.Context(), body.Expression, body.Inputs)
	if err != nil {
		s.fail(w, "match", err)
		return
	}
	resp := MatchResponse{Results: make(map[string]bool, len(body.Inputs))}
	for i, in := range body.Inputs {
		resp.Results[in] = accepted[i]
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ListResults handles GET /results.
func (s *Server) ListResults(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.Engine.List(r.Context())
	if err != nil {
		s.fail(w, "list", err)
		return
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

// GetResult handles GET /results/{id}.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.Engine.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "get", err)
		return
	}
	s.writeJSON(w, http.StatusOK, schema.FromResult(res))
}

// DeleteResult handles DELETE /results/{id}.
func (s *Server) DeleteResult(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GraphResult handles GET /results/{id}/graph. The optional input query
// parameter highlights the states reached after reading it.
func (s *Server) GraphResult(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	format, err := graph.ParseFormat(query.Get("format"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	res, err := s.Engine.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "graph", err)
		return
	}
	a, err := res.Select(query.Get("stage"))
	if err != nil {
		s.fail(w, "graph", err)
		return
	}

	var overlay *graph.Overlay
	if query.Has("input") {
		states, accepted := fsm.Trace(a, query.Get("input"))
		overlay = &graph.Overlay{Accepted: accepted}
		for _, st := range states {
			overlay.Active = append(overlay.Active, st.Name())
		}
	}

	out, err := graph.Render(a, format, overlay)
	if err != nil {
		s.fail(w, "graph", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, out)
}

// -- Helpers --

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.Logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// fail maps err to a status code. Client errors are logged at Warn.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	var se *expr.SyntaxError
	switch {
	case errors.As(err, &se):
		s.Logger.Warn(op+" rejected", "error", err)
		s.writeJSON(w, http.StatusBadRequest, syntaxError(se))
	case errors.Is(err, domain.ErrEmptyExpression), errors.Is(err, domain.ErrInvalidSelector):
		s.Logger.Warn(op+" rejected", "error", err)
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrResultNotFound):
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		s.Logger.Error(op+" failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

func syntaxError(se *expr.SyntaxError) ErrorResponse {
	resp := ErrorResponse{Error: se.Message, Kind: string(se.Kind)}
	if se.Position >= 0 {
		pos := se.Position
		resp.Position = &pos
	}
	if se.Char != 0 {
		resp.Char = string(se.Char)
	}
	return resp
}
