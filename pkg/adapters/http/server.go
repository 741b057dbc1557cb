// Package http serves hodr routers over net/http with chi, and provides the
// net/http client used by HTTP destinations.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/aretw0/hodr/internal/logging"
	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/aretw0/hodr/pkg/router"
	"github.com/aretw0/hodr/pkg/status"
	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
)

// MaxBodyBytes caps inbound request bodies.
const MaxBodyBytes = 4 << 20

// SessionFunc resolves the session of an inbound request, typically from an
// authentication middleware's context values.
type SessionFunc func(r *http.Request) map[string]any

// Exchange is the raw request handle routes receive from this server.
type Exchange struct {
	Writer  http.ResponseWriter
	Request *http.Request
}

// MarshalJSON keeps only what is useful in an execution journal.
func (e *Exchange) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"method":     e.Request.Method,
		"url":        e.Request.URL.String(),
		"proto":      e.Request.Proto,
		"remoteAddr": e.Request.RemoteAddr,
	})
}

// Server mounts routers on a chi mux.
type Server struct {
	mux     chi.Router
	logger  *slog.Logger
	session SessionFunc
	info    map[string]any
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSession sets the session resolver.
func WithSession(fn SessionFunc) Option {
	return func(s *Server) {
		s.session = fn
	}
}

// WithInfo sets the document served on GET /info.
func WithInfo(info map[string]any) Option {
	return func(s *Server) {
		s.info = info
	}
}

// WithMiddleware installs chi middlewares ahead of every route.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.mux.Use(mw...)
	}
}

// NewServer creates a server with health and info endpoints.
func NewServer(opts ...Option) *Server {
	s := &Server{
		mux:    chi.NewRouter(),
		logger: logging.NewNop(),
		info:   map[string]any{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.Get("/health", s.getHealth)
	s.mux.Get("/info", s.getInfo)
	return s
}

// Handler returns the CORS-enabled root handler.
func (s *Server) Handler() http.Handler {
	return enableCORS(s.mux)
}

// Handle mounts a plain handler, such as a metrics endpoint, at pattern.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

// Mount registers every route of r.
func (s *Server) Mount(r *router.Router) {
	adapter := &RequestAdapter{session: s.session}
	for _, rt := range r.Routes() {
		s.mux.Method(rt.Method(), chiPattern(rt.Path()), http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ex := &Exchange{Writer: w, Request: req}
			if err := router.HandleRequest(req.Context(), rt, ex, adapter); err != nil {
				s.logger.Error("route response failed", "router", r.Name(), "path", rt.Path(), "error", err)
			}
		}))
		s.logger.Debug("route mounted", "router", r.Name(), "method", rt.Method(), "path", rt.Path())
	}
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.info, s.logger)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

var routeParam = regexp.MustCompile(`:([a-zA-Z_][a-zA-Z0-9_]*)`)

// chiPattern turns ":name" segments into chi's "{name}".
func chiPattern(path string) string {
	return routeParam.ReplaceAllString(path, "{$1}")
}

func writeJSON(w http.ResponseWriter, code int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}

// RequestAdapter bridges chi requests and hodr routes.
type RequestAdapter struct {
	session SessionFunc
}

// NewRequestAdapter creates an adapter resolving sessions with fn, which may be nil.
func NewRequestAdapter(fn SessionFunc) *RequestAdapter {
	return &RequestAdapter{session: fn}
}

func (a *RequestAdapter) Name() string             { return "Chi" }
func (a *RequestAdapter) InitialStepName() string  { return "chi-request" }
func (a *RequestAdapter) FinalizeStepName() string { return "chi-response" }

// ExtractRequest reads route parameters from chi, the first value of each
// header and a JSON body. Non-JSON bodies are kept as text.
func (a *RequestAdapter) ExtractRequest(ex *Exchange, route ports.RouteInfo) (*domain.HTTPRequest, error) {
	r := ex.Request
	req := &domain.HTTPRequest{
		Method:  r.Method,
		URI:     r.URL.RequestURI(),
		Headers: make(map[string]string, len(r.Header)),
		Params:  make(map[string]string),
	}
	for name := range r.Header {
		req.Headers[name] = r.Header.Get(name)
	}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "*" {
				continue
			}
			req.Params[key] = rctx.URLParams.Values[i]
		}
	}
	if a.session != nil {
		req.Session = a.session(r)
	}

	if r.Body == nil {
		return req, nil
	}
	data, err := io.ReadAll(http.MaxBytesReader(ex.Writer, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.NewError(
				fmt.Sprintf("Request body exceeds %d bytes.", tooLarge.Limit),
				domain.WithCode(string(status.PayloadTooLarge)),
				domain.WithCause(err),
			)
		}
		return nil, err
	}
	switch {
	case len(data) == 0:
	case gjson.ValidBytes(data):
		req.Body = gjson.ParseBytes(data).Value()
	default:
		req.Body = string(data)
	}
	return req, nil
}

func (a *RequestAdapter) BuildInitialStepMetadata(ex *Exchange, _ *domain.HTTPRequest) domain.StepMetadata {
	return domain.StepMetadata{
		Journal: []domain.JournalEntry{{
			ID:       "request-line",
			Title:    "Request Line",
			Entry:    ex.Request.Method + " " + ex.Request.URL.RequestURI() + " " + ex.Request.Proto,
			TypeHint: domain.HintPlaintext,
		}},
	}
}

func (a *RequestAdapter) BuildExecutionMetadata(ex *Exchange, route ports.RouteInfo) map[string]any {
	return map[string]any{
		"remoteAddr": ex.Request.RemoteAddr,
		"userAgent":  ex.Request.UserAgent(),
	}
}

// SendResponse writes resp as JSON. Static content resolved by a file system
// destination is served from disk instead.
func (a *RequestAdapter) SendResponse(_ context.Context, ex *Exchange, resp *domain.HTTPResponse, exec *domain.ExecutionContext) error {
	w := ex.Writer
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}

	if hint, _ := exec.Meta(domain.MetaPayloadTypeHint); hint == domain.PayloadStaticContent {
		if path, ok := resp.Body.(string); ok && resp.StatusCode < 300 {
			http.ServeFile(w, ex.Request, path)
			return nil
		}
	}

	if resp.Body == nil {
		w.WriteHeader(resp.StatusCode)
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	return json.NewEncoder(w).Encode(resp.Body)
}
