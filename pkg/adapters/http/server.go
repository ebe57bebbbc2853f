// Package http exposes a model over a small JSON API built on chi.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/archiscript"
	"github.com/aretw0/archiscript/pkg/attr"
	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/aretw0/archiscript/pkg/proxy"
)

// Engine is the part of the archiscript engine the API serves.
type Engine interface {
	Root() proxy.Proxy
	Get(id string) proxy.Proxy
}

// Server handles the API routes. Proxies are not safe for concurrent use,
// so reads share a lock and writes take it exclusively.
type Server struct {
	Engine Engine

	mu      sync.RWMutex
	logger  *slog.Logger
	metrics http.Handler
	version string
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(v)
	}
}

// NewHandler creates a new HTTP handler for the engine. Requests are checked
// against the embedded contract. It panics if that contract does not load.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:  engine,
		logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
		version: strings.TrimSpace(archiscript.Version),
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := loadSpec()
	if err != nil {
		panic(err)
	}
	validate, err := s.validateRequests(doc)
	if err != nil {
		panic(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(validate)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/find", s.Find)
	r.Get("/openapi.yaml", s.GetSpec)
	r.Route("/nodes/{id}", func(r chi.Router) {
		r.Get("/", s.GetNode)
		r.Delete("/", s.DeleteNode)
		r.Get("/children", s.GetChildren)
		r.Get("/parents", s.GetParents)
		r.Get("/attrs/{key}", s.GetAttr)
		r.Put("/attrs/{key}", s.PutAttr)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", ww.Status())
	})
}

// FindResponse is the body of GET /find.
type FindResponse struct {
	Scope string          `json:"scope"`
	Count int             `json:"count"`
	Nodes []proxy.Summary `json:"nodes"`
}

// AttrBody is the body of the attribute routes.
type AttrBody struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	root := s.Engine.Root()
	resp := map[string]string{
		"app":     "archiscript-http",
		"version": s.version,
		"model":   root.ID(),
		"name":    root.Name(),
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, resp)
}

// Find handles GET /find?selector=...&scope=<id>. Several selector
// parameters form a union. A selector that does not compile matches nothing.
func (s *Server) Find(w http.ResponseWriter, r *http.Request) {
	params, err := bindFindParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var selectors []string
	if params.Selector != nil {
		selectors = *params.Selector
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scope := s.Engine.Root()
	if params.Scope != nil && *params.Scope != "" {
		scope = s.Engine.Get(*params.Scope)
		if scope.IsEmpty() {
			s.notFound(w, *params.Scope)
			return
		}
	}
	found := scope.Find(selectors...)
	writeJSON(w, http.StatusOK, FindResponse{
		Scope: scope.ID(),
		Count: found.Len(),
		Nodes: found.Summaries(),
	})
}

// GetNode handles GET /nodes/{id}.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, proxy.Summarize(p))
}

// GetChildren handles GET /nodes/{id}/children.
func (s *Server) GetChildren(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.Children().Summaries())
}

// GetParents handles GET /nodes/{id}/parents, nearest first.
func (s *Server) GetParents(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.Parents().Summaries())
}

// GetAttr handles GET /nodes/{id}/attrs/{key}. Unknown keys read as null.
func (s *Server) GetAttr(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	key, err := pathParam(r, "key")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, AttrBody{Key: key, Value: p.Attr(key)})
}

// PutAttr handles PUT /nodes/{id}/attrs/{key} with an AttrBody. A null
// value clears the override.
func (s *Server) PutAttr(w http.ResponseWriter, r *http.Request) {
	var body AttrBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutAttr: Invalid request body", "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	key, err := pathParam(r, "key")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := p.SetAttr(key, body.Value); err != nil {
		s.fail(w, "PutAttr", err)
		return
	}
	writeJSON(w, http.StatusOK, AttrBody{Key: key, Value: p.Attr(key)})
}

// DeleteNode handles DELETE /nodes/{id}.
func (s *Server) DeleteNode(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := p.Delete(); err != nil {
		s.fail(w, "DeleteNode", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (proxy.Proxy, bool) {
	id, err := pathParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	p := s.Engine.Get(id)
	if p.IsEmpty() {
		s.notFound(w, id)
		return nil, false
	}
	return p, true
}

func (s *Server) notFound(w http.ResponseWriter, id string) {
	http.Error(w, "node not found: "+id, http.StatusNotFound)
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Debug(op+" rejected", "err", err)
	}
	http.Error(w, err.Error(), status)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrModelLocked):
		return http.StatusLocked
	case errors.Is(err, domain.ErrConceptInUse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotDeletable):
		return http.StatusForbidden
	case errors.Is(err, attr.ErrUnknownKey),
		errors.Is(err, attr.ErrInvalidValue),
		errors.Is(err, domain.ErrInvalidConcept):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
