package http

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var rawSpec []byte

// ServerInterface lists the operations declared in openapi.yaml, one method
// per operationId.
type ServerInterface interface {
	GetHealth(w http.ResponseWriter, r *http.Request)
	GetInfo(w http.ResponseWriter, r *http.Request)
	Find(w http.ResponseWriter, r *http.Request)
	GetNode(w http.ResponseWriter, r *http.Request)
	DeleteNode(w http.ResponseWriter, r *http.Request)
	GetChildren(w http.ResponseWriter, r *http.Request)
	GetParents(w http.ResponseWriter, r *http.Request)
	GetAttr(w http.ResponseWriter, r *http.Request)
	PutAttr(w http.ResponseWriter, r *http.Request)
}

var _ ServerInterface = (*Server)(nil)

// FindParams holds the query parameters of GET /find.
type FindParams struct {
	Selector *[]string
	Scope    *string
}

var loadSpec = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}
	return doc, nil
})

// Spec returns the parsed and validated API contract.
func Spec() (*openapi3.T, error) {
	return loadSpec()
}

// validateRequests rejects requests that break the contract before they
// reach a handler. Routes the contract does not declare pass through.
func (s *Server) validateRequests(doc *openapi3.T) (func(http.Handler) http.Handler, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, params, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength != 0 && r.Header.Get("Content-Type") == "" {
				r.Header.Set("Content-Type", "application/json")
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route:      route,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

// GetSpec serves the embedded contract.
func (s *Server) GetSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	_, _ = w.Write(rawSpec)
}

func bindFindParams(r *http.Request) (FindParams, error) {
	var params FindParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "selector", q, &params.Selector); err != nil {
		return params, fmt.Errorf("invalid format for parameter selector: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "scope", q, &params.Scope); err != nil {
		return params, fmt.Errorf("invalid format for parameter scope: %w", err)
	}
	return params, nil
}

func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return v, nil
}
