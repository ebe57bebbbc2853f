package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/archiscript/internal/testutils"
	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/aretw0/archiscript/pkg/proxy"
)

type fixtureEngine struct {
	m *domain.Model
	f *proxy.Factory
}

func (e *fixtureEngine) Root() proxy.Proxy        { return e.f.Wrap(e.m.Root()) }
func (e *fixtureEngine) Get(id string) proxy.Proxy { return e.f.Wrap(e.m.Get(id)) }

func newServer(t *testing.T, opts ...Option) (*domain.Model, http.Handler) {
	t.Helper()
	m := testutils.Fixture(t)
	return m, NewHandler(&fixtureEngine{m: m, f: proxy.NewFactory(m.Registry())}, opts...)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func ids(nodes []proxy.Summary) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestHealthAndInfo(t *testing.T) {
	_, h := newServer(t, WithVersion("1.2.3\n"))

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	info := decode[map[string]string](t, do(t, h, http.MethodGet, "/info", ""))
	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, "model", info["model"])
}

func TestFind(t *testing.T) {
	_, h := newServer(t)

	tests := []struct {
		target string
		want   []string
	}{
		{"/find?selector=views", []string{"4056", "4200"}},
		{"/find?selector=%234104", []string{"4104"}},
		{"/find?selector=BusinessActor&scope=4200", []string{"4201"}},
		{"/find?selector=views&selector=Folder", []string{"business", "application", "relations", "e64e9b49", "4056", "4200"}},
		{"/find?selector=not+a+selector", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := do(t, h, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, w.Code)
			resp := decode[FindResponse](t, w)
			assert.Equal(t, tt.want, ids(resp.Nodes))
			assert.Equal(t, len(tt.want), resp.Count)
		})
	}

	all := decode[FindResponse](t, do(t, h, http.MethodGet, "/find", ""))
	assert.Equal(t, 36, all.Count, "no selector means every descendant")

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/find?selector=*&scope=nope", "").Code)
}

func TestNodeRoutes(t *testing.T) {
	_, h := newServer(t)

	node := decode[proxy.Summary](t, do(t, h, http.MethodGet, "/nodes/4104", ""))
	assert.Equal(t, "diagram-object", node.Kind)
	assert.Equal(t, "e-service", node.Concept)

	children := decode[[]proxy.Summary](t, do(t, h, http.MethodGet, "/nodes/4096/children", ""))
	assert.Equal(t, []string{"4104", "4120", "4112"}, ids(children))

	parents := decode[[]proxy.Summary](t, do(t, h, http.MethodGet, "/nodes/4104/parents", ""))
	assert.Equal(t, []string{"4096", "4056", "e64e9b49"}, ids(parents))

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/nodes/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/nodes/nope/children", "").Code)
}

func TestAttrRoutes(t *testing.T) {
	m, h := newServer(t)

	got := decode[AttrBody](t, do(t, h, http.MethodGet, "/nodes/4112/attrs/LINE_WIDTH", ""))
	assert.Equal(t, float64(2), got.Value)

	got = decode[AttrBody](t, do(t, h, http.MethodGet, "/nodes/4104/attrs/NOPE", ""))
	assert.Nil(t, got.Value, "unknown keys read as null")

	w := do(t, h, http.MethodPut, "/nodes/4104/attrs/FILL_COLOR", `{"value":"#00FF00"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "#00ff00", decode[AttrBody](t, w).Value)

	w = do(t, h, http.MethodPut, "/nodes/4104/attrs/BOUNDS", `{"value":{"x":1,"y":2,"width":30,"height":40}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0, "width": 30.0, "height": 40.0}, decode[AttrBody](t, w).Value)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/nodes/4104/attrs/NOPE", `{"value":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/nodes/4104/attrs/FILL_COLOR", `{"value":"green"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/nodes/4104/attrs/FILL_COLOR", `{`).Code)

	m.SetReadOnly(true)
	assert.Equal(t, http.StatusLocked, do(t, h, http.MethodPut, "/nodes/4104/attrs/FILL_COLOR", `{"value":null}`).Code)
}

func TestDeleteRoute(t *testing.T) {
	m, h := newServer(t)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/nodes/4200", "").Code)
	assert.Nil(t, m.Get("4200"))
	assert.Nil(t, m.Get("3657"))

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/nodes/4200", "").Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodDelete, "/nodes/e-object", "").Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodDelete, "/nodes/model", "").Code)

	m.SetReadOnly(true)
	assert.Equal(t, http.StatusLocked, do(t, h, http.MethodDelete, "/nodes/4104", "").Code)
}

func TestSpec_DeclaresEveryOperation(t *testing.T) {
	doc, err := Spec()
	require.NoError(t, err)

	var got []string
	for _, item := range doc.Paths.Map() {
		for _, op := range item.Operations() {
			got = append(got, op.OperationID)
		}
	}
	sort.Strings(got)

	iface := reflect.TypeOf((*ServerInterface)(nil)).Elem()
	want := make([]string, 0, iface.NumMethod())
	for i := range iface.NumMethod() {
		want = append(want, iface.Method(i).Name)
	}
	sort.Strings(want)

	assert.Equal(t, want, got)
}

func TestSpecRoute(t *testing.T) {
	_, h := newServer(t)
	w := do(t, h, http.MethodGet, "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "operationId: PutAttr")
}

func TestContractRejectsMalformedRequests(t *testing.T) {
	_, h := newServer(t)
	before := do(t, h, http.MethodGet, "/nodes/4104/attrs/FILL_COLOR", "").Body.String()

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"missing body", http.MethodPut, "/nodes/4104/attrs/FILL_COLOR", ""},
		{"missing value", http.MethodPut, "/nodes/4104/attrs/FILL_COLOR", `{"key":"FILL_COLOR"}`},
		{"key not a string", http.MethodPut, "/nodes/4104/attrs/FILL_COLOR", `{"key":7,"value":"#00ff00"}`},
		{"body not an object", http.MethodPut, "/nodes/4104/attrs/FILL_COLOR", `["#00ff00"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	after := do(t, h, http.MethodGet, "/nodes/4104/attrs/FILL_COLOR", "").Body.String()
	assert.JSONEq(t, before, after, "rejected writes leave the node untouched")
}

func TestMetricsRoute(t *testing.T) {
	_, h := newServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/metrics", "").Code)

	_, h = newServer(t, WithMetrics(promhttp.Handler()))
	w := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestCORS(t *testing.T) {
	_, h := newServer(t)
	w := do(t, h, http.MethodOptions, "/find", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
