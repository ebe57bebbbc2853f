package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/archiscript/pkg/attr"
	"github.com/aretw0/archiscript/pkg/proxy"
)

// Metrics holds the Prometheus collectors fed by proxy hooks.
// Each instance owns its registry, so several engines (or tests) never
// collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	Finds        *prometheus.CounterVec
	FindDuration prometheus.Histogram
	Deletes      *prometheus.CounterVec
	NodesRemoved prometheus.Counter
	AttrWrites   *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors under namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Finds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "finds_total",
				Help:      "Total number of selector searches",
			},
			[]string{"result"},
		),
		FindDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "find_duration_seconds",
				Help:      "Duration of selector searches",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		Deletes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deletes_total",
				Help:      "Total number of delete calls",
			},
			[]string{"kind", "status"},
		),
		NodesRemoved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "nodes_removed_total",
				Help:      "Total number of nodes removed by deletes and their cascades",
			},
		),
		AttrWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attr_writes_total",
				Help:      "Total number of attribute writes",
			},
			[]string{"key", "status"},
		),
	}
	m.registry.MustRegister(m.Finds, m.FindDuration, m.Deletes, m.NodesRemoved, m.AttrWrites)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns proxy hooks recording into m.
func (m *Metrics) Hooks() proxy.Hooks {
	return proxy.Hooks{
		OnFind: func(e *proxy.FindEvent) {
			result := "match"
			if e.Matches == 0 {
				result = "empty"
			}
			m.Finds.WithLabelValues(result).Inc()
			m.FindDuration.Observe(e.Elapsed.Seconds())
		},
		OnDelete: func(e *proxy.DeleteEvent) {
			m.Deletes.WithLabelValues(e.Kind.String(), status(e.Err)).Inc()
			m.NodesRemoved.Add(float64(e.Removed))
		},
		OnAttrSet: func(e *proxy.AttrEvent) {
			m.AttrWrites.WithLabelValues(keyLabel(e.Key), status(e.Err)).Inc()
		},
	}
}

// keyLabel maps every spelling of a known key to its canonical name and
// anything else to "unknown", whatever the outcome of the write.
func keyLabel(name string) string {
	if k, ok := attr.ParseKey(name); ok {
		return k.String()
	}
	return "unknown"
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
