package proxy

import (
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/aretw0/archiscript/pkg/selector"
)

// Factory wraps raw nodes in proxies. It is the single dispatch point from a
// node category to a proxy variant. Wrapping is pure: the factory keeps no
// per-node state, so two Wrap calls on one node give independent, Equal proxies.
type Factory struct {
	registry *domain.TypeRegistry
	compiler *selector.Compiler
	logger   *slog.Logger
	hooks    Hooks
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger used for cascade diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithHooks registers observability callbacks.
func WithHooks(hooks Hooks) Option {
	return func(f *Factory) {
		f.hooks = hooks
	}
}

// NewFactory creates a factory classifying nodes with registry.
// A nil registry selects domain.DefaultRegistry.
func NewFactory(registry *domain.TypeRegistry, opts ...Option) *Factory {
	if registry == nil {
		registry = domain.DefaultRegistry()
	}
	f := &Factory{
		registry: registry,
		compiler: selector.NewCompiler(registry),
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var fallbackFactory = sync.OnceValue(func() *Factory { return NewFactory(nil) })

// orDefault lets zero-value collections work without a factory.
func (f *Factory) orDefault() *Factory {
	if f == nil {
		return fallbackFactory()
	}
	return f
}

// Registry returns the type registry of the factory.
func (f *Factory) Registry() *domain.TypeRegistry {
	return f.orDefault().registry
}

// Compiler returns the selector compiler of the factory.
func (f *Factory) Compiler() *selector.Compiler {
	return f.orDefault().compiler
}

// Kind returns the variant Wrap would choose for n.
func (f *Factory) Kind(n *domain.Node) Kind {
	if n == nil {
		return KindNone
	}
	f = f.orDefault()
	cat := f.registry.Classify(n)
	if n.Ref != nil && cat == domain.CategoryDiagramObject {
		return KindDiagramReference
	}
	return kindOf(cat)
}

// Wrap returns the proxy variant matching n. A nil node yields the empty
// proxy, on which every navigation returns an empty result.
func (f *Factory) Wrap(n *domain.Node) Proxy {
	f = f.orDefault()
	b := base{node: n, f: f, kind: f.Kind(n)}

	switch b.kind {
	case KindDiagramReference:
		return &DiagramReference{DiagramObject{base: b}}
	case KindDiagramConnection:
		return &DiagramConnection{base: b}
	case KindDiagramObject:
		return &DiagramObject{base: b}
	case KindDiagram:
		return &Diagram{base: b}
	case KindRelationship:
		return &Relationship{concept{base: b}}
	case KindElement:
		return &Element{concept{base: b}}
	case KindFolder:
		return &Folder{base: b}
	default:
		return &Generic{base: b}
	}
}

// Collection wraps every node of nodes in order.
func (f *Factory) Collection(nodes []*domain.Node) *Collection {
	c := &Collection{f: f.orDefault()}
	for _, n := range nodes {
		c.Add(c.f.Wrap(n))
	}
	return c
}
