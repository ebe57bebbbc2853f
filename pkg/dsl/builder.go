package dsl

import (
	"cmp"
	"fmt"

	"github.com/aretw0/archiscript/internal/compiler"
	"github.com/aretw0/archiscript/pkg/adapters/memory"
	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/google/uuid"
)

// Builder manages the model construction.
type Builder struct {
	id       string
	name     string
	registry *domain.TypeRegistry
	order    []*NodeBuilder
	nodes    map[string]*NodeBuilder
}

// Option configures a Builder.
type Option func(*Builder)

// WithRegistry sets the type registry the built model classifies nodes with.
func WithRegistry(registry *domain.TypeRegistry) Option {
	return func(b *Builder) {
		b.registry = registry
	}
}

// New creates a new model builder. An empty id selects the default root id.
func New(id, name string, opts ...Option) *Builder {
	b := &Builder{
		id:    cmp.Or(id, compiler.DefaultModelID),
		name:  name,
		nodes: make(map[string]*NodeBuilder),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add creates a new node in the model.
// If the node already exists, it returns the existing builder.
// An empty id gets a generated one, readable through NodeBuilder.ID.
func (b *Builder) Add(id string) *NodeBuilder {
	if id == "" {
		id = uuid.NewString()
	}
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		rec:     domain.NodeRecord{ID: id},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, nb)
	return nb
}

// Folder is shorthand for Add(id).Type("Folder").Name(name).
func (b *Builder) Folder(id, name string) *NodeBuilder {
	return b.Add(id).Type("Folder").Name(name)
}

// Element is shorthand for adding a concept element.
func (b *Builder) Element(id, typ, name string) *NodeBuilder {
	return b.Add(id).Type(typ).Name(name)
}

// Relationship is shorthand for adding a concept relationship between two concepts.
func (b *Builder) Relationship(id, typ, source, target string) *NodeBuilder {
	return b.Add(id).Type(typ).Source(source).Target(target)
}

// Record returns the flat record form of the model in declaration order.
func (b *Builder) Record() *domain.ModelRecord {
	rec := &domain.ModelRecord{ID: b.id, Name: b.name}
	for _, nb := range b.order {
		rec.Nodes = append(rec.Nodes, nb.rec)
	}
	return rec
}

// Build links the declared nodes into a model.
func (b *Builder) Build() (*domain.Model, error) {
	m, err := compiler.NewAssembler(b.registry).Assemble(b.Record())
	if err != nil {
		return nil, fmt.Errorf("failed to build model %s: %w", b.id, err)
	}
	return m, nil
}

// Loader compiles the model into a memory loader.
func (b *Builder) Loader() (*memory.Loader, error) {
	if _, err := b.Build(); err != nil {
		return nil, err
	}
	return memory.NewLoader(b.Record())
}
