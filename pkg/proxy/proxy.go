// Package proxy exposes the model graph to scripting callers through one
// uniform navigation and mutation API.
//
// A Factory wraps raw domain nodes in the proxy variant matching their
// category. Navigation never fails: absent nodes yield the empty proxy and
// unknown selectors yield empty collections, so call chains compose without
// nil checks. Mutations check the model's write guard once before touching
// anything.
package proxy

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/archiscript/pkg/attr"
	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/aretw0/archiscript/pkg/selector"
)

// Proxy is a disposable view over one model node.
// The set of implementations is closed; use Kind or a type switch to get at
// variant-specific methods such as (*DiagramObject).SetConcept.
type Proxy interface {
	// ID returns the node id, or "" for the empty proxy.
	ID() string
	Kind() Kind
	Type() string
	Name() string
	Documentation() string
	// Node returns the wrapped node, nil for the empty proxy.
	Node() *domain.Node
	// IsEmpty reports whether the proxy wraps no node.
	IsEmpty() bool
	// Equal compares by node id. The empty proxy equals nothing, itself included.
	Equal(other Proxy) bool

	Parent() Proxy
	// Parents lists the containers up to, not including, the model root, nearest first.
	Parents() *Collection
	Children() *Collection
	// Find returns the descendants matching any of the selectors in pre-order.
	// Without selectors it behaves as Find("*").
	Find(selectors ...string) *Collection

	// ReferencedConcept returns what the node stands for: the drawn concept of
	// a diagram object or connection, the diagram of a diagram reference, or
	// the proxy itself.
	ReferencedConcept() Proxy
	Source() Proxy
	Target() Proxy
	InRels() *Collection
	OutRels() *Collection
	// ObjectRefs lists the diagram components drawing or referencing this node.
	ObjectRefs() *Collection
	// ViewRefs lists the diagrams holding the ObjectRefs, without repeats.
	ViewRefs() *Collection

	// Attr reads a typed attribute such as "FILL_COLOR". Unknown keys give nil.
	Attr(key string) any
	SetAttr(key string, value any) error
	SetName(name string) error
	SetDocumentation(doc string) error
	Delete() error

	cascade() error
}

type base struct {
	node *domain.Node
	f    *Factory
	kind Kind
}

func (b *base) ID() string {
	if b.node == nil {
		return ""
	}
	return b.node.ID
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) Type() string {
	if b.node == nil {
		return ""
	}
	return b.node.Type
}

func (b *base) Name() string {
	if b.node == nil {
		return ""
	}
	return b.node.Name
}

func (b *base) Documentation() string {
	if b.node == nil {
		return ""
	}
	return b.node.Documentation
}

func (b *base) Node() *domain.Node { return b.node }

func (b *base) IsEmpty() bool { return b.node == nil }

func (b *base) Equal(other Proxy) bool {
	if other == nil || b.IsEmpty() || other.IsEmpty() {
		return false
	}
	return b.ID() == other.ID()
}

func (b *base) empty() *Collection {
	return &Collection{f: b.f}
}

func (b *base) Parent() Proxy {
	return b.f.Wrap(b.node.Parent())
}

func (b *base) Parents() *Collection {
	c := b.empty()
	for p := b.node.Parent(); p != nil && p.Parent() != nil; p = p.Parent() {
		c.Add(b.f.Wrap(p))
	}
	return c
}

func (b *base) Children() *Collection {
	return b.f.Collection(b.node.Children())
}

func (b *base) Find(selectors ...string) *Collection {
	if len(selectors) == 0 {
		selectors = []string{"*"}
	}
	start := time.Now()
	found := b.find(selectors)
	b.f.hooks.find(&FindEvent{
		Selector: strings.Join(selectors, ","),
		ScopeID:  b.ID(),
		Matches:  found.Len(),
		Elapsed:  time.Since(start),
	})
	return found
}

func (b *base) find(selectors []string) *Collection {
	c := b.empty()
	if b.node == nil {
		return c
	}

	var filters []selector.Filter
	for _, s := range selectors {
		if filter := b.f.compiler.Compile(s); filter != nil {
			filters = append(filters, filter)
		}
	}
	if len(filters) == 0 {
		return c
	}
	single := len(filters) == 1 && filters[0].Single()

	b.node.Walk(func(n *domain.Node) bool {
		for _, filter := range filters {
			if filter.Accept(n) {
				c.Add(b.f.Wrap(n))
				return !single
			}
		}
		return true
	})
	return c
}

func (b *base) ReferencedConcept() Proxy {
	return b.f.Wrap(b.node.Resolve())
}

func (b *base) Source() Proxy {
	if b.node == nil {
		return b.f.Wrap(nil)
	}
	return b.f.Wrap(b.node.Source)
}

func (b *base) Target() Proxy {
	if b.node == nil {
		return b.f.Wrap(nil)
	}
	return b.f.Wrap(b.node.Target)
}

func (b *base) InRels() *Collection {
	return b.rels(func(r *domain.Node) bool { return r.Target == b.node })
}

func (b *base) OutRels() *Collection {
	return b.rels(func(r *domain.Node) bool { return r.Source == b.node })
}

// rels lists relationships (for concepts) or connections (for diagram
// objects) whose end satisfies match.
func (b *base) rels(match func(*domain.Node) bool) *Collection {
	c := b.empty()
	m := b.node.Model()
	for _, r := range m.ReferencesTo(b.node) {
		cat := m.Category(r)
		if (cat == domain.CategoryRelationship || cat == domain.CategoryDiagramConnection) && match(r) {
			c.Add(b.f.Wrap(r))
		}
	}
	return c
}

func (b *base) objectRefs() []*domain.Node {
	m := b.node.Model()
	var refs []*domain.Node
	for _, r := range m.ReferencesTo(b.node) {
		if (r.Concept == b.node || r.Ref == b.node) && m.Category(r).IsDiagramComponent() {
			refs = append(refs, r)
		}
	}
	return refs
}

func (b *base) ObjectRefs() *Collection {
	return b.f.Collection(b.objectRefs())
}

func (b *base) ViewRefs() *Collection {
	var views []*domain.Node
	for _, r := range b.objectRefs() {
		if v := viewOf(b.f.registry, r); v != nil && !slices.Contains(views, v) {
			views = append(views, v)
		}
	}
	return b.f.Collection(views)
}

// viewOf returns the diagram holding n, or nil.
func viewOf(reg *domain.TypeRegistry, n *domain.Node) *domain.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if reg.Classify(p) == domain.CategoryDiagram {
			return p
		}
	}
	return nil
}

func (b *base) Attr(key string) any {
	if b.node == nil {
		return nil
	}
	k, ok := attr.ParseKey(key)
	if !ok {
		return nil
	}
	if v := attr.Get(b.node, k); v != nil {
		return v
	}
	if hasDefault(b.kind, k) {
		v, _ := attr.Default(k)
		return v
	}
	return nil
}

// hasDefault holds the per-variant fallback policy for unset attributes:
// diagram objects fall back on every key default, connections only on the
// line width, everything else reports nil.
func hasDefault(kind Kind, k attr.Key) bool {
	switch kind {
	case KindDiagramObject, KindDiagramReference:
		return true
	case KindDiagramConnection:
		return k == attr.KeyLineWidth
	default:
		return false
	}
}

func (b *base) SetAttr(key string, value any) (err error) {
	defer func() {
		b.f.hooks.attrSet(&AttrEvent{ID: b.ID(), Key: key, Err: err})
	}()

	if err := b.writable(); err != nil {
		return err
	}
	k, ok := attr.ParseKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", attr.ErrUnknownKey, key)
	}
	return attr.Set(b.node, k, value)
}

func (b *base) SetName(name string) error {
	if err := b.writable(); err != nil {
		return err
	}
	b.node.Name = name
	return nil
}

func (b *base) SetDocumentation(doc string) error {
	if err := b.writable(); err != nil {
		return err
	}
	b.node.Documentation = doc
	return nil
}

func (b *base) writable() error {
	if b.node == nil {
		return domain.ErrNodeNotFound
	}
	if err := b.node.Model().CheckWritable(); err != nil {
		return fmt.Errorf("%s: %w", b.node.ID, err)
	}
	return nil
}

func (b *base) Delete() error {
	return b.f.delete(b.node)
}

// cascade is the default removal: detach the node and let the model drop
// connections left dangling.
func (b *base) cascade() error {
	return b.detach(b.node)
}

func (b *base) detach(n *domain.Node) error {
	m := n.Model()
	if m == nil {
		// Already removed as part of an earlier step.
		return nil
	}
	b.f.logger.Debug("detaching node", "id", n.ID, "type", n.Type)
	return m.Detach(n)
}
