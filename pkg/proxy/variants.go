package proxy

import (
	"fmt"

	"github.com/aretw0/archiscript/pkg/attr"
	"github.com/aretw0/archiscript/pkg/domain"
)

// Generic wraps the model root, unknown node types and absent nodes.
type Generic struct {
	base
}

// Folder wraps a folder of the model tree.
type Folder struct {
	base
}

func (p *Folder) cascade() error {
	return p.removeSubtree()
}

type concept struct {
	base
}

func (p *concept) cascade() error {
	return p.removeSubtree()
}

// Element wraps a concept element.
type Element struct {
	concept
}

// Relationship wraps a concept relationship.
type Relationship struct {
	concept
}

// Diagram wraps a diagram (view).
type Diagram struct {
	base
}

// Children returns the immediate diagram objects followed by every
// connection of the diagram in depth-first order.
func (p *Diagram) Children() *Collection {
	c := p.empty()
	reg := p.f.registry

	for _, n := range p.node.Children() {
		switch reg.Classify(n) {
		case domain.CategoryDiagramObject, domain.CategoryDiagramReference:
			c.Add(p.f.Wrap(n))
		}
	}
	p.node.Walk(func(n *domain.Node) bool {
		if reg.Classify(n) == domain.CategoryDiagramConnection {
			c.Add(p.f.Wrap(n))
		}
		return true
	})
	return c
}

// cascade removes the diagram references pointing at the diagram, then its
// immediate objects, then the diagram itself.
func (p *Diagram) cascade() error {
	m := p.node.Model()
	for _, ref := range m.ReferencesTo(p.node) {
		if ref.Ref != p.node || p.node.Contains(ref) {
			continue
		}
		p.f.logger.Debug("removing diagram reference", "diagram", p.node.ID, "reference", ref.ID)
		if err := p.detach(ref); err != nil {
			return err
		}
	}
	for _, child := range p.Children().All() {
		if child.Kind() == KindDiagramConnection {
			continue
		}
		if err := child.cascade(); err != nil {
			return err
		}
	}
	return p.detach(p.node)
}

// DiagramObject wraps a visual node of a diagram: an archimate object, a
// group, a note or any other registered diagram object type.
type DiagramObject struct {
	base
}

// Children returns the nested diagram objects. Connections held by the
// object are reachable through InRels, OutRels and the diagram's Children.
func (p *DiagramObject) Children() *Collection {
	c := p.empty()
	for _, n := range p.node.Children() {
		switch p.f.registry.Classify(n) {
		case domain.CategoryDiagramObject, domain.CategoryDiagramReference:
			c.Add(p.f.Wrap(n))
		}
	}
	return c
}

// Concept returns the drawn concept, or the empty proxy for groups, notes
// and other purely visual objects.
func (p *DiagramObject) Concept() Proxy {
	return p.f.Wrap(p.node.Concept)
}

// SetConcept makes the object draw another element. Only objects already
// drawing a concept can be reassigned.
func (p *DiagramObject) SetConcept(element Proxy) error {
	if err := p.writable(); err != nil {
		return err
	}
	if p.node.Concept == nil {
		return fmt.Errorf("%s draws no concept: %w", p.node.ID, domain.ErrInvalidConcept)
	}
	if element == nil || element.Kind() != KindElement {
		return fmt.Errorf("%s cannot draw a %v: %w", p.node.ID, kindOrNone(element), domain.ErrInvalidConcept)
	}
	if element.Node().Model() != p.node.Model() {
		return fmt.Errorf("%s: element %s belongs to another model: %w", p.node.ID, element.ID(), domain.ErrInvalidConcept)
	}
	p.node.Concept = element.Node()
	return nil
}

// Bounds returns the stored geometry of the object.
func (p *DiagramObject) Bounds() (attr.Bounds, bool) {
	b, ok := attr.Get(p.node, attr.KeyBounds).(attr.Bounds)
	return b, ok
}

// View returns the diagram holding the object.
func (p *DiagramObject) View() Proxy {
	return p.f.Wrap(viewOf(p.f.registry, p.node))
}

// DiagramReference wraps a diagram object that shows another diagram.
type DiagramReference struct {
	DiagramObject
}

// Diagram returns the referenced diagram.
func (p *DiagramReference) Diagram() Proxy {
	return p.f.Wrap(p.node.Ref)
}

// DiagramConnection wraps a visual edge between two diagram objects.
type DiagramConnection struct {
	base
}

// Concept returns the drawn relationship, or the empty proxy.
func (p *DiagramConnection) Concept() Proxy {
	return p.f.Wrap(p.node.Concept)
}

// View returns the diagram holding the connection.
func (p *DiagramConnection) View() Proxy {
	return p.f.Wrap(viewOf(p.f.registry, p.node))
}

func kindOrNone(p Proxy) Kind {
	if p == nil {
		return KindNone
	}
	return p.Kind()
}
