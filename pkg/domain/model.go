package domain

import (
	"fmt"
)

// TypeModel is the declared type of the model root.
const TypeModel = "ArchimateModel"

// Model owns a node tree and the id index over it.
// It is not safe for concurrent mutation.
type Model struct {
	root     *Node
	nodes    map[string]*Node
	registry *TypeRegistry
	readOnly bool
}

// NewModel creates an empty model whose root node has the given id and name.
// A nil registry selects DefaultRegistry.
func NewModel(id, name string, registry *TypeRegistry) *Model {
	if registry == nil {
		registry = DefaultRegistry()
	}
	m := &Model{
		nodes:    make(map[string]*Node),
		registry: registry,
	}
	m.root = NewNode(id, TypeModel, name)
	m.index(m.root)
	return m
}

// Root returns the model root node.
func (m *Model) Root() *Node {
	return m.root
}

// Registry returns the type registry the model classifies its nodes with.
func (m *Model) Registry() *TypeRegistry {
	return m.registry
}

// Get returns the node with the given id, or nil.
func (m *Model) Get(id string) *Node {
	if m == nil {
		return nil
	}
	return m.nodes[id]
}

// Len returns the number of nodes in the model, root included.
func (m *Model) Len() int {
	return len(m.nodes)
}

// ReadOnly reports whether mutations are rejected.
func (m *Model) ReadOnly() bool {
	return m.readOnly
}

// SetReadOnly toggles the write guard.
func (m *Model) SetReadOnly(readOnly bool) {
	m.readOnly = readOnly
}

// CheckWritable returns ErrModelLocked when the model is read-only.
func (m *Model) CheckWritable() error {
	if m == nil {
		return fmt.Errorf("no model: %w", ErrNodeNotFound)
	}
	if m.readOnly {
		return ErrModelLocked
	}
	return nil
}

// Category classifies n with the model's registry.
func (m *Model) Category(n *Node) Category {
	return m.registry.Classify(n)
}

// Detach removes n and its subtree from the model.
//
// Detaching also applies the graph's own referential-integrity rule:
// diagram connections whose source or target is no longer part of the model
// are detached as well.
func (m *Model) Detach(n *Node) error {
	if n == nil || n.model != m {
		return ErrNodeNotFound
	}
	if n.parent == nil {
		return fmt.Errorf("detach %s: %w", n.ID, ErrNotDeletable)
	}

	n.parent.removeChild(n)
	n.parent = nil
	m.unindex(n)

	for {
		orphan := m.danglingConnection()
		if orphan == nil {
			return nil
		}
		orphan.parent.removeChild(orphan)
		orphan.parent = nil
		m.unindex(orphan)
	}
}

func (m *Model) danglingConnection() *Node {
	var found *Node
	m.root.Walk(func(c *Node) bool {
		if m.Category(c) != CategoryDiagramConnection {
			return true
		}
		if (c.Source != nil && c.Source.model != m) || (c.Target != nil && c.Target.model != m) {
			found = c
			return false
		}
		return true
	})
	return found
}

// ReferencesTo returns every node of the model whose Source, Target, Concept
// or Ref points at target, in model pre-order.
func (m *Model) ReferencesTo(target *Node) []*Node {
	if m == nil || target == nil {
		return nil
	}
	var refs []*Node
	m.root.Walk(func(n *Node) bool {
		if n.Source == target || n.Target == target || n.Concept == target || n.Ref == target {
			refs = append(refs, n)
		}
		return true
	})
	return refs
}

func (m *Model) checkIDs(children []*Node) error {
	seen := make(map[string]bool)
	var err error
	check := func(n *Node) bool {
		if n.ID == "" {
			err = fmt.Errorf("node of type %q has no id", n.Type)
			return false
		}
		if existing, ok := m.nodes[n.ID]; (ok && existing != n) || seen[n.ID] {
			err = fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
			return false
		}
		seen[n.ID] = true
		return true
	}
	for _, c := range children {
		if !check(c) {
			return err
		}
		c.Walk(check)
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) index(n *Node) {
	n.model = m
	m.nodes[n.ID] = n
	n.Walk(func(c *Node) bool {
		c.model = m
		m.nodes[c.ID] = c
		return true
	})
}

func (m *Model) unindex(n *Node) {
	n.model = nil
	delete(m.nodes, n.ID)
	n.Walk(func(c *Node) bool {
		c.model = nil
		delete(m.nodes, c.ID)
		return true
	})
}
