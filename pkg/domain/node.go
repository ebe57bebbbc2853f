package domain

import "slices"

// Node represents a single element of the architecture model graph.
// Concepts, diagrams, diagram components and folders are all Nodes; their
// declared Type tells them apart (see TypeRegistry).
type Node struct {
	ID            string `json:"id" yaml:"id"`
	Type          string `json:"type" yaml:"type"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty"`

	// Attrs is the raw key/value attribute store of the node.
	// Typed access goes through the attr package.
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`

	// Source and Target are the ends of a relationship (concept layer)
	// or of a connection (diagram layer).
	Source *Node `json:"-" yaml:"-"`
	Target *Node `json:"-" yaml:"-"`

	// Concept is the concept drawn by a diagram object or connection.
	Concept *Node `json:"-" yaml:"-"`

	// Ref is the diagram shown by a diagram reference.
	Ref *Node `json:"-" yaml:"-"`

	parent   *Node
	children []*Node
	model    *Model
}

// NewNode creates a detached node.
func NewNode(id, typ, name string) *Node {
	return &Node{
		ID:   id,
		Type: typ,
		Name: name,
	}
}

// Parent returns the structural container, or nil for the model root and detached nodes.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Children returns a copy of the structural children in order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return slices.Clone(n.children)
}

// Model returns the model the node is attached to, if any.
func (n *Node) Model() *Model {
	if n == nil {
		return nil
	}
	return n.model
}

// Append adds children at the end of n's child list.
// A child that already has a container is moved. When n belongs to a model
// the whole child subtree is indexed, and an id collision aborts the call
// before anything is changed.
func (n *Node) Append(children ...*Node) error {
	if n.model != nil {
		if err := n.model.checkIDs(children); err != nil {
			return err
		}
	}

	for _, c := range children {
		if c.parent != nil {
			c.parent.removeChild(c)
		}
		c.parent = n
		n.children = append(n.children, c)
		if n.model != nil {
			n.model.index(c)
		}
	}
	return nil
}

func (n *Node) removeChild(c *Node) {
	if i := slices.Index(n.children, c); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
}

// Resolve returns the node a diagram component stands for: the drawn concept
// of an object or connection, the referenced diagram of a diagram reference,
// or n itself.
func (n *Node) Resolve() *Node {
	switch {
	case n == nil:
		return nil
	case n.Concept != nil:
		return n.Concept
	case n.Ref != nil:
		return n.Ref
	default:
		return n
	}
}

// Walk visits every descendant of n (not n itself) depth-first in pre-order.
// Returning false from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	n.walk(fn)
}

func (n *Node) walk(fn func(*Node) bool) bool {
	for _, c := range n.children {
		if !fn(c) || !c.walk(fn) {
			return false
		}
	}
	return true
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Attr returns a raw attribute value.
func (n *Node) Attr(key string) (any, bool) {
	if n == nil || n.Attrs == nil {
		return nil, false
	}
	v, ok := n.Attrs[key]
	return v, ok
}

// SetAttr stores a raw attribute value. A nil value removes the key.
func (n *Node) SetAttr(key string, value any) {
	if value == nil {
		delete(n.Attrs, key)
		return
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]any)
	}
	n.Attrs[key] = value
}
