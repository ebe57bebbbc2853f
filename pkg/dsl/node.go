package dsl

import "github.com/aretw0/archiscript/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	rec     domain.NodeRecord
	builder *Builder
}

// ID returns the node id, useful when it was generated.
func (n *NodeBuilder) ID() string {
	return n.rec.ID
}

// Type sets the declared type name, e.g. "BusinessActor".
func (n *NodeBuilder) Type(typ string) *NodeBuilder {
	n.rec.Type = typ
	return n
}

// Name sets the display name.
func (n *NodeBuilder) Name(name string) *NodeBuilder {
	n.rec.Name = name
	return n
}

// Doc sets the documentation text.
func (n *NodeBuilder) Doc(doc string) *NodeBuilder {
	n.rec.Documentation = doc
	return n
}

// In places the node inside a container. Nodes default to the model root.
func (n *NodeBuilder) In(parent string) *NodeBuilder {
	n.rec.Parent = parent
	return n
}

// Source sets the source end of a relationship or connection.
func (n *NodeBuilder) Source(id string) *NodeBuilder {
	n.rec.Source = id
	return n
}

// Target sets the target end of a relationship or connection.
func (n *NodeBuilder) Target(id string) *NodeBuilder {
	n.rec.Target = id
	return n
}

// Draws sets the concept a diagram object or connection draws.
func (n *NodeBuilder) Draws(concept string) *NodeBuilder {
	n.rec.Concept = concept
	return n
}

// Shows sets the diagram a diagram reference points at.
func (n *NodeBuilder) Shows(diagram string) *NodeBuilder {
	n.rec.Ref = diagram
	return n
}

// Attr stores a raw attribute, e.g. Attr("fillColor", "#ffff80").
func (n *NodeBuilder) Attr(key string, value any) *NodeBuilder {
	if n.rec.Attrs == nil {
		n.rec.Attrs = make(map[string]any)
	}
	n.rec.Attrs[key] = value
	return n
}

// Bounds stores the geometry of a diagram object.
func (n *NodeBuilder) Bounds(x, y, width, height int) *NodeBuilder {
	return n.Attr("bounds", map[string]any{"x": x, "y": y, "width": width, "height": height})
}

// Object adds a diagram object drawing concept inside this node.
func (n *NodeBuilder) Object(id, concept string) *NodeBuilder {
	return n.builder.Add(id).Type("DiagramModelArchimateObject").Draws(concept).In(n.rec.ID)
}

// Connect adds a connection from this node to target, drawing relationship
// (which may be empty). The connection is held by this node.
func (n *NodeBuilder) Connect(id, target, relationship string) *NodeBuilder {
	typ := "DiagramModelConnection"
	if relationship != "" {
		typ = "DiagramModelArchimateConnection"
	}
	return n.builder.Add(id).Type(typ).Source(n.rec.ID).Target(target).Draws(relationship).In(n.rec.ID)
}

// Build returns the record of the node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.NodeRecord {
	return n.rec
}
