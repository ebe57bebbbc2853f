/*
Package dsl provides a Go DSL for programmatically constructing archiscript models.

It allows tests and embedding hosts to declare a model with a fluent builder
instead of writing YAML or Loam documents. Nodes can be declared in any
order; references are resolved by id when the model is built.

Example usage:

	b := dsl.New("model", "Archisurance")
	b.Folder("business", "Business")
	b.Element("customer", "BusinessActor", "Customer").In("business")
	b.Element("role", "BusinessRole", "Insurant").In("business")
	b.Relationship("assign", "AssignmentRelationship", "customer", "role").In("business")

	view := b.Add("overview").Type("ArchimateDiagramModel").Name("Overview")
	view.Object("o-customer", "customer").Bounds(20, 20, 120, 55).
		Connect("c-assign", "o-role", "assign")
	view.Object("o-role", "role").Bounds(220, 20, 120, 55)

	model, err := b.Build()
*/
package dsl
