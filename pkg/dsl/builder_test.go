package dsl

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/archiscript/pkg/domain"
)

func TestBuilder_SimpleModel(t *testing.T) {
	// 1. Declare the model using the DSL
	b := New("m", "Shop")

	b.Folder("business", "Business")
	b.Element("actor", "BusinessActor", "Customer").In("business").Doc("Buys things.")
	b.Element("role", "BusinessRole", "Buyer").In("business")
	b.Relationship("assign", "AssignmentRelationship", "actor", "role")

	view := b.Add("view").Type("ArchimateDiagramModel").Name("Overview")
	view.Object("o1", "actor").Bounds(10, 10, 120, 55).
		Connect("c1", "o2", "assign")
	view.Object("o2", "role").Attr("fillColor", "#ffff80")

	// 2. Build
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// 3. Verify structure and references
	if got := m.Root().ID; got != "m" {
		t.Errorf("expected root id 'm', got '%s'", got)
	}
	actor := m.Get("actor")
	if actor == nil || actor.Parent().ID != "business" {
		t.Fatalf("expected actor inside the business folder")
	}
	if actor.Documentation != "Buys things." {
		t.Errorf("unexpected documentation: %q", actor.Documentation)
	}
	if m.Get("assign").Parent() != m.Root() {
		t.Errorf("nodes without In() belong to the root")
	}

	c1 := m.Get("c1")
	if c1 == nil {
		t.Fatalf("connection c1 missing")
	}
	if c1.Parent().ID != "o1" || c1.Source.ID != "o1" || c1.Target.ID != "o2" {
		t.Errorf("connection is held by and starts at o1, ends at o2")
	}
	if c1.Type != "DiagramModelArchimateConnection" || c1.Concept.ID != "assign" {
		t.Errorf("connection should draw the relationship, got type %s", c1.Type)
	}
	if fill, _ := m.Get("o2").Attr("fillColor"); fill != "#ffff80" {
		t.Errorf("expected fillColor attribute, got %v", fill)
	}
}

func TestBuilder_Add(t *testing.T) {
	b := New("", "")

	first := b.Add("x")
	if b.Add("x") != first {
		t.Errorf("Add must return the existing builder for a known id")
	}

	generated := b.Add("").Type("Folder")
	if generated.ID() == "" {
		t.Fatalf("expected a generated id")
	}

	rec := b.Record()
	if rec.ID != "model" {
		t.Errorf("expected default root id, got %s", rec.ID)
	}
	if len(rec.Nodes) != 2 || rec.Nodes[0].ID != "x" || rec.Nodes[1].ID != generated.ID() {
		t.Errorf("records keep declaration order: %+v", rec.Nodes)
	}
}

func TestBuilder_PlainConnection(t *testing.T) {
	b := New("m", "")
	view := b.Add("view").Type("ArchimateDiagramModel")
	note := b.Add("note").Type("DiagramModelNote").In(view.ID())
	note.Connect("c", "group", "")
	b.Add("group").Type("DiagramModelGroup").In(view.ID())

	rec := note.Build()
	if rec.ID != "note" {
		t.Errorf("unexpected record %+v", rec)
	}

	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	c := m.Get("c")
	if c.Type != "DiagramModelConnection" || c.Concept != nil {
		t.Errorf("a connection without relationship is a plain connection, got %s", c.Type)
	}
}

func TestBuilder_Errors(t *testing.T) {
	b := New("m", "")
	b.Add("o").Type("DiagramModelArchimateObject").Draws("missing")

	if _, err := b.Build(); !errors.Is(err, domain.ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
	if _, err := b.Loader(); err == nil {
		t.Errorf("Loader must refuse a model that does not build")
	}
}

func TestBuilder_Loader(t *testing.T) {
	b := New("m", "Shop")
	b.Folder("business", "Business")
	b.Element("actor", "BusinessActor", "Customer").In("business")

	loader, err := b.Loader()
	if err != nil {
		t.Fatalf("Loader() failed: %v", err)
	}
	rec, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if rec.Name != "Shop" || len(rec.Nodes) != 2 {
		t.Errorf("unexpected record: %+v", rec)
	}
}
