// Package compiler turns flat node records into a linked domain.Model and back.
package compiler

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/archiscript/pkg/domain"
)

// DefaultModelID is used when a record does not name its root.
const DefaultModelID = "model"

// Assembler links records into models.
type Assembler struct {
	registry *domain.TypeRegistry
}

// NewAssembler creates an assembler. A nil registry selects domain.DefaultRegistry.
func NewAssembler(registry *domain.TypeRegistry) *Assembler {
	if registry == nil {
		registry = domain.DefaultRegistry()
	}
	return &Assembler{registry: registry}
}

// Assemble builds a model from rec. Siblings keep their record order,
// stably sorted by Order. Unknown parents and cross references fail with
// domain.ErrNodeNotFound, repeated ids with domain.ErrDuplicateID.
func (a *Assembler) Assemble(rec *domain.ModelRecord) (*domain.Model, error) {
	if rec == nil {
		return nil, fmt.Errorf("assemble: nil model record")
	}
	rootID := cmp.Or(rec.ID, DefaultModelID)
	m := domain.NewModel(rootID, rec.Name, a.registry)

	flat := flatten(rec.Nodes, "")
	nodes := make(map[string]*domain.Node, len(flat))
	for _, r := range flat {
		if r.ID == "" {
			return nil, fmt.Errorf("assemble: record of type %q has no id", r.Type)
		}
		if r.Type == "" {
			return nil, fmt.Errorf("assemble: record %s has no type", r.ID)
		}
		if _, dup := nodes[r.ID]; dup || r.ID == rootID {
			return nil, fmt.Errorf("assemble: %w: %s", domain.ErrDuplicateID, r.ID)
		}
		n := domain.NewNode(r.ID, r.Type, r.Name)
		n.Documentation = r.Documentation
		for k, v := range r.Attrs {
			n.SetAttr(k, v)
		}
		nodes[r.ID] = n
	}

	byParent := make(map[string][]domain.NodeRecord)
	for _, r := range flat {
		parent := r.Parent
		if parent == rootID {
			parent = ""
		}
		if parent == r.ID {
			return nil, fmt.Errorf("assemble: %s contains itself", r.ID)
		}
		if parent != "" && nodes[parent] == nil {
			return nil, fmt.Errorf("assemble: parent %s of %s: %w", parent, r.ID, domain.ErrNodeNotFound)
		}
		byParent[parent] = append(byParent[parent], r)
	}

	for parent, children := range byParent {
		slices.SortStableFunc(children, func(x, y domain.NodeRecord) int { return cmp.Compare(x.Order, y.Order) })
		// Top-level nodes go last so that whole subtrees get indexed at once.
		if parent == "" {
			continue
		}
		for _, c := range children {
			if err := nodes[parent].Append(nodes[c.ID]); err != nil {
				return nil, fmt.Errorf("assemble: %w", err)
			}
		}
	}
	for _, c := range byParent[""] {
		if err := m.Root().Append(nodes[c.ID]); err != nil {
			return nil, fmt.Errorf("assemble: %w", err)
		}
	}
	if m.Len()-1 != len(flat) {
		return nil, fmt.Errorf("assemble: %d records are not reachable from the root (containment cycle)", len(flat)-(m.Len()-1))
	}

	for _, r := range flat {
		n := nodes[r.ID]
		for _, ref := range []struct {
			id  string
			dst **domain.Node
		}{
			{r.Source, &n.Source},
			{r.Target, &n.Target},
			{r.Concept, &n.Concept},
			{r.Ref, &n.Ref},
		} {
			if ref.id == "" {
				continue
			}
			target := m.Get(ref.id)
			if target == nil {
				return nil, fmt.Errorf("assemble: %s references %s: %w", r.ID, ref.id, domain.ErrNodeNotFound)
			}
			*ref.dst = target
		}
	}
	return m, nil
}

// flatten lifts nested children into one list, filling in Parent.
func flatten(records []domain.NodeRecord, parent string) []domain.NodeRecord {
	var out []domain.NodeRecord
	for _, r := range records {
		children := r.Children
		r.Children = nil
		if r.Parent == "" {
			r.Parent = parent
		}
		out = append(out, r)
		out = append(out, flatten(children, r.ID)...)
	}
	return out
}

// Record flattens m into a record list in pre-order. The result assembles
// back into an equivalent model.
func Record(m *domain.Model) *domain.ModelRecord {
	root := m.Root()
	rec := &domain.ModelRecord{ID: root.ID, Name: root.Name}
	root.Walk(func(n *domain.Node) bool {
		r := domain.NodeRecord{
			ID:            n.ID,
			Type:          n.Type,
			Name:          n.Name,
			Documentation: n.Documentation,
			Source:        idOf(n.Source),
			Target:        idOf(n.Target),
			Concept:       idOf(n.Concept),
			Ref:           idOf(n.Ref),
		}
		if p := n.Parent(); p != root {
			r.Parent = p.ID
		}
		if len(n.Attrs) > 0 {
			r.Attrs = maps.Clone(n.Attrs)
		}
		rec.Nodes = append(rec.Nodes, r)
		return true
	})
	return rec
}

func idOf(n *domain.Node) string {
	if n == nil {
		return ""
	}
	return n.ID
}
