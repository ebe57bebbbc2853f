package proxy

import (
	"fmt"

	"github.com/aretw0/archiscript/pkg/domain"
)

// delete runs the variant cascade for n. The write guard and every
// precondition are checked before the first mutation.
func (f *Factory) delete(n *domain.Node) (err error) {
	if n == nil {
		return domain.ErrNodeNotFound
	}

	p := f.Wrap(n)
	m := n.Model()
	before := 0
	if m != nil {
		before = m.Len()
	}
	defer func() {
		removed := 0
		if m != nil {
			removed = before - m.Len()
		}
		f.hooks.delete(&DeleteEvent{ID: n.ID, Kind: p.Kind(), Removed: removed, Err: err})
	}()

	if m == nil {
		return fmt.Errorf("delete %s: %w", n.ID, domain.ErrNodeNotFound)
	}
	if err := m.CheckWritable(); err != nil {
		return fmt.Errorf("delete %s: %w", n.ID, err)
	}
	if n.Parent() == nil {
		return fmt.Errorf("delete %s: %w", n.ID, domain.ErrNotDeletable)
	}
	if err := f.checkConceptsInUse(n); err != nil {
		return err
	}

	f.logger.Debug("deleting node", "id", n.ID, "kind", p.Kind())
	if err := p.cascade(); err != nil {
		return fmt.Errorf("delete %s: %w", n.ID, err)
	}
	return nil
}

// checkConceptsInUse fails when a relationship outside n's subtree still
// connects to a concept inside it.
func (f *Factory) checkConceptsInUse(n *domain.Node) error {
	m := n.Model()
	check := func(c *domain.Node) error {
		if !f.registry.Classify(c).IsConcept() {
			return nil
		}
		for _, r := range m.ReferencesTo(c) {
			if f.registry.Classify(r) != domain.CategoryRelationship || n.Contains(r) {
				continue
			}
			if r.Source == c || r.Target == c {
				return fmt.Errorf("delete %s: %s is used by %s: %w", n.ID, c.ID, r.ID, domain.ErrConceptInUse)
			}
		}
		return nil
	}

	if err := check(n); err != nil {
		return err
	}
	var err error
	n.Walk(func(c *domain.Node) bool {
		err = check(c)
		return err == nil
	})
	return err
}

// removeSubtree deletes the diagram components that draw or reference a node
// of the subtree, then detaches the subtree. Connections between removed
// objects go with them through the model's integrity rule.
func (b *base) removeSubtree() error {
	m := b.node.Model()
	subtree := append([]*domain.Node{b.node}, descendants(b.node)...)

	for _, n := range subtree {
		for _, ref := range m.ReferencesTo(n) {
			if ref.Concept != n && ref.Ref != n {
				continue
			}
			if b.node.Contains(ref) || !b.f.registry.Classify(ref).IsDiagramComponent() {
				continue
			}
			b.f.logger.Debug("removing diagram component", "of", n.ID, "component", ref.ID)
			if err := b.detach(ref); err != nil {
				return err
			}
		}
	}
	return b.detach(b.node)
}

func descendants(n *domain.Node) []*domain.Node {
	var out []*domain.Node
	n.Walk(func(c *domain.Node) bool {
		out = append(out, c)
		return true
	})
	return out
}
