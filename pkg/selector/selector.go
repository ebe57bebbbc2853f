// Package selector compiles the selector query language used to filter model nodes.
//
// Grammar, first matching rule wins:
//
//	*                       every concept, diagram, folder and diagram component
//	concepts                elements and relationships
//	elements                elements
//	relations|relationships relationships
//	views                   diagrams
//	#<id>                   the node with that id (single result)
//	.<name>                 concepts, diagrams and folders with that name
//	<Type>.<Name>           nodes of that declared type with that name
//	<Type>                  nodes of a type known to the registry
//
// Name and type rules look through diagram components to what they stand for
// (domain.Node.Resolve), so ".Customer" also matches every diagram object
// drawing the Customer element. Anything else does not compile.
package selector

import (
	"strings"

	"github.com/aretw0/archiscript/pkg/domain"
)

// Filter is a compiled selector.
type Filter interface {
	// Accept reports whether n matches.
	Accept(n *domain.Node) bool
	// Single reports whether at most one node can match, letting a search stop early.
	Single() bool
}

type filterFunc struct {
	accept func(*domain.Node) bool
	single bool
}

func (f filterFunc) Accept(n *domain.Node) bool {
	return n != nil && f.accept(n)
}

func (f filterFunc) Single() bool {
	return f.single
}

// Compiler turns selector strings into filters using an explicit type registry.
type Compiler struct {
	registry *domain.TypeRegistry
}

// NewCompiler creates a compiler. A nil registry selects domain.DefaultRegistry.
func NewCompiler(registry *domain.TypeRegistry) *Compiler {
	if registry == nil {
		registry = domain.DefaultRegistry()
	}
	return &Compiler{registry: registry}
}

// Compile returns the filter for selector, or nil when the selector is empty
// or does not compile. Callers treat nil as matching nothing.
func (c *Compiler) Compile(selector string) Filter {
	switch {
	case selector == "":
		return nil

	case selector == "*":
		return c.categories(func(cat domain.Category) bool {
			return cat.IsConcept() || cat == domain.CategoryDiagram ||
				cat == domain.CategoryFolder || cat.IsDiagramComponent()
		})

	case selector == "concepts":
		return c.categories(domain.Category.IsConcept)

	case selector == "elements":
		return c.categories(is(domain.CategoryElement))

	case selector == "relations" || selector == "relationships":
		return c.categories(is(domain.CategoryRelationship))

	case selector == "views":
		return c.categories(is(domain.CategoryDiagram))

	case strings.HasPrefix(selector, "#") && len(selector) > 1:
		id := selector[1:]
		return filterFunc{
			accept: func(n *domain.Node) bool { return n.ID == id },
			single: true,
		}

	case strings.HasPrefix(selector, ".") && len(selector) > 1:
		name := selector[1:]
		return c.resolved(func(n *domain.Node) bool { return n.Name == name })

	case strings.Contains(selector, "."):
		typ, name, _ := strings.Cut(selector, ".")
		if typ == "" || name == "" || strings.Contains(name, ".") {
			return nil
		}
		return c.resolved(func(n *domain.Node) bool { return n.Type == typ && n.Name == name })

	case c.registry.Known(selector):
		return c.resolved(func(n *domain.Node) bool { return n.Type == selector })
	}

	return nil
}

func is(want domain.Category) func(domain.Category) bool {
	return func(cat domain.Category) bool { return cat == want }
}

func (c *Compiler) categories(match func(domain.Category) bool) Filter {
	return filterFunc{accept: func(n *domain.Node) bool {
		return match(c.registry.Classify(n))
	}}
}

// resolved applies match to what n stands for, restricted to concepts,
// diagrams and folders.
func (c *Compiler) resolved(match func(*domain.Node) bool) Filter {
	return filterFunc{accept: func(n *domain.Node) bool {
		target := n.Resolve()
		cat := c.registry.Classify(target)
		if !cat.IsConcept() && cat != domain.CategoryDiagram && cat != domain.CategoryFolder {
			return false
		}
		return match(target)
	}}
}
