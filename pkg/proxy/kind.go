package proxy

import "github.com/aretw0/archiscript/pkg/domain"

// Kind is the proxy variant chosen by the Factory for a node.
type Kind int

const (
	// KindNone marks the empty proxy returned for absent nodes.
	KindNone Kind = iota
	KindGeneric
	KindFolder
	KindElement
	KindRelationship
	KindDiagram
	KindDiagramObject
	KindDiagramConnection
	KindDiagramReference
)

var kindNames = [...]string{
	KindNone:              "none",
	KindGeneric:           "generic",
	KindFolder:            "folder",
	KindElement:           "element",
	KindRelationship:      "relationship",
	KindDiagram:           "diagram",
	KindDiagramObject:     "diagram-object",
	KindDiagramConnection: "diagram-connection",
	KindDiagramReference:  "diagram-reference",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsConcept reports whether k wraps an element or a relationship.
func (k Kind) IsConcept() bool {
	return k == KindElement || k == KindRelationship
}

// kindOf applies the dispatch precedence to a node category:
// diagram reference, diagram connection, diagram object, diagram,
// relationship, element, folder, then generic.
func kindOf(c domain.Category) Kind {
	switch c {
	case domain.CategoryDiagramReference:
		return KindDiagramReference
	case domain.CategoryDiagramConnection:
		return KindDiagramConnection
	case domain.CategoryDiagramObject:
		return KindDiagramObject
	case domain.CategoryDiagram:
		return KindDiagram
	case domain.CategoryRelationship:
		return KindRelationship
	case domain.CategoryElement:
		return KindElement
	case domain.CategoryFolder:
		return KindFolder
	default:
		return KindGeneric
	}
}
