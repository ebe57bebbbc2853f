package domain

import (
	"maps"
	"slices"
)

// Category groups declared type names into the node kinds the query layer knows about.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryModel
	CategoryFolder
	CategoryElement
	CategoryRelationship
	CategoryDiagram
	CategoryDiagramObject
	CategoryDiagramReference
	CategoryDiagramConnection
)

var categoryNames = map[Category]string{
	CategoryUnknown:           "unknown",
	CategoryModel:             "model",
	CategoryFolder:            "folder",
	CategoryElement:           "element",
	CategoryRelationship:      "relationship",
	CategoryDiagram:           "diagram",
	CategoryDiagramObject:     "diagram-object",
	CategoryDiagramReference:  "diagram-reference",
	CategoryDiagramConnection: "diagram-connection",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

// IsConcept reports whether c is an element or a relationship.
func (c Category) IsConcept() bool {
	return c == CategoryElement || c == CategoryRelationship
}

// IsDiagramComponent reports whether c lives inside a diagram.
func (c Category) IsDiagramComponent() bool {
	return c == CategoryDiagramObject || c == CategoryDiagramReference || c == CategoryDiagramConnection
}

// TypeRegistry maps declared type names to categories.
// It is an explicit value handed to whoever needs type metadata; there is no
// package-level instance.
type TypeRegistry struct {
	types map[string]Category
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]Category)}
}

// Register adds type names under a category, replacing earlier registrations.
func (r *TypeRegistry) Register(c Category, names ...string) *TypeRegistry {
	for _, name := range names {
		r.types[name] = c
	}
	return r
}

// Lookup returns the category of a declared type name.
func (r *TypeRegistry) Lookup(name string) (Category, bool) {
	c, ok := r.types[name]
	return c, ok
}

// Known reports whether name is a registered type name.
func (r *TypeRegistry) Known(name string) bool {
	_, ok := r.types[name]
	return ok
}

// Names returns the registered type names of a category, sorted.
// CategoryUnknown returns every registered name.
func (r *TypeRegistry) Names(c Category) []string {
	var names []string
	for name, cat := range r.types {
		if c == CategoryUnknown || cat == c {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Classify returns the category of n. Unregistered types fall back on the
// node's references: a node pointing at a diagram through Ref is a diagram
// reference; anything else is unknown.
func (r *TypeRegistry) Classify(n *Node) Category {
	if n == nil {
		return CategoryUnknown
	}
	if c, ok := r.types[n.Type]; ok {
		return c
	}
	if n.Ref != nil {
		return CategoryDiagramReference
	}
	return CategoryUnknown
}

// Clone returns an independent copy of the registry.
func (r *TypeRegistry) Clone() *TypeRegistry {
	return &TypeRegistry{types: maps.Clone(r.types)}
}

// DefaultRegistry returns a fresh registry holding the ArchiMate 3.1 type names.
func DefaultRegistry() *TypeRegistry {
	return NewTypeRegistry().
		Register(CategoryModel, TypeModel).
		Register(CategoryFolder, "Folder").
		Register(CategoryElement,
			// Strategy
			"Resource", "Capability", "ValueStream", "CourseOfAction",
			// Business
			"BusinessActor", "BusinessRole", "BusinessCollaboration", "BusinessInterface",
			"BusinessProcess", "BusinessFunction", "BusinessInteraction", "BusinessEvent",
			"BusinessService", "BusinessObject", "Contract", "Representation", "Product",
			// Application
			"ApplicationComponent", "ApplicationCollaboration", "ApplicationInterface",
			"ApplicationFunction", "ApplicationInteraction", "ApplicationProcess",
			"ApplicationEvent", "ApplicationService", "DataObject",
			// Technology and physical
			"Node", "Device", "SystemSoftware", "TechnologyCollaboration", "TechnologyInterface",
			"Path", "CommunicationNetwork", "TechnologyFunction", "TechnologyProcess",
			"TechnologyInteraction", "TechnologyEvent", "TechnologyService", "Artifact",
			"Equipment", "Facility", "DistributionNetwork", "Material",
			// Motivation
			"Stakeholder", "Driver", "Assessment", "Goal", "Outcome", "Principle",
			"Requirement", "Constraint", "Meaning", "Value",
			// Implementation and migration
			"WorkPackage", "Deliverable", "ImplementationEvent", "Plateau", "Gap",
			// Other
			"Location", "Grouping", "Junction",
		).
		Register(CategoryRelationship,
			"AccessRelationship", "AggregationRelationship", "AssignmentRelationship",
			"AssociationRelationship", "CompositionRelationship", "FlowRelationship",
			"InfluenceRelationship", "RealizationRelationship", "ServingRelationship",
			"SpecializationRelationship", "TriggeringRelationship",
		).
		Register(CategoryDiagram, "ArchimateDiagramModel", "SketchModel", "CanvasModel").
		Register(CategoryDiagramObject,
			"DiagramModelArchimateObject", "DiagramModelGroup", "DiagramModelNote",
			"DiagramModelImage", "SketchModelSticky", "SketchModelActor",
			"CanvasModelBlock", "CanvasModelSticky", "CanvasModelImage",
		).
		Register(CategoryDiagramReference, "DiagramModelReference").
		Register(CategoryDiagramConnection,
			"DiagramModelArchimateConnection", "DiagramModelConnection", "CanvasModelConnection",
		)
}
