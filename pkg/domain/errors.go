package domain

import "errors"

// ErrModelLocked is returned when a mutation is attempted on a read-only model.
var ErrModelLocked = errors.New("model is read-only")

// ErrConceptInUse is returned when deleting a concept that relationships still reference.
var ErrConceptInUse = errors.New("concept is referenced by relationships")

// ErrNotDeletable is returned when deleting a node that has no container (the model root).
var ErrNotDeletable = errors.New("node cannot be deleted")

// ErrNodeNotFound is returned when an id does not resolve to a node of the model.
var ErrNodeNotFound = errors.New("node not found")

// ErrDuplicateID is returned when attaching a node whose id is already used in the model.
var ErrDuplicateID = errors.New("duplicate node id")

// ErrInvalidConcept is returned when a diagram object is asked to draw something
// that is not an element, or when the object cannot draw a concept at all.
var ErrInvalidConcept = errors.New("invalid concept for diagram object")
