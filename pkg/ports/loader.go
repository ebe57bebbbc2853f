package ports

import (
	"context"

	"github.com/aretw0/archiscript/pkg/domain"
)

// ModelLoader defines how the engine retrieves a model.
// This allows the source (YAML file, Loam directory, memory) to be decoupled.
type ModelLoader interface {
	// Load returns the flat record form of the model. Every call returns an
	// independent copy; the engine assembles it into a linked domain.Model.
	Load(ctx context.Context) (*domain.ModelRecord, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel receiving the id of every changed document.
	// The channel closes when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
