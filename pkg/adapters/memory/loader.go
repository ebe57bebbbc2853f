package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/archiscript/internal/compiler"
	"github.com/aretw0/archiscript/pkg/domain"
)

// Loader implements ports.ModelLoader over an in-memory snapshot.
// The snapshot is kept serialized so every Load hands out an independent copy.
type Loader struct {
	data []byte
}

// NewLoader creates a loader serving rec.
func NewLoader(rec *domain.ModelRecord) (*Loader, error) {
	if rec == nil {
		return nil, fmt.Errorf("nil model record")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model %s: %w", rec.ID, err)
	}
	return &Loader{data: data}, nil
}

// NewFromNodes creates a loader for a model with the default root holding nodes.
// This handles serialization automatically, improving DX for tests.
func NewFromNodes(nodes ...domain.NodeRecord) (*Loader, error) {
	return NewLoader(&domain.ModelRecord{ID: compiler.DefaultModelID, Nodes: nodes})
}

// NewFromModel creates a loader serving a snapshot of m as it is now.
func NewFromModel(m *domain.Model) (*Loader, error) {
	return NewLoader(compiler.Record(m))
}

// Load decodes a fresh copy of the snapshot.
func (l *Loader) Load(ctx context.Context) (*domain.ModelRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rec domain.ModelRecord
	if err := json.Unmarshal(l.data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode model snapshot: %w", err)
	}
	return &rec, nil
}
