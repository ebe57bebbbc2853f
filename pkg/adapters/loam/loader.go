package loam

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/archiscript/pkg/domain"
)

// Loader adapts a Loam document repository to ports.ModelLoader.
// Every document is one node; nodes name their container with `parent`.
type Loader struct {
	Repo *loam.TypedRepository[NodeMetadata]

	modelID   string
	modelName string
}

// Option configures a Loader.
type Option func(*Loader)

// WithModel sets the id and name of the model root, which has no document.
func WithModel(id, name string) Option {
	return func(l *Loader) {
		l.modelID = id
		l.modelName = name
	}
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[NodeMetadata], opts ...Option) *Loader {
	l := &Loader{Repo: repo}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load lists every document and converts it into a flat node record.
// Siblings without an explicit order are sorted by id so that the result
// does not depend on directory listing order.
func (l *Loader) Load(ctx context.Context) (*domain.ModelRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	rec := &domain.ModelRecord{ID: l.modelID, Name: l.modelName}
	for _, doc := range docs {
		meta := doc.Data
		id := trimExtension(cmp.Or(meta.ID, doc.ID))

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		rec.Nodes = append(rec.Nodes, domain.NodeRecord{
			ID:            id,
			Type:          meta.Type,
			Name:          meta.Name,
			Documentation: strings.TrimSpace(doc.Content),
			Parent:        meta.Parent,
			Order:         meta.Order,
			Source:        meta.Source,
			Target:        meta.Target,
			Concept:       meta.Concept,
			Ref:           meta.Ref,
			Attrs:         meta.Attrs,
		})
	}

	slices.SortFunc(rec.Nodes, func(a, b domain.NodeRecord) int { return strings.Compare(a.ID, b.ID) })
	return rec, nil
}

// ListNodes lists the normalized ids of all node documents.
func (l *Loader) ListNodes(ctx context.Context) ([]string, error) {
	rec, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rec.Nodes))
	for _, n := range rec.Nodes {
		ids = append(ids, n.ID)
	}
	return ids, nil
}

// trimExtension drops a document extension. Other dots are part of the id.
func trimExtension(id string) string {
	switch ext := filepath.Ext(id); ext {
	case ".md", ".json", ".yaml", ".yml":
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
