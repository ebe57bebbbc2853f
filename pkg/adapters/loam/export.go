package loam

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/loam/pkg/core"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/archiscript/internal/compiler"
	"github.com/aretw0/archiscript/pkg/domain"
)

// Export writes every node of m as a Markdown document with YAML front
// matter. Sibling positions are stored in `order` so that Load rebuilds the
// same child order.
func Export(ctx context.Context, repo core.Repository, m *domain.Model) error {
	rec := compiler.Record(m)
	positions := make(map[string]int)

	for _, r := range rec.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		meta := NodeMetadata{
			ID:      r.ID,
			Type:    r.Type,
			Name:    r.Name,
			Parent:  r.Parent,
			Order:   positions[r.Parent],
			Source:  r.Source,
			Target:  r.Target,
			Concept: r.Concept,
			Ref:     r.Ref,
			Attrs:   r.Attrs,
		}
		positions[r.Parent]++

		doc, err := document(meta, r.Documentation)
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, doc); err != nil {
			return fmt.Errorf("loam save failed for %s: %w", r.ID, err)
		}
	}
	return nil
}

func document(meta NodeMetadata, body string) (core.Document, error) {
	front, err := yaml.Marshal(meta)
	if err != nil {
		return core.Document{}, fmt.Errorf("front matter for %s: %w", meta.ID, err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(front)
	sb.WriteString("---\n")
	if body != "" {
		sb.WriteString(body)
		sb.WriteString("\n")
	}
	return core.Document{ID: meta.ID + ".md", Content: sb.String()}, nil
}
