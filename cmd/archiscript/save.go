package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"

	loamAdapter "github.com/aretw0/archiscript/pkg/adapters/loam"
	"github.com/aretw0/archiscript/pkg/adapters/yamlfile"
	"github.com/aretw0/archiscript/pkg/domain"
)

func isModelFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// writeModel stores m at target: a model file for .yaml, .yml and .json
// targets, otherwise a directory with one Markdown document per node.
func writeModel(ctx context.Context, target string, m *domain.Model, rec *domain.ModelRecord) error {
	if isModelFile(target) {
		return yamlfile.Write(target, rec)
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	// No versioning: plain file generation.
	repo, err := loam.Init(target, loam.WithVersioning(false))
	if err != nil {
		return fmt.Errorf("failed to initialize loam: %w", err)
	}
	return loamAdapter.Export(ctx, repo, m)
}

// persist writes the session model back after a mutation. Directory models
// are never rewritten in place because removed nodes would leave stale
// documents behind; they need an explicit --out.
func persist(ctx context.Context, s *session, out string) error {
	target, err := saveTarget(s, out)
	if err != nil {
		return err
	}
	if err := writeModel(ctx, target, s.Model(), s.Record()); err != nil {
		return err
	}
	s.logger.Info("model saved", "path", target)
	return nil
}

func saveTarget(s *session, out string) (string, error) {
	if out != "" {
		return out, nil
	}
	if !isModelFile(s.path) {
		return "", fmt.Errorf("%s is a node directory: pass --out to save the changes", s.path)
	}
	return s.path, nil
}

// saveOnExit writes back what API clients changed once a server stops. Read-only
// models are left alone.
func saveOnExit(ctx context.Context, s *session, save bool, out string) error {
	if !save {
		return nil
	}
	if s.ReadOnly() {
		s.logger.Info("model is read-only, nothing to save")
		return nil
	}
	return persist(ctx, s, out)
}
