// Package yamlfile loads models from a single YAML (or JSON) document.
//
// The document mirrors domain.ModelRecord:
//
//	id: archisurance
//	name: Archisurance
//	nodes:
//	  - id: business
//	    type: Folder
//	    name: Business
//	    children:
//	      - id: customer
//	        type: BusinessActor
//	        name: Customer
//	  - id: views
//	    type: Folder
//	    children:
//	      - id: overview
//	        type: ArchimateDiagramModel
//	        children:
//	          - id: o1
//	            type: DiagramModelArchimateObject
//	            concept: customer
//	            attrs: {bounds: {x: 20, y: 20, width: 120, height: 55}}
package yamlfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ModelLoader over one file.
type Loader struct {
	path string
}

// New creates a loader reading path on every Load.
func New(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load reads and decodes the file. Unknown keys are rejected so that typos
// in hand-written models surface early.
func (l *Loader) Load(ctx context.Context) (*domain.ModelRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	return Decode(data, isJSON(l.path))
}

// Decode parses a YAML or JSON model document.
func Decode(data []byte, asJSON bool) (*domain.ModelRecord, error) {
	var raw map[string]any
	if asJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse model json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse model yaml: %w", err)
		}
	}

	var rec domain.ModelRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid model document: %w", err)
	}
	return &rec, nil
}

// Write stores rec at path, as JSON when the extension is .json and YAML otherwise.
func Write(path string, rec *domain.ModelRecord) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(rec, "", "  ")
	} else {
		data, err = yaml.Marshal(rec)
	}
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
