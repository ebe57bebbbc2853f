package loam

// NodeMetadata is the front matter of one model node document.
// The document body becomes the node documentation.
type NodeMetadata struct {
	ID      string         `json:"id" yaml:"id" mapstructure:"id"`
	Type    string         `json:"type" yaml:"type" mapstructure:"type"`
	Name    string         `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Parent  string         `json:"parent,omitempty" yaml:"parent,omitempty" mapstructure:"parent"`
	Order   int            `json:"order,omitempty" yaml:"order,omitempty" mapstructure:"order"`
	Source  string         `json:"source,omitempty" yaml:"source,omitempty" mapstructure:"source"`
	Target  string         `json:"target,omitempty" yaml:"target,omitempty" mapstructure:"target"`
	Concept string         `json:"concept,omitempty" yaml:"concept,omitempty" mapstructure:"concept"`
	Ref     string         `json:"ref,omitempty" yaml:"ref,omitempty" mapstructure:"ref"`
	Attrs   map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty" mapstructure:"attrs"`
}
