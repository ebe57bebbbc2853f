package domain

// NodeRecord is the flat, serializable form of a Node. Structure and cross
// references are expressed as ids so records can come from YAML documents,
// document stores or code.
//
// Children nest records under this one; a nested record without Parent
// belongs to the enclosing record.
type NodeRecord struct {
	ID            string         `json:"id" yaml:"id" mapstructure:"id"`
	Type          string         `json:"type" yaml:"type" mapstructure:"type"`
	Name          string         `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Documentation string         `json:"documentation,omitempty" yaml:"documentation,omitempty" mapstructure:"documentation"`
	Parent        string         `json:"parent,omitempty" yaml:"parent,omitempty" mapstructure:"parent"`
	Source        string         `json:"source,omitempty" yaml:"source,omitempty" mapstructure:"source"`
	Target        string         `json:"target,omitempty" yaml:"target,omitempty" mapstructure:"target"`
	Concept       string         `json:"concept,omitempty" yaml:"concept,omitempty" mapstructure:"concept"`
	Ref           string         `json:"ref,omitempty" yaml:"ref,omitempty" mapstructure:"ref"`
	Order         int            `json:"order,omitempty" yaml:"order,omitempty" mapstructure:"order"`
	Attrs         map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty" mapstructure:"attrs"`
	Children      []NodeRecord   `json:"children,omitempty" yaml:"children,omitempty" mapstructure:"children"`
}

// ModelRecord is the serializable form of a whole Model.
// Records without Parent hang off the model root.
type ModelRecord struct {
	ID    string       `json:"id" yaml:"id" mapstructure:"id"`
	Name  string       `json:"name" yaml:"name" mapstructure:"name"`
	Nodes []NodeRecord `json:"nodes" yaml:"nodes" mapstructure:"nodes"`
}
