package proxy

// Summary is the flat, serializable view of a proxy used by the HTTP,
// MCP and CLI surfaces. Cross references are given as ids.
type Summary struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Type          string `json:"type"`
	Name          string `json:"name,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	Parent        string `json:"parent,omitempty"`
	Source        string `json:"source,omitempty"`
	Target        string `json:"target,omitempty"`
	// Concept is the id ReferencedConcept resolves to, when that is not
	// the node itself.
	Concept string `json:"concept,omitempty"`
}

// Summarize flattens p. The empty proxy yields the zero Summary.
func Summarize(p Proxy) Summary {
	if p == nil || p.IsEmpty() {
		return Summary{}
	}
	s := Summary{
		ID:            p.ID(),
		Kind:          p.Kind().String(),
		Type:          p.Type(),
		Name:          p.Name(),
		Documentation: p.Documentation(),
		Parent:        p.Parent().ID(),
		Source:        p.Source().ID(),
		Target:        p.Target().ID(),
	}
	if c := p.ReferencedConcept(); !c.Equal(p) {
		s.Concept = c.ID()
	}
	return s
}

// Summaries flattens every member of c.
func (c *Collection) Summaries() []Summary {
	out := make([]Summary, 0, c.Len())
	for _, p := range c.All() {
		out = append(out, Summarize(p))
	}
	return out
}
