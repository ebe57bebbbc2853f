package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/archiscript/pkg/proxy"
)

// GraphOverlay marks nodes to emphasize, e.g. the result of a Find.
type GraphOverlay struct {
	Highlighted []string
}

// GenerateMermaid produces a Mermaid flowchart for one diagram.
// Groups and other objects with nested objects become subgraphs, diagram
// references are drawn as [[subroutines]], notes as [/parallelograms/] and
// everything else as [rectangles]. Connections that draw a relationship are
// labelled with its type; plain connections are dotted.
// FILL_COLOR overrides become style lines.
func GenerateMermaid(view proxy.Proxy, overlay *GraphOverlay) (string, error) {
	if view == nil || view.Kind() != proxy.KindDiagram {
		id := ""
		if view != nil {
			id = view.ID()
		}
		return "", fmt.Errorf("graph: %q is not a diagram", id)
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var connections []proxy.Proxy
	var styles []string
	for _, c := range view.Children().All() {
		if c.Kind() == proxy.KindDiagramConnection {
			connections = append(connections, c)
			continue
		}
		writeObject(&sb, c, 1, &styles)
	}

	for _, c := range connections {
		from, to := sanitizeMermaidID(c.Source().ID()), sanitizeMermaidID(c.Target().ID())
		if from == "" || to == "" {
			continue
		}
		arrow := "-.->"
		if rel := c.ReferencedConcept(); !rel.Equal(c) {
			arrow = fmt.Sprintf("-- \"%s\" -->", strings.TrimSuffix(rel.Type(), "Relationship"))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", from, arrow, to)
	}

	for _, s := range styles {
		sb.WriteString(s)
	}

	if overlay != nil && len(overlay.Highlighted) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) so the highlight reads on light and dark themes.
		sb.WriteString("    classDef highlighted fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		seen := make(map[string]bool)
		for _, id := range overlay.Highlighted {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s highlighted;\n", safeID)
			}
		}
	}

	return sb.String(), nil
}

func writeObject(sb *strings.Builder, p proxy.Proxy, depth int, styles *[]string) {
	indent := strings.Repeat("    ", depth)
	safeID := sanitizeMermaidID(p.ID())
	label := labelOf(p)

	nested := p.Children()
	if nested.Len() > 0 || p.Type() == "DiagramModelGroup" {
		fmt.Fprintf(sb, "%ssubgraph %s[\"%s\"]\n", indent, safeID, label)
		for _, c := range nested.All() {
			writeObject(sb, c, depth+1, styles)
		}
		fmt.Fprintf(sb, "%send\n", indent)
	} else {
		opener, closer := "[", "]"
		switch {
		case p.Kind() == proxy.KindDiagramReference:
			opener, closer = "[[", "]]"
		case p.Type() == "DiagramModelNote":
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(sb, "%s%s%s\"%s\"%s\n", indent, safeID, opener, label, closer)
	}

	if fill, ok := p.Attr("FILL_COLOR").(string); ok {
		*styles = append(*styles, fmt.Sprintf("    style %s fill:%s\n", safeID, fill))
	}
}

// labelOf prefers the drawn concept name, then the object name, then the
// first line of a note, then the type.
func labelOf(p proxy.Proxy) string {
	label := p.ReferencedConcept().Name()
	if label == "" {
		label = p.Name()
	}
	if label == "" {
		label, _, _ = strings.Cut(p.Documentation(), "\n")
	}
	if label == "" {
		label = p.Type()
	}
	return strings.ReplaceAll(label, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
