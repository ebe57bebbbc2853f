package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/aretw0/archiscript/pkg/proxy"
)

// NewRenderer returns a function that renders markdown using glamour,
// wrapped to the terminal width. When stdout is not a terminal the markdown
// is returned unchanged so pipes get plain text.
func NewRenderer() func(string) (string, error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	width := 100
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		width = w
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// SummaryTable formats summaries as a markdown table.
func SummaryTable(title string, nodes []proxy.Summary) string {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "## %s\n\n", title)
	}
	if len(nodes) == 0 {
		sb.WriteString("_no nodes_\n")
		return sb.String()
	}

	sb.WriteString("| id | kind | type | name | concept |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, n := range nodes {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			cell(n.ID), cell(n.Kind), cell(n.Type), cell(n.Name), cell(n.Concept))
	}
	return sb.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
