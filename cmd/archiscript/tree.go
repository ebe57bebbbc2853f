package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/aretw0/archiscript/pkg/proxy"
)

func newTreeCmd(flags *globalFlags) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "tree [id]",
		Short: "Print the containment tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			start := s.Root()
			if len(args) == 1 {
				start = s.Get(args[0])
				if start.IsEmpty() {
					return fmt.Errorf("%s: %w", args[0], domain.ErrNodeNotFound)
				}
			}
			printTree(cmd.OutOrStdout(), start, 0, depth)
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 0, "Maximum depth to print (0 means unlimited)")
	return cmd
}

func printTree(w io.Writer, p proxy.Proxy, level, maxDepth int) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", level), treeLabel(p))
	if maxDepth > 0 && level+1 >= maxDepth {
		return
	}
	for _, child := range p.Children().All() {
		printTree(w, child, level+1, maxDepth)
	}
}

func treeLabel(p proxy.Proxy) string {
	label := p.Type()
	if name := p.Name(); name != "" {
		label = name + " (" + p.Type() + ")"
	}
	if c := p.ReferencedConcept(); !c.IsEmpty() && !c.Equal(p) {
		label += " -> " + c.ID()
	}
	return fmt.Sprintf("%s [%s]", label, p.ID())
}
