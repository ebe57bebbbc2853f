package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/archiscript/internal/presentation/graph"
)

func newGraphCmd(flags *globalFlags) *cobra.Command {
	var highlight []string

	cmd := &cobra.Command{
		Use:   "graph <diagram-id>",
		Short: "Export a diagram as Mermaid",
		Long:  `Renders one diagram of the model as a Mermaid flowchart (graph LR).`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			view, err := lookup(s, args[0])
			if err != nil {
				return err
			}
			output, err := graph.GenerateMermaid(view, &graph.GraphOverlay{Highlighted: highlight})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&highlight, "highlight", nil, "Diagram component ids to highlight")
	return cmd
}
