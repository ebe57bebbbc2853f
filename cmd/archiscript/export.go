package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <target>",
		Short: "Write the model to a file or node directory",
		Long: `Writes the loaded model to target. A .yaml, .yml or .json target becomes a
single model document, anything else a directory with one Markdown document
(YAML front matter plus documentation) per node.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := writeModel(cmd.Context(), args[0], s.Model(), s.Record()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d node(s) to %s\n", s.Model().Len()-1, args[0])
			return nil
		},
	}
}
