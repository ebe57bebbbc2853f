package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	var (
		out    string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "delete <selector>...",
		Short: "Delete the matching nodes and everything that depends on them",
		Long: `Deletes every node matching the selectors. Diagrams take their objects,
connections and references with them; relationships take the connections
drawing them. A concept still used by relationships is refused.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			matches := s.Find(args...)
			if matches.IsEmpty() {
				return fmt.Errorf("no node matches %v", args)
			}
			if dryRun {
				for _, id := range matches.IDs() {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			}

			before := s.Model().Len()
			if err := matches.Delete(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d node(s)\n", before-s.Model().Len())
			return persist(cmd.Context(), s, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Save to this file or directory instead of the model")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only list the matching ids")
	return cmd
}
