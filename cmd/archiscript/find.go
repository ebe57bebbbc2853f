package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/archiscript/internal/presentation/tui"
	"github.com/aretw0/archiscript/pkg/domain"
)

func newFindCmd(flags *globalFlags) *cobra.Command {
	var (
		scope  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "find [selector...]",
		Short: "List the nodes matching selectors",
		Long: `Runs selectors over the model (or the subtree of --scope) and lists the
matches. Several selectors are combined into one result.

Examples:
  archiscript find -m model.yaml BusinessActor
  archiscript find -m model.yaml "elements" --json
  archiscript find -m model.yaml --scope 4056 "*"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			from := s.Root()
			if scope != "" {
				from = s.Get(scope)
				if from.IsEmpty() {
					return fmt.Errorf("scope %s: %w", scope, domain.ErrNodeNotFound)
				}
			}
			found := from.Find(args...).Summaries()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(found)
			}

			title := fmt.Sprintf("%d match(es) for %q", len(found), strings.Join(args, ", "))
			render := tui.NewRenderer()
			out, err := render(tui.SummaryTable(title, found))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "Id of the node to search from")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the matches as JSON")
	return cmd
}
