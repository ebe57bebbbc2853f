package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/aretw0/archiscript/pkg/proxy"
)

func newAttrCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attr",
		Short: "Read or change node attributes",
	}
	cmd.AddCommand(newAttrGetCmd(flags), newAttrSetCmd(flags))
	return cmd
}

func newAttrGetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id> <key>",
		Short: "Print an attribute value as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := lookup(s, args[0])
			if err != nil {
				return err
			}
			data, err := json.Marshal(p.Attr(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newAttrSetCmd(flags *globalFlags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "set <id> <key> <value>",
		Short: "Change an attribute and save the model",
		Long: `Sets an attribute. Numbers and booleans are parsed, anything else is kept
as a string. An empty value clears the attribute.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := lookup(s, args[0])
			if err != nil {
				return err
			}
			if err := p.SetAttr(args[1], parseValue(args[2])); err != nil {
				return err
			}
			return persist(cmd.Context(), s, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Save to this file or directory instead of the model")
	return cmd
}

func lookup(s *session, id string) (proxy.Proxy, error) {
	p := s.Get(id)
	if p.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrNodeNotFound)
	}
	return p, nil
}

// parseValue reads numbers and booleans as YAML scalars and keeps every
// other input as the raw string.
func parseValue(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err == nil {
		switch v.(type) {
		case bool, int, float64:
			return v
		}
	}
	return raw
}
