package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/archiscript/pkg/adapters/mcp"
)

func newMCPCmd(flags *globalFlags) *cobra.Command {
	var (
		transport string
		port      int
		save      bool
		out       string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the model to MCP clients through the find_nodes, get_attr, set_attr
and delete_node tools and the archiscript://model resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.

set_attr and delete_node change the model in memory. Pass --save to write the
changes back when the server stops (node directories also need --out).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()
			if save {
				if _, err := saveTarget(s, out); err != nil {
					return err
				}
			}

			srv := mcp.NewServer(s.Engine, mcp.WithLogger(s.logger))

			switch transport {
			case "stdio":
				// Logs go to stderr; stdout carries JSON-RPC.
				s.logger.Info("starting MCP server (stdio)")
				// ServeStdio stops on SIGINT and SIGTERM with context.Canceled.
				if err := srv.ServeStdio(); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return saveOnExit(cmd.Context(), s, save, out)
			case "sse":
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				s.logger.Info("MCP server stopped")
				return saveOnExit(cmd.Context(), s, save, out)
			default:
				return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
			}
		},
	}
	cmd.Flags().StringVarP(&transport, "transport", "t", "stdio", "Transport: stdio or sse")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port for the sse transport")
	cmd.Flags().BoolVar(&save, "save", false, "Save tool changes to the model when the server stops")
	cmd.Flags().StringVarP(&out, "out", "o", "", "With --save, write to this file or directory instead of the model")
	return cmd
}
