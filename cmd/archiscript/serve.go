package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpAdapter "github.com/aretw0/archiscript/pkg/adapters/http"
	"github.com/aretw0/archiscript/pkg/observability"
	"github.com/aretw0/archiscript/pkg/proxy"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		addr  string
		watch bool
		save  bool
		out   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Serves the model as a JSON API over HTTP, with Prometheus metrics on /metrics
and the OpenAPI contract on /openapi.yaml.

Changes made through the API live in memory. Pass --save to write them back to
the model when the server shuts down (node directories also need --out).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.HTTP.Addr = addr
			}

			var (
				metrics *observability.Metrics
				hooks   []proxy.Hooks
			)
			if cfg.HTTP.Metrics {
				metrics = observability.NewMetrics("archiscript")
				hooks = append(hooks, metrics.Hooks())
			}

			s, err := openSession(cmd.Context(), cmd, flags, hooks...)
			if err != nil {
				return err
			}
			defer s.Close()
			if save {
				if _, err := saveTarget(s, out); err != nil {
					return err
				}
			}

			opts := []httpAdapter.Option{httpAdapter.WithLogger(s.logger)}
			if metrics != nil {
				opts = append(opts, httpAdapter.WithMetrics(metrics.Handler()))
			}
			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           httpAdapter.NewHandler(s.Engine, opts...),
				ReadHeaderTimeout: 10 * time.Second,
			}

			if watch {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				if err := watchModel(ctx, s); err != nil {
					return err
				}
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				s.logger.Info("starting archiscript server", "addr", srv.Addr, "read_only", s.ReadOnly())
				serverErrors <- srv.ListenAndServe()
			}()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(shutdown)

			select {
			case err := <-serverErrors:
				return fmt.Errorf("server error: %w", err)

			case sig := <-shutdown:
				s.logger.Info("shutting down", "signal", sig.String())

				// Give outstanding requests a deadline for completion.
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					s.logger.Warn("graceful shutdown did not complete", "err", err)
					if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return err
					}
				}
				s.logger.Info("server stopped")
				return saveOnExit(context.Background(), s, save, out)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the model when its documents change (node directories only)")
	cmd.Flags().BoolVar(&save, "save", false, "Save API changes to the model on shutdown")
	cmd.Flags().StringVarP(&out, "out", "o", "", "With --save, write to this file or directory instead of the model")
	return cmd
}

// watchModel reloads the session model on every change until ctx is done.
func watchModel(ctx context.Context, s *session) error {
	changes, err := s.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for id := range changes {
			s.logger.Debug("document changed", "id", id)
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn("reload failed, keeping the current model", "err", err)
			}
		}
	}()
	return nil
}
