package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/archiscript"
	"github.com/aretw0/archiscript/internal/config"
	"github.com/aretw0/archiscript/internal/logging"
	"github.com/aretw0/archiscript/internal/presentation/tui"
	"github.com/aretw0/archiscript/pkg/adapters/redis"
	"github.com/aretw0/archiscript/pkg/observability"
	"github.com/aretw0/archiscript/pkg/proxy"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	model    string
	config   string
	readOnly bool
	logLevel string
	redis    string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "archiscript",
		Short: "Query and edit ArchiMate models",
		Long: `archiscript loads an ArchiMate model (a YAML/JSON file or a directory of
Markdown node documents) and lets you query it with CSS-like selectors,
inspect and change attributes, delete nodes with their dependents, render
diagrams and expose the model over HTTP or MCP.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			tui.PrintBanner(cmd.OutOrStdout(), strings.TrimSpace(archiscript.Version))
			_ = cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.model, "model", "m", "", "Model file (.yaml, .yml, .json) or node directory")
	pf.StringVar(&flags.config, "config", config.DefaultPath, "Configuration file")
	pf.BoolVar(&flags.readOnly, "read-only", false, "Open the model read-only")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.redis, "redis", "", "Redis address used to lock the model across processes")

	rootCmd.AddCommand(
		newFindCmd(flags),
		newTreeCmd(flags),
		newAttrCmd(flags),
		newDeleteCmd(flags),
		newGraphCmd(flags),
		newExportCmd(flags),
		newServeCmd(flags),
		newMCPCmd(flags),
		newVersionCmd(),
	)
	return rootCmd
}

// session is an opened model plus what is needed to close it.
type session struct {
	*archiscript.Engine
	cfg    config.Config
	logger *slog.Logger
	path   string
	close  func()
}

func (s *session) Close() {
	if err := s.Engine.Close(); err != nil {
		s.logger.Warn("failed to release model lock", "err", err)
	}
	if s.close != nil {
		s.close()
	}
}

// resolveConfig reads the config file and applies flag overrides.
func resolveConfig(cmd *cobra.Command, flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load(flags.config, cmd.Flags().Changed("config"))
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = flags.model
	}
	if cmd.Flags().Changed("read-only") {
		cfg.ReadOnly = flags.readOnly
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if cmd.Flags().Changed("redis") {
		cfg.Redis.Addr = flags.redis
	}
	if cfg.Model == "" {
		return cfg, fmt.Errorf("no model given: use --model or set model in %s", flags.config)
	}
	return cfg, nil
}

// openSession loads the model named by flags and config. Extra hooks are
// merged with the log hooks every command gets.
func openSession(ctx context.Context, cmd *cobra.Command, flags *globalFlags, hooks ...proxy.Hooks) (*session, error) {
	cfg, err := resolveConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)

	merged := observability.LogHooks(logger)
	for _, h := range hooks {
		merged = merged.Merge(h)
	}
	opts := []archiscript.Option{
		archiscript.WithLogger(logger),
		archiscript.WithReadOnly(cfg.ReadOnly),
		archiscript.WithHooks(merged),
	}

	s := &session{cfg: cfg, logger: logger, path: cfg.Model}
	if cfg.Redis.Addr != "" {
		locker, err := redis.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		s.close = func() { _ = locker.Close() }
		opts = append(opts, archiscript.WithLocker(locker, cfg.Redis.TTL, cfg.Redis.Timeout))
	}

	eng, err := archiscript.Open(ctx, cfg.Model, opts...)
	if err != nil {
		if s.close != nil {
			s.close()
		}
		return nil, err
	}
	s.Engine = eng
	return s, nil
}
