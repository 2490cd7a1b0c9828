package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GeorgePearse/TranspileAI/internal/cmd"
	"github.com/GeorgePearse/TranspileAI/internal/config"
	"github.com/GeorgePearse/TranspileAI/internal/execctx"
	"github.com/GeorgePearse/TranspileAI/internal/flags"
	"github.com/GeorgePearse/TranspileAI/internal/functions"
	"github.com/GeorgePearse/TranspileAI/internal/registry"
	"github.com/GeorgePearse/TranspileAI/internal/server"
	"github.com/GeorgePearse/TranspileAI/internal/service"
)

// ServeCmd should be used to represent the 'serve' command.
type ServeCmd struct {
	*cmd.BaseCmd
	Addr string
}

// NewServeCmd creates a newly configured (Cobra) command.
func NewServeCmd(baseCmd *cmd.BaseCmd) *cobra.Command {
	c := &ServeCmd{
		BaseCmd: baseCmd,
	}

	cobraCommand := &cobra.Command{
		Use:   "serve",
		Short: "Hosts the Go backend of the function library.",
		Long: `Hosts the Go implementation of the function library, exposing the shared
invocation API (create-context, invoke, inspect-state, destroy-context,
list-methods) for differential testing against other backends.`,
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		"",
		"Address for the backend to bind to (e.g. 'localhost:8090'). Overrides the config file.",
	)

	return cobraCommand
}

// run is configured (via NewServeCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *ServeCmd) run(_ *cobra.Command, _ []string) error {
	logger := c.Logger()

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}

	reg := registry.NewRegistry()
	if err := functions.Register(reg); err != nil {
		return fmt.Errorf("failed to build function registry: %w", err)
	}

	store, err := execctx.NewStore(logger)
	if err != nil {
		return fmt.Errorf("failed to create context store: %w", err)
	}

	svc, err := service.NewService(logger, reg, store, cfg.Server.Runtime)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	var opts []server.Option
	if len(cfg.CORS.Origins) > 0 {
		opts = append(opts, server.WithCORS(cfg.CORS.Origins))
	}

	srv, err := server.NewAPIServer(
		server.Dependencies{
			Logger:   logger,
			Executor: svc,
			Addr:     cfg.Server.Addr,
		},
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("backend server failed: %w", err)
	}

	return nil
}
