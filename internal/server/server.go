// Package server hosts the stateful execution service over HTTP. One process
// serves one backend; the differential runner drives several such backends
// through the identical API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-hclog"

	"github.com/GeorgePearse/TranspileAI/internal/api"
	"github.com/GeorgePearse/TranspileAI/internal/contracts"
)

// Dependencies holds the required collaborators for an APIServer.
type Dependencies struct {
	// Logger for API server operations.
	Logger hclog.Logger

	// Executor is the stateful execution service exposed by this server.
	Executor contracts.Executor

	// Addr specifies the network address to bind.
	Addr string
}

// Validate ensures all required dependencies are present and usable.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	if d.Executor == nil || reflect.ValueOf(d.Executor).IsNil() {
		return fmt.Errorf("executor cannot be nil")
	}
	if err := validAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid address '%s': %w", d.Addr, err)
	}
	return nil
}

// APIServer manages the HTTP API for one backend.
// NewAPIServer should be used to create instances of APIServer.
type APIServer struct {
	logger          hclog.Logger
	executor        contracts.Executor
	addr            string
	cors            CORSConfig
	shutdownTimeout time.Duration
}

// NewAPIServer creates a new API server with the provided dependencies and options.
// Applies default options first, then user-provided options to ensure all fields have valid values.
func NewAPIServer(deps Dependencies, opt ...Option) (*APIServer, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for API server: %w", err)
	}

	// Ensure we always start with defaults and apply user options on top.
	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid API options: %w", err)
	}

	return &APIServer{
		logger:          deps.Logger.Named("api"),
		executor:        deps.Executor,
		addr:            deps.Addr,
		cors:            opts.CORS,
		shutdownTimeout: opts.ShutdownTimeout,
	}, nil
}

// Start starts the API server and blocks until the context is canceled or an error occurs.
func (a *APIServer) Start(ctx context.Context) error {
	// Create router.
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	// Add CORS middleware if enabled.
	if a.cors.Enabled {
		a.applyCORS(mux)
	}

	config := huma.DefaultConfig("transpiletest backend", api.APIVersion)
	router := humachi.New(mux, config)

	apiPathPrefix, err := api.RegisterRoutes(router, a.executor)
	if err != nil {
		return fmt.Errorf("failed to register API routes: %w", err)
	}

	srv := &http.Server{
		Addr:    a.addr,
		Handler: mux,
	}
	errCh := make(chan error, 1)

	// Start the API.
	go func() {
		a.logger.Info("Starting API server", "address", a.addr, "prefix", apiPathPrefix, "runtime", a.executor.Runtime())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Handle graceful shutdown.
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		a.logger.Info("Shutting down API server...")
		_ = srv.Shutdown(shutdownCtx)
		a.logger.Info("Shutdown complete")
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// applyCORS applies CORS middleware to the router based on the configured options.
func (a *APIServer) applyCORS(mux *chi.Mux) {
	a.logger.Info("Enabling CORS", "origins", a.cors.AllowOrigins)

	corsOptions := cors.Options{
		AllowedOrigins: a.cors.AllowOrigins,
		AllowedMethods: a.cors.AllowMethods,
		AllowedHeaders: a.cors.AllowedHeaders,
	}

	// Handle wildcard origins properly.
	for i, origin := range corsOptions.AllowedOrigins {
		if origin == "*" {
			corsOptions.AllowedOrigins = []string{"*"}
			break
		}
		corsOptions.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	mux.Use(cors.Handler(corsOptions))
}

// validAddr reports whether addr is a usable host:port bind address.
func validAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if host == "" && port == "" {
		return fmt.Errorf("host and port cannot both be empty")
	}
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	return nil
}
