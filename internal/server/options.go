package server

import (
	"fmt"
	"net/http"
	"time"
)

// Options contains optional configuration for the API server.
// NewOptions should be used to create instances of Options.
type Options struct {
	// CORS configuration for cross-origin requests.
	CORS CORSConfig

	// ShutdownTimeout specifies how long to wait for graceful shutdown.
	ShutdownTimeout time.Duration
}

// CORSConfig defines Cross-Origin Resource Sharing settings for the API server.
type CORSConfig struct {
	// Enabled determines whether CORS headers are added to responses.
	Enabled bool

	// AllowOrigins specifies which origins can access the API.
	// Use ["*"] to allow all origins (not recommended for production).
	AllowOrigins []string

	// AllowMethods specifies which HTTP methods are permitted.
	// Using strings to match the go-chi/cors library API.
	AllowMethods []string

	// AllowedHeaders specifies which headers the client can include in requests.
	AllowedHeaders []string
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
func NewOptions(opts ...Option) (Options, error) {
	options := Options{
		CORS: CORSConfig{
			Enabled:        false,
			AllowOrigins:   nil,
			AllowMethods:   DefaultCORSAllowMethods(),
			AllowedHeaders: DefaultCORSAllowHeaders(),
		},
		ShutdownTimeout: DefaultShutdownTimeout(),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithCORS enables CORS for the given origins.
func WithCORS(origins []string) Option {
	return func(o *Options) error {
		if len(origins) == 0 {
			return fmt.Errorf("CORS origins cannot be empty when enabling CORS")
		}
		o.CORS.Enabled = true
		o.CORS.AllowOrigins = origins
		return nil
	}
}

// WithShutdownTimeout sets how long the server waits for graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return fmt.Errorf("shutdown timeout must be positive, got: %s", d)
		}
		o.ShutdownTimeout = d
		return nil
	}
}

// DefaultCORSAllowMethods returns the HTTP methods permitted by default.
func DefaultCORSAllowMethods() []string {
	return []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodDelete,
		http.MethodOptions,
	}
}

// DefaultCORSAllowHeaders returns the request headers permitted by default.
func DefaultCORSAllowHeaders() []string {
	return []string{"Accept", "Content-Type"}
}

// DefaultShutdownTimeout returns how long graceful shutdown waits by default.
func DefaultShutdownTimeout() time.Duration {
	return 10 * time.Second
}
