// Package service composes the function registry, the execution context store
// and the invocation dispatcher into the five externally visible operations of
// the stateful execution service.
package service

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/GeorgePearse/TranspileAI/internal/contracts"
	"github.com/GeorgePearse/TranspileAI/internal/dispatch"
	"github.com/GeorgePearse/TranspileAI/internal/errors"
	"github.com/GeorgePearse/TranspileAI/internal/execctx"
	"github.com/GeorgePearse/TranspileAI/internal/registry"
)

var _ contracts.Executor = (*Service)(nil)

// Service is the RPC-facing façade over the registry, store and dispatcher.
// All operations are safe to call concurrently.
// NewService should be used to create instances of Service.
type Service struct {
	logger     hclog.Logger
	registry   *registry.Registry
	store      *execctx.Store
	dispatcher *dispatch.Dispatcher
	runtime    string
}

// NewService creates the façade over explicit dependencies; the registry is
// expected to be fully populated before requests arrive. The runtime label
// identifies this backend in invocation metadata (e.g. "go").
func NewService(logger hclog.Logger, reg *registry.Registry, store *execctx.Store, runtime string) (*Service, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if runtime == "" {
		return nil, fmt.Errorf("runtime label cannot be empty")
	}

	l := logger.Named("service")

	dispatcher, err := dispatch.NewDispatcher(l, reg, store)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	return &Service{
		logger:     l,
		registry:   reg,
		store:      store,
		dispatcher: dispatcher,
		runtime:    runtime,
	}, nil
}

// CreateContext creates a new execution context, optionally seeded from a
// JSON-encoded initial state, and returns its identifier. An unparseable
// initial state is not fatal; the context starts empty.
func (s *Service) CreateContext(initialState string) string {
	ctx := s.store.Create(initialState)
	s.logger.Info("Created context", "context_id", ctx.ID())
	return ctx.ID()
}

// InvokeMethod invokes the named method with JSON-encoded arguments inside
// the optional context identified by contextID.
func (s *Service) InvokeMethod(contextID, methodName, argumentsJSON string) dispatch.Outcome {
	return s.dispatcher.Invoke(methodName, argumentsJSON, contextID)
}

// InspectState returns a read-only snapshot of a context's state.
func (s *Service) InspectState(contextID string) (map[string]any, error) {
	ctx, ok := s.store.Get(contextID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrContextNotFound, contextID)
	}
	return ctx.Snapshot(), nil
}

// DestroyContext removes the context for the given identifier.
// It returns true iff an entry existed and was removed.
func (s *Service) DestroyContext(contextID string) bool {
	destroyed := s.store.Destroy(contextID)
	if destroyed {
		s.logger.Info("Destroyed context", "context_id", contextID)
	}
	return destroyed
}

// ListMethods returns metadata for registered methods matching prefix,
// sorted by name. An empty prefix returns all methods.
func (s *Service) ListMethods(prefix string) []registry.Metadata {
	return s.registry.List(prefix)
}

// Runtime returns the backend label reported in invocation metadata.
func (s *Service) Runtime() string {
	return s.runtime
}
