// Package dispatch resolves invocation requests against the function registry
// and the execution context store, runs the handler, and converts the result
// into a structured outcome that never escapes as a panic or raw error.
package dispatch

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/GeorgePearse/TranspileAI/internal/errors"
	"github.com/GeorgePearse/TranspileAI/internal/execctx"
	"github.com/GeorgePearse/TranspileAI/internal/registry"
)

// Outcome is the result of one invocation: either a serialized value or an
// error, never both. Elapsed covers only the handler call itself so the
// reported latency approximates pure compute cost; failed outcomes carry no
// meaningful latency.
type Outcome struct {
	// Result holds the JSON-encoded return value on success.
	Result json.RawMessage

	// Err holds the failure on an unsuccessful invocation.
	Err error

	// Elapsed is the wall-clock duration of the handler call on success.
	Elapsed time.Duration
}

// Failed reports whether the invocation produced an error.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Dispatcher invokes registered handlers on behalf of the service façade.
// NewDispatcher should be used to create instances of Dispatcher.
type Dispatcher struct {
	logger   hclog.Logger
	registry *registry.Registry
	store    *execctx.Store
}

// NewDispatcher creates a Dispatcher over the provided registry and store.
func NewDispatcher(logger hclog.Logger, reg *registry.Registry, store *execctx.Store) (*Dispatcher, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}

	return &Dispatcher{
		logger:   logger.Named("dispatch"),
		registry: reg,
		store:    store,
	}, nil
}

// Invoke runs the named method with JSON-encoded arguments, optionally inside
// the context identified by contextID. An empty contextID synthesizes a
// throwaway context whose state is discarded after the call.
//
// Failures are reported in order: unknown method, malformed arguments, then
// unknown context; the handler only runs once all three are resolved.
func (d *Dispatcher) Invoke(methodName, argumentsJSON, contextID string) Outcome {
	handler, ok := d.registry.Resolve(methodName)
	if !ok {
		return Outcome{Err: fmt.Errorf("%w: %s", errors.ErrMethodNotFound, methodName)}
	}

	args := make(map[string]any)
	if argumentsJSON != "" {
		if err := json.Unmarshal([]byte(argumentsJSON), &args); err != nil {
			return Outcome{Err: fmt.Errorf("%w: %v", errors.ErrInvalidArguments, err)}
		}
	}

	var execCtx *execctx.Context
	if contextID == "" {
		execCtx = execctx.NewScratch()
	} else {
		ctx, found := d.store.Get(contextID)
		if !found {
			return Outcome{Err: fmt.Errorf("%w: %s", errors.ErrContextNotFound, contextID)}
		}
		execCtx = ctx
	}

	start := time.Now()
	result, err := handler(execCtx, args)
	elapsed := time.Since(start)

	if err != nil {
		d.logger.Error("Handler failed", "method", methodName, "error", err)
		// The handler's error passes through verbatim; it is never
		// reinterpreted here.
		return Outcome{Err: err}
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		d.logger.Error("Result not serializable", "method", methodName, "error", err)
		return Outcome{Err: fmt.Errorf("result not serializable: %v", err)}
	}

	d.logger.Debug("Executed method", "method", methodName, "elapsed_us", elapsed.Microseconds())

	return Outcome{
		Result:  encoded,
		Elapsed: elapsed,
	}
}
