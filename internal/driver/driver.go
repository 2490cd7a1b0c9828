// Package driver issues the identical create→invoke→destroy sequence against
// every configured backend and collects each backend's outcome. Backends are
// independent; a failure talking to one never prevents collection from the
// others.
package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/GeorgePearse/TranspileAI/internal/client"
)

// Case is the invocation a single differential test replays on every backend.
type Case struct {
	// Method is the registered function name to invoke.
	Method string

	// ArgumentsJSON is the JSON-encoded argument object shared by all backends.
	ArgumentsJSON string

	// Stateful requests a dedicated execution context around the invocation.
	Stateful bool

	// InitialState optionally seeds the created context (stateful cases only).
	InitialState string
}

// Outcome records one backend's answer to a case: a decoded value or an error
// text, plus the backend-reported latency when the call completed.
type Outcome struct {
	// Value is the decoded JSON return value on success.
	Value any

	// Error is the failure text; empty means the invocation succeeded.
	Error string

	// LatencyUs is the backend-reported handler latency in microseconds.
	// It is nil when the invocation did not complete.
	LatencyUs *int64
}

// Failed reports whether the backend errored on this case.
func (o Outcome) Failed() bool {
	return o.Error != ""
}

// Driver fans one case out to every configured backend.
// NewDriver should be used to create instances of Driver.
type Driver struct {
	logger   hclog.Logger
	backends map[string]*client.Client
	order    []string
}

// NewDriver creates a driver over the given backends, keyed by suite label.
// The per-run backend order is fixed (sorted labels) so reports are stable.
func NewDriver(logger hclog.Logger, backends map[string]*client.Client) (*Driver, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("at least one backend is required")
	}

	order := slices.Sorted(maps.Keys(backends))

	return &Driver{
		logger:   logger.Named("driver"),
		backends: backends,
		order:    order,
	}, nil
}

// Order returns the fixed backend iteration order for this run.
func (d *Driver) Order() []string {
	return slices.Clone(d.order)
}

// Run executes the case against every backend concurrently and returns one
// outcome per backend label. All configured backends are always attempted.
func (d *Driver) Run(ctx context.Context, c Case) map[string]Outcome {
	outcomes := make([]Outcome, len(d.order))

	g, gctx := errgroup.WithContext(ctx)
	for i, label := range d.order {
		g.Go(func() error {
			outcomes[i] = d.execute(gctx, d.backends[label], c)
			return nil
		})
	}
	// No goroutine returns an error; failures land in the outcomes.
	_ = g.Wait()

	results := make(map[string]Outcome, len(d.order))
	for i, label := range d.order {
		results[label] = outcomes[i]
	}

	return results
}

// execute runs the create→invoke→destroy sequence against one backend.
// Context destruction is best-effort; its failure never invalidates the
// collected outcome.
func (d *Driver) execute(ctx context.Context, c *client.Client, tc Case) Outcome {
	contextID := ""
	if tc.Stateful {
		id, err := c.CreateContext(ctx, tc.InitialState)
		if err != nil {
			return Outcome{Error: err.Error()}
		}
		contextID = id

		defer func() {
			if err := c.DestroyContext(ctx, contextID); err != nil {
				d.logger.Warn("Failed to destroy context", "backend", c.Label(), "context_id", contextID, "error", err)
			}
		}()
	}

	res, err := c.Invoke(ctx, contextID, tc.Method, tc.ArgumentsJSON)
	if err != nil {
		return Outcome{Error: err.Error()}
	}
	if !res.Success {
		return Outcome{Error: res.Error}
	}

	// Decode failures leave the value nil rather than erroring the backend;
	// the comparator then reports any cross-backend difference.
	var value any
	_ = json.Unmarshal([]byte(res.Result), &value)

	latency := res.ExecutionTimeUs

	return Outcome{
		Value:     value,
		LatencyUs: &latency,
	}
}
