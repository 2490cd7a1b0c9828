package dispatch

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/GeorgePearse/TranspileAI/internal/errors"
	"github.com/GeorgePearse/TranspileAI/internal/execctx"
	"github.com/GeorgePearse/TranspileAI/internal/registry"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *registry.Registry, *execctx.Store) {
	t.Helper()

	reg := registry.NewRegistry()
	store, err := execctx.NewStore(hclog.NewNullLogger())
	require.NoError(t, err)

	d, err := NewDispatcher(hclog.NewNullLogger(), reg, store)
	require.NoError(t, err)

	return d, reg, store
}

func TestNewDispatcher(t *testing.T) {
	t.Parallel()

	logger := hclog.NewNullLogger()
	reg := registry.NewRegistry()
	store, err := execctx.NewStore(logger)
	require.NoError(t, err)

	tests := []struct {
		name        string
		logger      hclog.Logger
		registry    *registry.Registry
		store       *execctx.Store
		expectError string
	}{
		{
			name:     "valid dependencies",
			logger:   logger,
			registry: reg,
			store:    store,
		},
		{
			name:        "nil logger",
			logger:      nil,
			registry:    reg,
			store:       store,
			expectError: "logger cannot be nil",
		},
		{
			name:        "nil registry",
			logger:      logger,
			registry:    nil,
			store:       store,
			expectError: "registry cannot be nil",
		},
		{
			name:        "nil store",
			logger:      logger,
			registry:    reg,
			store:       nil,
			expectError: "store cannot be nil",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d, err := NewDispatcher(tc.logger, tc.registry, tc.store)
			if tc.expectError != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.expectError)
				require.Nil(t, d)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, d)
		})
	}
}

func TestDispatcher_Invoke_MethodNotFound(t *testing.T) {
	t.Parallel()

	d, _, _ := newTestDispatcher(t)

	outcome := d.Invoke("missing", "{}", "")
	require.True(t, outcome.Failed())
	require.ErrorIs(t, outcome.Err, errors.ErrMethodNotFound)
	require.Contains(t, outcome.Err.Error(), "missing")
}

func TestDispatcher_Invoke_InvalidArguments(t *testing.T) {
	t.Parallel()

	d, reg, _ := newTestDispatcher(t)
	require.NoError(t, reg.Register(func(_ *execctx.Context, _ map[string]any) (any, error) {
		return nil, nil
	}, registry.Metadata{Name: "noop"}))

	tests := []struct {
		name string
		args string
	}{
		{name: "malformed json", args: "{not json"},
		{name: "non-object json", args: "[1, 2]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			outcome := d.Invoke("noop", tc.args, "")
			require.True(t, outcome.Failed())
			require.ErrorIs(t, outcome.Err, errors.ErrInvalidArguments)
		})
	}
}

func TestDispatcher_Invoke_ContextNotFound(t *testing.T) {
	t.Parallel()

	d, reg, _ := newTestDispatcher(t)
	require.NoError(t, reg.Register(func(_ *execctx.Context, _ map[string]any) (any, error) {
		return nil, nil
	}, registry.Metadata{Name: "noop"}))

	outcome := d.Invoke("noop", "{}", "no-such-context")
	require.True(t, outcome.Failed())
	require.ErrorIs(t, outcome.Err, errors.ErrContextNotFound)
	require.Contains(t, outcome.Err.Error(), "no-such-context")
}

func TestDispatcher_Invoke_FailureOrder(t *testing.T) {
	t.Parallel()

	// Unknown method wins over malformed arguments and a bad context id.
	d, _, _ := newTestDispatcher(t)

	outcome := d.Invoke("missing", "{broken", "no-such-context")
	require.ErrorIs(t, outcome.Err, errors.ErrMethodNotFound)
	require.False(t, stderrors.Is(outcome.Err, errors.ErrInvalidArguments))
}

func TestDispatcher_Invoke_HandlerErrorVerbatim(t *testing.T) {
	t.Parallel()

	d, reg, _ := newTestDispatcher(t)

	handlerErr := fmt.Errorf("division by zero")
	require.NoError(t, reg.Register(func(_ *execctx.Context, _ map[string]any) (any, error) {
		return nil, handlerErr
	}, registry.Metadata{Name: "boom"}))

	outcome := d.Invoke("boom", "{}", "")
	require.True(t, outcome.Failed())
	require.Equal(t, "division by zero", outcome.Err.Error())
	require.Same(t, handlerErr, outcome.Err)
}

func TestDispatcher_Invoke_Success(t *testing.T) {
	t.Parallel()

	d, reg, _ := newTestDispatcher(t)
	require.NoError(t, reg.Register(func(_ *execctx.Context, args map[string]any) (any, error) {
		return args["a"].(float64) + args["b"].(float64), nil
	}, registry.Metadata{Name: "add"}))

	outcome := d.Invoke("add", `{"a": 2, "b": 3}`, "")
	require.False(t, outcome.Failed())
	require.JSONEq(t, "5", string(outcome.Result))
	require.GreaterOrEqual(t, outcome.Elapsed, time.Duration(0))
}

func TestDispatcher_Invoke_EmptyArguments(t *testing.T) {
	t.Parallel()

	d, reg, _ := newTestDispatcher(t)
	require.NoError(t, reg.Register(func(_ *execctx.Context, args map[string]any) (any, error) {
		return len(args), nil
	}, registry.Metadata{Name: "argcount"}))

	outcome := d.Invoke("argcount", "", "")
	require.False(t, outcome.Failed())
	require.JSONEq(t, "0", string(outcome.Result))
}

func TestDispatcher_Invoke_StatefulContext(t *testing.T) {
	t.Parallel()

	d, reg, store := newTestDispatcher(t)
	require.NoError(t, reg.Register(func(ctx *execctx.Context, _ map[string]any) (any, error) {
		next := float64(1)
		ctx.Update(func(state map[string]any) {
			if v, ok := state["n"].(float64); ok {
				next = v + 1
			}
			state["n"] = next
		})
		return next, nil
	}, registry.Metadata{Name: "bump", IsStateful: true}))

	ctx := store.Create("")

	first := d.Invoke("bump", "{}", ctx.ID())
	require.False(t, first.Failed())
	require.JSONEq(t, "1", string(first.Result))

	second := d.Invoke("bump", "{}", ctx.ID())
	require.False(t, second.Failed())
	require.JSONEq(t, "2", string(second.Result))

	// A scratch context never observes the stored context's state.
	scratch := d.Invoke("bump", "{}", "")
	require.JSONEq(t, "1", string(scratch.Result))
}

func TestDispatcher_Invoke_UnserializableResult(t *testing.T) {
	t.Parallel()

	d, reg, _ := newTestDispatcher(t)
	require.NoError(t, reg.Register(func(_ *execctx.Context, _ map[string]any) (any, error) {
		return func() {}, nil
	}, registry.Metadata{Name: "bad"}))

	outcome := d.Invoke("bad", "{}", "")
	require.True(t, outcome.Failed())
	require.Contains(t, outcome.Err.Error(), "result not serializable")
}
