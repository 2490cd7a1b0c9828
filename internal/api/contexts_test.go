package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GeorgePearse/TranspileAI/internal/dispatch"
	"github.com/GeorgePearse/TranspileAI/internal/registry"
)

// fakeExecutor implements contracts.Executor with canned behavior per test.
type fakeExecutor struct {
	createContextFn  func(initialState string) string
	invokeMethodFn   func(contextID, methodName, argumentsJSON string) dispatch.Outcome
	inspectStateFn   func(contextID string) (map[string]any, error)
	destroyContextFn func(contextID string) bool
	listMethodsFn    func(prefix string) []registry.Metadata
	runtime          string
}

func (f *fakeExecutor) CreateContext(initialState string) string {
	return f.createContextFn(initialState)
}

func (f *fakeExecutor) InvokeMethod(contextID, methodName, argumentsJSON string) dispatch.Outcome {
	return f.invokeMethodFn(contextID, methodName, argumentsJSON)
}

func (f *fakeExecutor) InspectState(contextID string) (map[string]any, error) {
	return f.inspectStateFn(contextID)
}

func (f *fakeExecutor) DestroyContext(contextID string) bool {
	return f.destroyContextFn(contextID)
}

func (f *fakeExecutor) ListMethods(prefix string) []registry.Metadata {
	return f.listMethodsFn(prefix)
}

func (f *fakeExecutor) Runtime() string {
	return f.runtime
}

func TestHandleCreateContext(t *testing.T) {
	t.Parallel()

	var gotInitialState string
	executor := &fakeExecutor{
		createContextFn: func(initialState string) string {
			gotInitialState = initialState
			return "ctx-123"
		},
	}

	resp, err := handleCreateContext(executor, `{"counter": 5}`)
	require.NoError(t, err)
	require.True(t, resp.Body.Success)
	require.Equal(t, "ctx-123", resp.Body.ContextID)
	require.Empty(t, resp.Body.Error)
	require.Equal(t, `{"counter": 5}`, gotInitialState)
}

func TestHandleInspectState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		state         map[string]any
		err           error
		expectSuccess bool
		expectState   string
		expectError   string
	}{
		{
			name:          "existing context",
			state:         map[string]any{"counter": float64(2)},
			expectSuccess: true,
			expectState:   `{"counter":2}`,
		},
		{
			name:          "empty state",
			state:         map[string]any{},
			expectSuccess: true,
			expectState:   `{}`,
		},
		{
			name:        "missing context",
			err:         fmt.Errorf("context not found: ctx-404"),
			expectError: "context not found: ctx-404",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			executor := &fakeExecutor{
				inspectStateFn: func(_ string) (map[string]any, error) {
					return tc.state, tc.err
				},
			}

			resp, err := handleInspectState(executor, "any")
			require.NoError(t, err)
			require.Equal(t, tc.expectSuccess, resp.Body.Success)
			if tc.expectSuccess {
				require.JSONEq(t, tc.expectState, resp.Body.State)
				require.Empty(t, resp.Body.Error)
				return
			}
			require.Equal(t, tc.expectError, resp.Body.Error)
			require.Empty(t, resp.Body.State)
		})
	}
}

func TestHandleDestroyContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		destroyed     bool
		expectSuccess bool
		expectError   string
	}{
		{name: "existing context", destroyed: true, expectSuccess: true},
		{name: "missing context", destroyed: false, expectError: "context not found: ctx-404"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			executor := &fakeExecutor{
				destroyContextFn: func(_ string) bool { return tc.destroyed },
			}

			resp, err := handleDestroyContext(executor, "ctx-404")
			require.NoError(t, err)
			require.Equal(t, tc.expectSuccess, resp.Body.Success)
			require.Equal(t, tc.expectError, resp.Body.Error)
		})
	}
}
