package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/GeorgePearse/TranspileAI/internal/contracts"
)

// CreateContextRequest represents the incoming API request to create an execution context.
type CreateContextRequest struct {
	Body CreateContextRequestBody
}

// CreateContextRequestBody is the JSON payload for creating an execution context.
type CreateContextRequestBody struct {
	// InitialState optionally seeds the context with a JSON-encoded state object.
	InitialState string `doc:"JSON-encoded initial state for the context" example:"{\"counter\": 5}" json:"initial_state,omitempty"`
}

// CreateContextResponse represents the wrapped API response for creating an execution context.
type CreateContextResponse struct {
	Body CreateContextResponseBody
}

// CreateContextResponseBody carries the generated context identifier.
type CreateContextResponseBody struct {
	ContextID string `doc:"Identifier of the created context" json:"context_id"`
	Success   bool   `doc:"Whether the operation succeeded"   json:"success"`
	Error     string `doc:"Error message on failure"          json:"error,omitempty"`
}

// InspectStateRequest represents the incoming API request to read a context's state.
type InspectStateRequest struct {
	ContextID string `doc:"Identifier of the context" path:"id"`
}

// InspectStateResponse represents the wrapped API response for reading a context's state.
type InspectStateResponse struct {
	Body InspectStateResponseBody
}

// InspectStateResponseBody carries the JSON-encoded state snapshot.
type InspectStateResponseBody struct {
	Success bool   `doc:"Whether the operation succeeded"  json:"success"`
	State   string `doc:"JSON-encoded state of the context" json:"state,omitempty"`
	Error   string `doc:"Error message on failure"          json:"error,omitempty"`
}

// DestroyContextRequest represents the incoming API request to destroy a context.
type DestroyContextRequest struct {
	ContextID string `doc:"Identifier of the context" path:"id"`
}

// DestroyContextResponse represents the wrapped API response for destroying a context.
type DestroyContextResponse struct {
	Body DestroyContextResponseBody
}

// DestroyContextResponseBody reports whether the context existed and was removed.
type DestroyContextResponseBody struct {
	Success bool   `doc:"Whether the context existed and was removed" json:"success"`
	Error   string `doc:"Error message on failure"                    json:"error,omitempty"`
}

// RegisterContextRoutes sets up the execution context lifecycle endpoints.
func RegisterContextRoutes(routerAPI huma.API, executor contracts.Executor, apiPathPrefix string) {
	contextsAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Contexts"}

	// Add route at the root of the group (no path specified).
	huma.Register(
		contextsAPI,
		huma.Operation{
			OperationID: "createContext",
			Method:      http.MethodPost,
			Summary:     "Create an execution context",
			Description: "Creates an isolated state bucket for stateful invocations, optionally seeded with initial state.",
			Tags:        tags,
		},
		func(ctx context.Context, input *CreateContextRequest) (*CreateContextResponse, error) {
			return handleCreateContext(executor, input.Body.InitialState)
		},
	)

	huma.Register(
		contextsAPI,
		huma.Operation{
			OperationID: "inspectState",
			Method:      http.MethodGet,
			Path:        "/{id}/state",
			Summary:     "Inspect context state",
			Tags:        tags,
		},
		func(ctx context.Context, input *InspectStateRequest) (*InspectStateResponse, error) {
			return handleInspectState(executor, input.ContextID)
		},
	)

	huma.Register(
		contextsAPI,
		huma.Operation{
			OperationID: "destroyContext",
			Method:      http.MethodDelete,
			Path:        "/{id}",
			Summary:     "Destroy an execution context",
			Tags:        tags,
		},
		func(ctx context.Context, input *DestroyContextRequest) (*DestroyContextResponse, error) {
			return handleDestroyContext(executor, input.ContextID)
		},
	)
}

// handleCreateContext creates a context. An unparseable initial state is not
// fatal, so the operation always succeeds.
func handleCreateContext(executor contracts.Executor, initialState string) (*CreateContextResponse, error) {
	id := executor.CreateContext(initialState)

	resp := &CreateContextResponse{}
	resp.Body.ContextID = id
	resp.Body.Success = true

	return resp, nil
}

// handleInspectState returns a JSON-encoded snapshot of a context's state.
func handleInspectState(executor contracts.Executor, contextID string) (*InspectStateResponse, error) {
	resp := &InspectStateResponse{}

	state, err := executor.InspectState(contextID)
	if err != nil {
		resp.Body.Error = err.Error()
		return resp, nil
	}

	encoded, err := json.Marshal(state)
	if err != nil {
		resp.Body.Error = err.Error()
		return resp, nil
	}

	resp.Body.Success = true
	resp.Body.State = string(encoded)

	return resp, nil
}

// handleDestroyContext removes a context, reporting in-band whether it existed.
func handleDestroyContext(executor contracts.Executor, contextID string) (*DestroyContextResponse, error) {
	resp := &DestroyContextResponse{}

	if !executor.DestroyContext(contextID) {
		resp.Body.Error = "context not found: " + contextID
		return resp, nil
	}

	resp.Body.Success = true

	return resp, nil
}
