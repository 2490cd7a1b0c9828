package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/GeorgePearse/TranspileAI/internal/contracts"
	"github.com/GeorgePearse/TranspileAI/internal/registry"
)

// InvokeMethodRequest represents the incoming API request to invoke a method.
type InvokeMethodRequest struct {
	Body InvokeMethodRequestBody
}

// InvokeMethodRequestBody is the JSON payload for an invocation.
type InvokeMethodRequestBody struct {
	// ContextID optionally targets an existing execution context. When empty
	// the invocation runs in a throwaway context discarded afterwards.
	ContextID string `doc:"Identifier of an existing context, empty for stateless calls" json:"context_id,omitempty"`

	// MethodName is the exact, case-sensitive registered function name.
	MethodName string `doc:"Name of the method to invoke" example:"add" json:"method_name"`

	// Arguments is the JSON-encoded argument object for the method.
	Arguments string `doc:"JSON-encoded arguments" example:"{\"a\": 2, \"b\": 3}" json:"arguments,omitempty"`
}

// InvokeMethodResponse represents the wrapped API response for an invocation.
type InvokeMethodResponse struct {
	Body InvokeMethodResponseBody
}

// InvokeMethodResponseBody carries the invocation outcome: a JSON-encoded
// result or an error, never both.
type InvokeMethodResponseBody struct {
	Success  bool               `doc:"Whether the invocation succeeded" json:"success"`
	Result   string             `doc:"JSON-encoded return value"        json:"result,omitempty"`
	Error    string             `doc:"Error message on failure"         json:"error,omitempty"`
	Metadata *ExecutionMetadata `doc:"Execution metadata on success"    json:"metadata,omitempty"`
}

// ExecutionMetadata describes how an invocation executed.
type ExecutionMetadata struct {
	// ExecutionTimeUs is the handler wall-clock time in microseconds.
	// It excludes argument parsing and context resolution.
	ExecutionTimeUs int64 `doc:"Handler execution time in microseconds" json:"execution_time_us"`

	// Runtime labels the backend implementation that executed the call.
	Runtime string `doc:"Backend runtime label" example:"go" json:"runtime"`
}

// ListMethodsRequest represents the incoming API request to enumerate methods.
type ListMethodsRequest struct {
	Prefix string `doc:"Only return methods whose name starts with this prefix" query:"prefix"`
}

// ListMethodsResponse represents the wrapped API response for enumerating methods.
type ListMethodsResponse struct {
	Body ListMethodsResponseBody
}

// ListMethodsResponseBody holds the ordered method metadata entries.
type ListMethodsResponseBody struct {
	Methods []registry.Metadata `doc:"Registered methods sorted by name" json:"methods"`
}

// RegisterMethodRoutes sets up the invocation and discovery endpoints.
func RegisterMethodRoutes(routerAPI huma.API, executor contracts.Executor, methodsPath, invokePath string) {
	tags := []string{"Methods"}

	huma.Register(
		routerAPI,
		huma.Operation{
			OperationID: "invokeMethod",
			Method:      http.MethodPost,
			Path:        invokePath,
			Summary:     "Invoke a registered method",
			Description: "Invokes a method by name with JSON-encoded arguments, optionally inside an execution context.",
			Tags:        tags,
		},
		func(ctx context.Context, input *InvokeMethodRequest) (*InvokeMethodResponse, error) {
			return handleInvokeMethod(executor, input.Body)
		},
	)

	huma.Register(
		routerAPI,
		huma.Operation{
			OperationID: "listMethods",
			Method:      http.MethodGet,
			Path:        methodsPath,
			Summary:     "List registered methods",
			Tags:        tags,
		},
		func(ctx context.Context, input *ListMethodsRequest) (*ListMethodsResponse, error) {
			return handleListMethods(executor, input.Prefix)
		},
	)
}

// handleInvokeMethod dispatches the invocation and converts the outcome into
// the wire response. Failed outcomes carry no metadata; latency is only
// meaningful for completed calls.
func handleInvokeMethod(executor contracts.Executor, body InvokeMethodRequestBody) (*InvokeMethodResponse, error) {
	outcome := executor.InvokeMethod(body.ContextID, body.MethodName, body.Arguments)

	resp := &InvokeMethodResponse{}
	if outcome.Failed() {
		resp.Body.Error = outcome.Err.Error()
		return resp, nil
	}

	resp.Body.Success = true
	resp.Body.Result = string(outcome.Result)
	resp.Body.Metadata = &ExecutionMetadata{
		ExecutionTimeUs: outcome.Elapsed.Microseconds(),
		Runtime:         executor.Runtime(),
	}

	return resp, nil
}

// handleListMethods returns metadata for registered methods matching prefix.
func handleListMethods(executor contracts.Executor, prefix string) (*ListMethodsResponse, error) {
	methods := executor.ListMethods(prefix)

	resp := &ListMethodsResponse{}
	resp.Body.Methods = methods

	return resp, nil
}
