// Package api defines the HTTP surface of the stateful execution service:
// five operations (create-context, invoke, inspect-state, destroy-context,
// list-methods), each a single request/response call. Domain failures are
// reported in-band through the success/error fields of each response body,
// mirroring the backend-agnostic RPC contract shared by every candidate
// implementation.
package api

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/GeorgePearse/TranspileAI/internal/contracts"
)

// APIVersion is the version used in the OpenAPI spec and URL paths.
const APIVersion = "v1"

// RegisterRoutes registers all API routes on the provided Huma router.
// This is the single source of truth for the API route structure.
// Returns the API path prefix (e.g., "/api/v1") under which the routes are created.
func RegisterRoutes(router huma.API, executor contracts.Executor) (string, error) {
	if router == nil || reflect.ValueOf(router).IsNil() {
		return "", fmt.Errorf("router cannot be nil")
	}
	if executor == nil || reflect.ValueOf(executor).IsNil() {
		return "", fmt.Errorf("executor cannot be nil")
	}

	// Safe way to ensure /api/{version}.
	apiPathPrefix, err := url.JoinPath("/api", APIVersion)
	if err != nil {
		return "", fmt.Errorf("failed to construct API path prefix: %w", err)
	}

	// Group all routes under the /api/{version} prefix.
	versionedGroup := huma.NewGroup(router, apiPathPrefix)
	RegisterContextRoutes(versionedGroup, executor, "/contexts")
	RegisterMethodRoutes(versionedGroup, executor, "/methods", "/invoke")

	return apiPathPrefix, nil
}
