package contracts

import (
	"github.com/GeorgePearse/TranspileAI/internal/dispatch"
	"github.com/GeorgePearse/TranspileAI/internal/registry"
)

// Executor provides access to the five operations of the stateful execution
// service. The API layer consumes this interface rather than the concrete
// service so tests can substitute fakes.
type Executor interface {
	// CreateContext creates a new execution context and returns its identifier.
	CreateContext(initialState string) string

	// InvokeMethod invokes a registered method, optionally inside a context.
	InvokeMethod(contextID, methodName, argumentsJSON string) dispatch.Outcome

	// InspectState returns a snapshot of a context's state.
	InspectState(contextID string) (map[string]any, error)

	// DestroyContext removes a context.
	// It returns a boolean to indicate whether an entry existed and was removed.
	DestroyContext(contextID string) bool

	// ListMethods returns metadata for registered methods matching prefix.
	ListMethods(prefix string) []registry.Metadata

	// Runtime returns the backend label reported in invocation metadata.
	Runtime() string
}
