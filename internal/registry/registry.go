// Package registry maps function names to executable handlers and their
// descriptive metadata. The registry is populated once during process startup
// by a composition step and then serves concurrent lookups for the lifetime
// of the server.
package registry

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/GeorgePearse/TranspileAI/internal/execctx"
)

// Handler is the executable logic behind one registered function name.
// Arguments arrive as a decoded JSON object; the returned value must be
// JSON-serializable. Handlers report domain failures through the error return.
type Handler func(ctx *execctx.Context, args map[string]any) (any, error)

// Metadata describes a registered function for discovery via list_methods.
type Metadata struct {
	// Name of the function, unique within the registry.
	Name string `json:"name"`

	// Description is a human-readable summary of what the function does.
	Description string `json:"description"`

	// IsStateful reports whether the function reads or writes context state.
	IsStateful bool `json:"is_stateful"`

	// ParameterTypes holds ordered type tags for the function's parameters.
	ParameterTypes []string `json:"parameter_types"`

	// ReturnType is the type tag of the function's return value.
	ReturnType string `json:"return_type"`
}

// Registry holds registered handlers and their metadata keyed by name.
// It is safe for concurrent use by multiple goroutines; Resolve and List
// never block each other, while Register takes the write lock (registration
// happens at startup, not per-request).
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	metadata map[string]Metadata
}

// NewRegistry creates an empty, concurrency-safe Registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		metadata: make(map[string]Metadata),
	}
}

// Register stores handler and meta under meta.Name, overwriting any prior
// entry for that name.
func (r *Registry) Register(handler Handler, meta Metadata) error {
	name := strings.TrimSpace(meta.Name)
	if name == "" {
		return fmt.Errorf("function name cannot be empty")
	}
	if handler == nil || reflect.ValueOf(handler).IsNil() {
		return fmt.Errorf("handler cannot be nil for function '%s'", name)
	}

	meta.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
	r.metadata[name] = meta

	return nil
}

// Resolve returns the handler for the given name.
// It returns a boolean to indicate whether the handler was found.
// Lookups are case-sensitive exact-name matches.
func (r *Registry) Resolve(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Lookup returns the metadata for the given name.
// It returns a boolean to indicate whether the entry was found.
func (r *Registry) Lookup(name string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.metadata[name]
	return m, ok
}

// List returns metadata for every registered function whose name starts with
// prefix, sorted by name. An empty prefix returns all entries.
func (r *Registry) List(prefix string) []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Metadata, 0, len(r.metadata))
	for name, meta := range r.metadata {
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		entries = append(entries, meta)
	}

	slices.SortFunc(entries, func(a, b Metadata) int {
		return strings.Compare(a.Name, b.Name)
	})

	return entries
}
