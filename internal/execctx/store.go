package execctx

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Store holds live execution contexts keyed by their generated identifiers.
// It is safe for concurrent use by multiple goroutines. The store-level lock
// guards only the identifier mapping; each Context carries its own lock, so
// invocations on different contexts never contend with each other.
// NewStore should be used to create instances of Store.
type Store struct {
	logger hclog.Logger

	mu       sync.RWMutex
	contexts map[string]*Context
}

// NewStore creates an empty, concurrency-safe Store.
func NewStore(logger hclog.Logger) (*Store, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Store{
		logger:   logger.Named("contexts"),
		contexts: make(map[string]*Context),
	}, nil
}

// Create registers a new context and returns it.
// Identifiers are generated server-side, never client-supplied.
// A non-empty initialState is decoded as a JSON object; if it fails to parse
// the context still starts with empty state and a warning is logged, matching
// suites that rely on the lenient behavior.
func (s *Store) Create(initialState string) *Context {
	id := uuid.NewString()

	state := make(map[string]any)
	if initialState != "" {
		if err := json.Unmarshal([]byte(initialState), &state); err != nil {
			s.logger.Warn("Invalid initial state, starting empty", "context_id", id, "error", err)
			state = make(map[string]any)
		}
	}

	ctx := &Context{
		id:    id,
		state: state,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[id] = ctx

	return ctx
}

// Get returns the live context for the given identifier.
// It returns a boolean to indicate whether the context was found.
// The returned context is a reference, not a snapshot; mutations through it
// are visible to subsequent invocations sharing the same identifier.
func (s *Store) Get(id string) (*Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctx, ok := s.contexts[id]
	return ctx, ok
}

// Destroy removes the context for the given identifier.
// It returns true iff an entry existed and was removed. A destroyed
// identifier is never valid again; lookups after Destroy fail.
func (s *Store) Destroy(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contexts[id]; !ok {
		return false
	}
	delete(s.contexts, id)

	return true
}

// Len returns the number of live contexts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contexts)
}
