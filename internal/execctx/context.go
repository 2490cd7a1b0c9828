// Package execctx provides isolated mutable state buckets for stateful
// function invocations. A Context is owned by the Store that created it and is
// shared by reference across concurrent invocations targeting the same
// context identifier; all state access goes through the per-context lock so
// concurrent invokes on one context never observe partial updates.
package execctx

import (
	"maps"
	"sync"
)

// Context holds the keyed state for one execution context.
// It is safe for concurrent use by multiple goroutines.
type Context struct {
	id string

	mu    sync.RWMutex
	state map[string]any
}

// ID returns the opaque identifier for this context.
// Scratch contexts synthesized for stateless invocations have an empty ID.
func (c *Context) ID() string {
	return c.id
}

// Get returns the value stored under key.
// It returns a boolean to indicate whether the key was present.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.state[key]
	return v, ok
}

// Set stores value under key, replacing any prior value.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state[key] = value
}

// Update runs fn while holding the context's write lock. Handlers that
// read-modify-write state must go through Update so concurrent invocations on
// the same context cannot interleave between the read and the write.
func (c *Context) Update(fn func(state map[string]any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.state)
}

// Snapshot returns a shallow copy of the current state.
// The returned map is owned by the caller; later mutations of the context are
// not reflected in it.
func (c *Context) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.state)
}

// NewScratch returns a context whose lifetime is exactly one invocation.
// It is never tracked by a Store, so its state is discarded afterwards.
func NewScratch() *Context {
	return &Context{
		state: make(map[string]any),
	}
}
