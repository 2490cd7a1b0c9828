// Package errors defines domain-level errors used throughout the application.
// These errors classify invocation and orchestration failures and are the
// values that callers should test with errors.Is; the text that travels over
// the wire to runner clients is derived from them at the API boundary.
package errors

import (
	"errors"
)

var (
	// ErrMethodNotFound indicates that the requested method name is not registered.
	// No handler is ever invoked when this is returned.
	ErrMethodNotFound = errors.New("method not found")

	// ErrInvalidArguments indicates that the argument payload was not well-formed JSON.
	// Returned before any handler executes and before any latency is recorded.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrContextNotFound indicates that the supplied context identifier does not exist,
	// either because it was never created or because it has been destroyed.
	ErrContextNotFound = errors.New("context not found")

	// ErrBackendUnreachable indicates that a configured backend could not be reached
	// or violated the request/response protocol.
	ErrBackendUnreachable = errors.New("backend unreachable")

	// ErrSuiteLoadFailed indicates that the declarative test suite file could not be
	// read, validated, or decoded. This is fatal at startup, before any test runs.
	ErrSuiteLoadFailed = errors.New("suite load failed")
)
