package session

import (
	"errors"
	"fmt"
)

// Sentinel errors. Handlers map these to HTTP statuses with errors.Is, so
// everything returned from the manager wraps one of them (or is request
// context noise like a cancelled ctx).
var (
	// ErrNotFound: unknown session id. A terminated session is absent from
	// the registry, so "stopped" and "never existed" are indistinguishable.
	ErrNotFound = errors.New("session not found")

	// ErrNotActive: the session exists but is paused; endpoint access and
	// input injection require an active runtime.
	ErrNotActive = errors.New("session not active")

	// ErrForbiddenOrigin: the request origin is not an allow-listed portal
	// domain or a local development origin.
	ErrForbiddenOrigin = errors.New("origin not allowed")

	// ErrInvalidRequest: malformed input, e.g. an unknown browser command
	// action. Rejected before any external call.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrOrchestration: a container lifecycle call failed or timed out.
	ErrOrchestration = errors.New("orchestration failure")

	// ErrStorage: profile materialization or the durable record store failed.
	ErrStorage = errors.New("storage failure")
)

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
