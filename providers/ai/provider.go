package ai

import (
	"context"
)

// Provider is the interface every generation backend satisfies. A provider
// turns one ChatRequest into one ChatResponse; retries, timeouts and logging
// are layered on top by the client middleware chain.
type Provider interface {
	// SendMessage sends a request and returns the completed response. Failures
	// reported by the remote service are returned as *APIError.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// Name identifies the backend in logs and history records.
	Name() string
}
