package client

import (
	"context"

	"github.com/leofalp/aistudio/providers/ai"
)

// SendFunc sends a request to the provider and returns the completed response.
// It is the unit threaded through the middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware wraps a SendFunc. Middlewares are applied outermost-first: the
// first middleware passed to [WithMiddleware] sees the request first and the
// response last.
type Middleware func(next SendFunc) SendFunc

// buildSendChain composes middlewares around a direct provider call.
func buildSendChain(provider ai.Provider, middlewares []Middleware) SendFunc {
	var chain SendFunc = func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
		return provider.SendMessage(ctx, request)
	}

	// Apply in reverse so that middlewares[0] is outermost.
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		chain = middlewares[i](chain)
	}

	return chain
}
