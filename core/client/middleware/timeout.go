package middleware

import (
	"context"
	"time"

	"github.com/leofalp/aistudio/core/client"
	"github.com/leofalp/aistudio/providers/ai"
)

// NewTimeoutMiddleware bounds each provider call with context.WithTimeout.
// Placed inside the retry middleware it limits every attempt separately;
// placed outside it limits the call as a whole. A shorter deadline already on
// the caller's context still wins. A non-positive timeout disables the
// middleware.
func NewTimeoutMiddleware(timeout time.Duration) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}
