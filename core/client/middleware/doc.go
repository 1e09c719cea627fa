// Package middleware provides the built-in [client.Middleware] implementations.
//
//   - [NewRetryMiddleware]: exponential backoff with jitter for transient
//     failures (HTTP 429 / 5xx, network timeouts), honouring Retry-After.
//   - [NewTimeoutMiddleware]: a deadline per call via context.WithTimeout.
//   - [NewLoggingMiddleware]: slog entries before and after every call, at
//     three verbosity levels.
//
// Middlewares execute outermost-first. The usual order is
//
//	c, err := client.New(provider,
//	    client.WithMiddleware(
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	        middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: 3}),
//	        middleware.NewTimeoutMiddleware(60*time.Second),
//	    ),
//	)
//
// so a request travels Logging → Retry → Timeout → Provider, and each retry
// gets a fresh deadline.
package middleware
