package middleware

import "errors"

// ErrRetryExhausted is returned by the retry middleware when every attempt
// failed with a retryable error. It is wrapped together with the last provider
// error, so both [errors.Is] and [errors.As] reach the root cause.
var ErrRetryExhausted = errors.New("aistudio: all retry attempts exhausted")
