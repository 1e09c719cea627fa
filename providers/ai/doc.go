// Package ai defines the provider-agnostic request and response types shared
// by every generation backend.
//
// A [Provider] receives a [ChatRequest] (system prompt, messages with optional
// image parts, an optional response schema) and returns a [ChatResponse].
// Remote failures surface as [*APIError]; [IsRetryable] classifies them for the
// retry middleware.
package ai
