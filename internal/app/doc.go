// Package app assembles a Runner from configuration: the Gemini provider,
// the client middleware chain, the tool registry and the history store.
// The CLI and the HTTP server both drive tools through a Runner.
package app
