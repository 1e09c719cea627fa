// Package client turns a prompt into one provider call and its reply.
//
// [New] wraps an [ai.Provider] in a middleware chain (see the middleware
// subpackage for retry, timeout and logging) and applies defaults such as the
// model and system prompt. [Client.Generate] sends a single request built from
// text, images, an optional response schema and an optional correction turn.
//
// [GenerateStructured] layers schema derivation, JSON repair, validation and
// correction retries on top of any [Generator]; [GenerateText] returns plain
// text with a caller-supplied fallback for empty replies.
package client
