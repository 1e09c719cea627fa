// Package tools defines the built-in generation tools.
//
// A tool is a small form (its [Spec] lists the [Field]s) turned into one
// prompt. Structured tools ask for a reply shaped like their response type
// and decode it through [client.GenerateStructured]; text tools return the
// reply as-is with a fallback message for empty replies. [Normalize] applies
// the shared input rules before any prompt is built.
//
// [Default] registers all 21 tools in catalog order, each bound to the model
// configured for its [Tier].
package tools
