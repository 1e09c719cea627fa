// Package parse recovers structured data from raw model output.
//
// Replies requested as JSON still arrive wrapped in markdown fences, trailed
// by prose, truncated, or with schema-style {"type","value"} envelopes.
// [NormalizeJSON] produces a valid JSON document from such text and
// [ParseStringAs] decodes it into a Go type. [UnwrapSchemaValues] strips the
// envelopes so a reply can be validated again.
package parse
