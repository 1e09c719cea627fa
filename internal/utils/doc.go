// Package utils provides shared low-level helpers: [DoPostSync] for
// synchronous JSON round-trips with AI provider APIs (returning [HTTPError]
// on non-2xx replies), Retry-After parsing, and string helpers for log output.
package utils
