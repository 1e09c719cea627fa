// Package cost prices model usage. [ModelCost] holds per-million-token rates
// and produces a [Breakdown] for one request; [Summary] aggregates breakdowns
// across runs. Providers expose their rate tables through a [PriceFunc].
package cost
