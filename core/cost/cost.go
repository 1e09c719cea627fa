package cost

import (
	"fmt"
)

// ModelCost represents the pricing structure for a language model.
// Costs are expressed in USD per million tokens.
//
// Example usage:
//
//	modelCost := cost.ModelCost{
//	    InputCostPerMillion:       0.30,
//	    OutputCostPerMillion:      2.50,
//	    CachedInputCostPerMillion: 0.075,
//	    ReasoningCostPerMillion:   2.50,
//	}
type ModelCost struct {
	// InputCostPerMillion is the cost in USD per 1 million input tokens
	InputCostPerMillion float64 `json:"input_cost_per_million"`

	// OutputCostPerMillion is the cost in USD per 1 million output tokens
	OutputCostPerMillion float64 `json:"output_cost_per_million"`

	// CachedInputCostPerMillion is the cost in USD per 1 million cached input tokens (optional)
	CachedInputCostPerMillion float64 `json:"cached_input_cost_per_million,omitempty"`

	// ReasoningCostPerMillion is the cost in USD per 1 million thinking tokens (optional)
	ReasoningCostPerMillion float64 `json:"reasoning_cost_per_million,omitempty"`
}

// PriceFunc resolves the pricing of a model. ok is false for unknown models.
type PriceFunc func(model string) (mc ModelCost, ok bool)

func perMillion(tokens int, price float64) float64 {
	return (float64(tokens) / 1_000_000.0) * price
}

// CalculateInputCost calculates the cost for the given number of input tokens.
func (mc ModelCost) CalculateInputCost(tokens int) float64 {
	return perMillion(tokens, mc.InputCostPerMillion)
}

// CalculateOutputCost calculates the cost for the given number of output tokens.
func (mc ModelCost) CalculateOutputCost(tokens int) float64 {
	return perMillion(tokens, mc.OutputCostPerMillion)
}

// CalculateCachedCost calculates the cost for the given number of cached tokens.
func (mc ModelCost) CalculateCachedCost(tokens int) float64 {
	return perMillion(tokens, mc.CachedInputCostPerMillion)
}

// CalculateReasoningCost calculates the cost for the given number of reasoning tokens.
func (mc ModelCost) CalculateReasoningCost(tokens int) float64 {
	return perMillion(tokens, mc.ReasoningCostPerMillion)
}

// Breakdown prices each token class separately.
func (mc ModelCost) Breakdown(inputTokens, outputTokens, cachedTokens, reasoningTokens int) Breakdown {
	b := Breakdown{
		InputTokens:     inputTokens,
		OutputTokens:    outputTokens,
		CachedTokens:    cachedTokens,
		ReasoningTokens: reasoningTokens,
		InputCost:       mc.CalculateInputCost(inputTokens),
		OutputCost:      mc.CalculateOutputCost(outputTokens),
		CachedCost:      mc.CalculateCachedCost(cachedTokens),
		ReasoningCost:   mc.CalculateReasoningCost(reasoningTokens),
	}
	b.TotalCost = b.InputCost + b.OutputCost + b.CachedCost + b.ReasoningCost
	return b
}

// String returns a formatted string representation of the model costs.
func (mc ModelCost) String() string {
	return fmt.Sprintf("Input: $%.6f/M, Output: $%.6f/M",
		mc.InputCostPerMillion, mc.OutputCostPerMillion)
}

// Breakdown is the priced token usage of a single request.
type Breakdown struct {
	Model           string  `json:"model,omitempty"`
	InputTokens     int     `json:"input_tokens"`
	OutputTokens    int     `json:"output_tokens"`
	CachedTokens    int     `json:"cached_tokens"`
	ReasoningTokens int     `json:"reasoning_tokens"`
	InputCost       float64 `json:"input_cost"`
	OutputCost      float64 `json:"output_cost"`
	CachedCost      float64 `json:"cached_cost"`
	ReasoningCost   float64 `json:"reasoning_cost"`
	TotalCost       float64 `json:"total_cost"`
}

// Summary accumulates breakdowns across several requests, e.g. a batch run.
type Summary struct {
	Requests        int                `json:"requests"`
	InputTokens     int                `json:"input_tokens"`
	OutputTokens    int                `json:"output_tokens"`
	CachedTokens    int                `json:"cached_tokens"`
	ReasoningTokens int                `json:"reasoning_tokens"`
	PerModel        map[string]float64 `json:"per_model,omitempty"`
	TotalCost       float64            `json:"total_cost"`
	Currency        string             `json:"currency"`
}

// Add folds b into the summary.
func (s *Summary) Add(b Breakdown) {
	s.Requests++
	s.InputTokens += b.InputTokens
	s.OutputTokens += b.OutputTokens
	s.CachedTokens += b.CachedTokens
	s.ReasoningTokens += b.ReasoningTokens
	s.TotalCost += b.TotalCost
	s.Currency = "USD"

	if b.Model != "" {
		if s.PerModel == nil {
			s.PerModel = make(map[string]float64)
		}
		s.PerModel[b.Model] += b.TotalCost
	}
}

// String returns a one-line human readable summary.
func (s Summary) String() string {
	return fmt.Sprintf("%d requests, %d in / %d out tokens, $%.6f",
		s.Requests, s.InputTokens, s.OutputTokens, s.TotalCost)
}
