package gemini

import (
	"strings"

	"github.com/leofalp/aistudio/core/cost"
)

// Model name constants for the Gemini models the tools run on.
const (
	Model25Pro       = "gemini-2.5-pro"
	Model25Flash     = "gemini-2.5-flash"
	Model25FlashLite = "gemini-2.5-flash-lite"

	Model20Flash     = "gemini-2.0-flash"
	Model20FlashLite = "gemini-2.0-flash-lite"

	Model30ProPreview   = "gemini-3-pro-preview"
	Model30FlashPreview = "gemini-3-flash-preview"
)

// ModelPricing holds USD per million tokens, standard (≤200k context) tier.
// Thinking tokens are billed at the output rate.
var ModelPricing = map[string]cost.ModelCost{
	Model25Pro: {
		InputCostPerMillion:       1.25,
		OutputCostPerMillion:      10.00,
		CachedInputCostPerMillion: 0.3125,
		ReasoningCostPerMillion:   10.00,
	},
	Model25Flash: {
		InputCostPerMillion:       0.30,
		OutputCostPerMillion:      2.50,
		CachedInputCostPerMillion: 0.075,
		ReasoningCostPerMillion:   2.50,
	},
	Model25FlashLite: {
		InputCostPerMillion:       0.10,
		OutputCostPerMillion:      0.40,
		CachedInputCostPerMillion: 0.025,
		ReasoningCostPerMillion:   0.40,
	},
	Model20Flash: {
		InputCostPerMillion:       0.10,
		OutputCostPerMillion:      0.40,
		CachedInputCostPerMillion: 0.025,
		ReasoningCostPerMillion:   0.40,
	},
	Model20FlashLite: {
		InputCostPerMillion:  0.075,
		OutputCostPerMillion: 0.30,
	},
	Model30ProPreview: {
		InputCostPerMillion:       2.00,
		OutputCostPerMillion:      12.00,
		CachedInputCostPerMillion: 0.20,
		ReasoningCostPerMillion:   12.00,
	},
	Model30FlashPreview: {
		InputCostPerMillion:       0.50,
		OutputCostPerMillion:      3.00,
		CachedInputCostPerMillion: 0.05,
		ReasoningCostPerMillion:   3.00,
	},
}

// GetModelCost returns the pricing for model. Versioned names such as
// "gemini-2.0-flash-001" and "models/" prefixes are normalised first.
// It satisfies cost.PriceFunc.
func GetModelCost(model string) (cost.ModelCost, bool) {
	if mc, ok := ModelPricing[model]; ok {
		return mc, true
	}
	mc, ok := ModelPricing[normalizeModelName(model)]
	return mc, ok
}

// normalizeModelName maps model variants to the pricing table keys.
// Examples:
//   - "models/gemini-2.5-flash" -> "gemini-2.5-flash"
//   - "gemini-2.0-flash-001" -> "gemini-2.0-flash"
//   - "gemini-2.5-flash-latest" -> "gemini-2.5-flash"
func normalizeModelName(model string) string {
	normalized := strings.TrimPrefix(model, "models/")

	suffixes := []string{"-001", "-002", "-003", "-latest", "-exp"}
	for _, suffix := range suffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = strings.TrimSuffix(normalized, suffix)
			break
		}
	}

	if i := strings.Index(normalized, "-preview-"); i > 0 {
		normalized = normalized[:i]
	}

	return normalized
}
