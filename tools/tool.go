package tools

import (
	"context"
	"errors"

	"github.com/leofalp/aistudio/core/client"
	"github.com/leofalp/aistudio/core/cost"
	"github.com/leofalp/aistudio/providers/ai"
	"github.com/leofalp/aistudio/providers/ai/gemini"
)

var (
	// ErrInvalidInput is wrapped by every input normalization failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownTool is returned by Registry.Get for unregistered names.
	ErrUnknownTool = errors.New("unknown tool")
)

// Tier selects which configured model a tool runs on.
type Tier string

const (
	TierText   Tier = "text"
	TierVision Tier = "vision"
	TierCoding Tier = "coding"
)

// FieldKind is the input widget a field maps to.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
	KindNumber   FieldKind = "number"
	KindImage    FieldKind = "image"
)

// Field describes one form input of a tool.
type Field struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"kind"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"` // select only
	Default     string    `json:"default,omitempty"`
	Min         int       `json:"min,omitempty"` // number only
	Max         int       `json:"max,omitempty"` // number only
	Required    bool      `json:"required,omitempty"`
}

// Spec is the static description of a tool.
type Spec struct {
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Tier        Tier    `json:"tier"`
	Model       string  `json:"model"`
	Output      string  `json:"output"` // "text" or "json"
	Fields      []Field `json:"fields"`
}

// Input is what a caller submits to a tool.
type Input struct {
	Fields map[string]string `json:"fields" yaml:"fields"`
	Image  *ai.ImageData     `json:"image,omitempty" yaml:"image,omitempty"`
}

// Output is the result of a tool run. Data holds the decoded reply for
// structured tools; Text holds it for text tools.
type Output struct {
	Tool     string       `json:"tool"`
	Model    string       `json:"model"`
	Text     string       `json:"text,omitempty"`
	Data     any          `json:"data,omitempty"`
	Fallback bool         `json:"fallback,omitempty"`
	Attempts int          `json:"attempts"`
	Usage    ai.Usage     `json:"usage"`
	Cost     cost.Summary `json:"cost"`
}

// Tool turns a normalized form into one generation call.
type Tool interface {
	Spec() Spec
	Run(ctx context.Context, g client.Generator, in Input) (*Output, error)
}

// Models assigns a model name to each tier.
type Models struct {
	Text   string `yaml:"text"`
	Vision string `yaml:"vision"`
	Coding string `yaml:"coding"`
}

// DefaultModels returns the stock model assignment.
func DefaultModels() Models {
	return Models{
		Text:   gemini.Model25Flash,
		Vision: gemini.Model25Flash,
		Coding: gemini.Model30ProPreview,
	}
}

// For returns the model configured for tier, falling back to the defaults for
// empty entries.
func (m Models) For(tier Tier) string {
	defaults := DefaultModels()
	switch tier {
	case TierVision:
		return firstNonEmpty(m.Vision, defaults.Vision)
	case TierCoding:
		return firstNonEmpty(m.Coding, defaults.Coding)
	default:
		return firstNonEmpty(m.Text, defaults.Text)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
