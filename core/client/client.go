package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leofalp/aistudio/core/cost"
	"github.com/leofalp/aistudio/internal/jsonschema"
	"github.com/leofalp/aistudio/providers/ai"
)

// correctionTemplate is the user turn appended after an unusable reply.
const correctionTemplate = "Your previous reply was not usable: %s. Reply again with only JSON that matches the requested schema."

// Generator is the single generation capability the tools depend on. *Client
// implements it; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (*Reply, error)
}

// ClientOptions holds the settings applied by functional options passed to [New].
type ClientOptions struct {
	DefaultModel     string
	SystemPrompt     string
	GenerationConfig *ai.GenerationConfig
	Middlewares      []Middleware
	Pricing          cost.PriceFunc
	Logger           *slog.Logger

	// StructuredAttempts is the default attempt limit GenerateStructured
	// applies to this client. Zero keeps the package default.
	StructuredAttempts int
}

// WithDefaultModel sets the model used when a Prompt does not name one.
func WithDefaultModel(model string) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.DefaultModel = model
	}
}

// WithSystemPrompt sets the system instruction sent with every request that
// does not carry its own.
func WithSystemPrompt(prompt string) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.SystemPrompt = prompt
	}
}

// WithGenerationConfig sets default sampling parameters.
func WithGenerationConfig(cfg *ai.GenerationConfig) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.GenerationConfig = cfg
	}
}

// WithMiddleware appends middlewares to the send chain. The first middleware
// across all calls is the outermost.
func WithMiddleware(middlewares ...Middleware) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.Middlewares = append(o.Middlewares, middlewares...)
	}
}

// WithPricing sets the lookup used to price each reply.
func WithPricing(pricing cost.PriceFunc) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.Pricing = pricing
	}
}

// WithLogger sets the logger used for client-level diagnostics.
func WithLogger(logger *slog.Logger) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.Logger = logger
	}
}

// WithStructuredAttempts sets the default attempt limit for
// GenerateStructured calls made through this client.
func WithStructuredAttempts(n int) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.StructuredAttempts = n
	}
}

// Client sends prompts through the middleware chain to a provider. It is
// immutable after New and safe for concurrent use.
type Client struct {
	provider ai.Provider
	send     SendFunc
	opts     ClientOptions
}

// New builds a Client around provider.
func New(provider ai.Provider, opts ...func(*ClientOptions)) (*Client, error) {
	if provider == nil {
		return nil, errors.New("client: provider is required")
	}

	options := ClientOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Client{
		provider: provider,
		send:     buildSendChain(provider, options.Middlewares),
		opts:     options,
	}, nil
}

// Provider returns the underlying provider.
func (c *Client) Provider() ai.Provider {
	return c.provider
}

// MaxAttempts reports the configured structured attempt limit, or 0.
func (c *Client) MaxAttempts() int {
	return c.opts.StructuredAttempts
}

// Prompt is one generation request.
type Prompt struct {
	Model  string // empty means the client default
	System string // empty means the client default
	Text   string
	Images []ai.ImageData // sent before Text

	// Schema, when set, asks for a JSON reply of that shape.
	Schema *jsonschema.Schema
	Config *ai.GenerationConfig

	// Previous carries an unusable earlier reply; Generate turns it into a
	// correction exchange after the original prompt.
	Previous *Attempt
}

// Attempt is an earlier reply and what was wrong with it.
type Attempt struct {
	Content string
	Problem string
}

// Reply is the outcome of one Generate call.
type Reply struct {
	Content  string
	Response *ai.ChatResponse
	Model    string
	Cost     cost.Breakdown
	Duration time.Duration

	// Fallback is set by GenerateText when Content is the caller's fallback
	// rather than model output.
	Fallback bool
}

// Generate builds a single request from prompt and sends it through the chain.
func (c *Client) Generate(ctx context.Context, prompt Prompt) (*Reply, error) {
	request := c.buildRequest(prompt)

	start := time.Now()
	response, err := c.send(ctx, request)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, fmt.Errorf("client: provider %s returned no response", c.provider.Name())
	}

	model := response.Model
	if model == "" {
		model = request.Model
	}

	reply := &Reply{
		Content:  response.Content,
		Response: response,
		Model:    model,
		Duration: time.Since(start),
	}
	reply.Cost = c.price(model, response.Usage)

	return reply, nil
}

func (c *Client) buildRequest(prompt Prompt) ai.ChatRequest {
	model := prompt.Model
	if model == "" {
		model = c.opts.DefaultModel
	}
	system := prompt.System
	if system == "" {
		system = c.opts.SystemPrompt
	}
	config := prompt.Config
	if config == nil {
		config = c.opts.GenerationConfig
	}

	parts := make([]ai.ContentPart, 0, len(prompt.Images)+1)
	for _, img := range prompt.Images {
		parts = append(parts, ai.ContentPart{Type: ai.ContentTypeImage, Image: &img})
	}
	if prompt.Text != "" {
		parts = append(parts, ai.NewTextPart(prompt.Text))
	}

	messages := []ai.Message{{Role: ai.RoleUser, ContentParts: parts}}
	if prompt.Previous != nil {
		messages = append(messages,
			ai.Message{Role: ai.RoleAssistant, Content: prompt.Previous.Content},
			ai.Message{Role: ai.RoleUser, Content: fmt.Sprintf(correctionTemplate, prompt.Previous.Problem)},
		)
	}

	request := ai.ChatRequest{
		Model:            model,
		Messages:         messages,
		SystemPrompt:     system,
		GenerationConfig: config,
	}
	if prompt.Schema != nil {
		request.ResponseFormat = &ai.ResponseFormat{OutputSchema: prompt.Schema}
	}

	return request
}

func (c *Client) price(model string, usage *ai.Usage) cost.Breakdown {
	if usage == nil {
		return cost.Breakdown{Model: model}
	}

	input := usage.PromptTokens - usage.CachedTokens
	if input < 0 {
		input = 0
	}

	var price cost.ModelCost
	if c.opts.Pricing != nil {
		var ok bool
		if price, ok = c.opts.Pricing(model); !ok {
			c.opts.Logger.Debug("no pricing for model", slog.String("model", model))
		}
	}

	// Unknown models keep their token counts at zero cost.
	breakdown := price.Breakdown(input, usage.CompletionTokens, usage.CachedTokens, usage.ReasoningTokens)
	breakdown.Model = model
	return breakdown
}
