package genaisdk

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/leofalp/aistudio/providers/ai"
)

const (
	providerName = "genai"
	defaultModel = "gemini-2.5-flash"
)

// Options configures the SDK client.
type Options struct {
	APIKey     string
	BaseURL    string // optional override, e.g. a proxy
	HTTPClient *http.Client
}

// Provider implements ai.Provider on top of the official google.golang.org/genai SDK.
type Provider struct {
	client *genai.Client
}

// New creates an SDK-backed provider for the Gemini API backend.
func New(ctx context.Context, opts Options) (*Provider, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", providerName, ai.ErrMissingAPIKey)
	}

	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Provider{client: client}, nil
}

// Name implements ai.Provider.
func (p *Provider) Name() string { return providerName }

// SendMessage implements ai.Provider.
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	model := request.Model
	if model == "" {
		model = defaultModel
	}

	contents, err := toContents(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", providerName, err)
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, toConfig(request))
	if err != nil {
		return nil, toAPIError(err)
	}

	result := fromResponse(resp)
	if result.Model == "" {
		result.Model = model
	}
	return result, nil
}

func toContents(messages []ai.Message) ([]*genai.Content, error) {
	var contents []*genai.Content

	for _, msg := range messages {
		role := genai.Role(genai.RoleUser)
		if msg.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}

		var parts []*genai.Part
		for _, cp := range msg.Parts() {
			switch cp.Type {
			case ai.ContentTypeText:
				if cp.Text != "" {
					parts = append(parts, genai.NewPartFromText(cp.Text))
				}
			case ai.ContentTypeImage:
				if cp.Image == nil {
					continue
				}
				if cp.Image.URI != "" {
					parts = append(parts, genai.NewPartFromURI(cp.Image.URI, cp.Image.MimeType))
					continue
				}
				data, err := base64.StdEncoding.DecodeString(cp.Image.Data)
				if err != nil {
					return nil, fmt.Errorf("decode image data: %w", err)
				}
				parts = append(parts, genai.NewPartFromBytes(data, cp.Image.MimeType))
			}
		}

		if len(parts) > 0 {
			contents = append(contents, genai.NewContentFromParts(parts, role))
		}
	}

	return contents, nil
}

func toConfig(request ai.ChatRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	if request.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(request.SystemPrompt, genai.RoleUser)
	}

	if gc := request.GenerationConfig; gc != nil {
		cfg.Temperature = gc.Temperature
		cfg.TopP = gc.TopP
		if gc.MaxOutputTokens > 0 {
			cfg.MaxOutputTokens = int32(gc.MaxOutputTokens)
		}
	}

	if rf := request.ResponseFormat; rf != nil {
		switch {
		case rf.OutputSchema != nil:
			cfg.ResponseMIMEType = "application/json"
			cfg.ResponseSchema = toSchema(rf.OutputSchema)
		case rf.Type == "json_object":
			cfg.ResponseMIMEType = "application/json"
		}
	}

	return cfg
}

func fromResponse(resp *genai.GenerateContentResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{}
	if resp == nil {
		result.FinishReason = ai.FinishReasonOther
		return result
	}

	result.Id = resp.ResponseID
	result.Model = resp.ModelVersion

	if um := resp.UsageMetadata; um != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     int(um.PromptTokenCount),
			CompletionTokens: int(um.CandidatesTokenCount),
			TotalTokens:      int(um.TotalTokenCount),
			ReasoningTokens:  int(um.ThoughtsTokenCount),
			CachedTokens:     int(um.CachedContentTokenCount),
		}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		result.FinishReason = ai.FinishReasonOther
		if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != "" {
			result.FinishReason = ai.FinishReasonContentFilter
			result.Refusal = "prompt blocked: " + string(pf.BlockReason)
		}
		return result
	}

	cand := resp.Candidates[0]
	result.FinishReason = mapFinishReason(cand.FinishReason)

	if cand.Content != nil {
		var text, thoughts []string
		for _, part := range cand.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			if part.Thought {
				thoughts = append(thoughts, part.Text)
			} else {
				text = append(text, part.Text)
			}
		}
		result.Content = strings.Join(text, "")
		result.Reasoning = strings.Join(thoughts, "\n")
	}

	if result.FinishReason == ai.FinishReasonContentFilter && result.Content == "" {
		result.Refusal = "response blocked: " + string(cand.FinishReason)
	}

	return result
}

func mapFinishReason(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonStop, "":
		return ai.FinishReasonStop
	case genai.FinishReasonMaxTokens:
		return ai.FinishReasonLength
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonBlocklist,
		genai.FinishReasonProhibitedContent, genai.FinishReasonSPII:
		return ai.FinishReasonContentFilter
	default:
		return ai.FinishReasonOther
	}
}

// toAPIError maps the SDK's error type onto *ai.APIError so retry
// classification is backend independent.
func toAPIError(err error) error {
	var sdkErr genai.APIError
	if !errors.As(err, &sdkErr) {
		return err
	}
	return &ai.APIError{
		Provider:   providerName,
		StatusCode: sdkErr.Code,
		Status:     sdkErr.Status,
		Message:    sdkErr.Message,
	}
}
