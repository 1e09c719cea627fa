package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/leofalp/aistudio/internal/utils"
	"github.com/leofalp/aistudio/providers/ai"
)

const retryInfoType = "type.googleapis.com/google.rpc.RetryInfo"

// requestToGemini converts an ai.ChatRequest to a Gemini generateContentRequest.
func requestToGemini(request ai.ChatRequest) (generateContentRequest, error) {
	req := generateContentRequest{}

	if request.SystemPrompt != "" {
		req.SystemInstruction = &systemInstruction{
			Parts: []part{{Text: request.SystemPrompt}},
		}
	}

	req.Contents = buildContents(request.Messages)

	gc, err := buildGenerationConfig(request.GenerationConfig, request.ResponseFormat)
	if err != nil {
		return req, err
	}
	req.GenerationConfig = gc

	return req, nil
}

// buildContents converts messages to Gemini contents. Role mapping:
// user -> user, assistant -> model. Messages without parts are dropped.
func buildContents(messages []ai.Message) []content {
	var contents []content

	for _, msg := range messages {
		role := "user"
		if msg.Role == ai.RoleAssistant {
			role = "model"
		}

		parts := contentPartsToGeminiParts(msg.Parts())
		if len(parts) == 0 {
			continue
		}
		contents = append(contents, content{Role: role, Parts: parts})
	}

	return contents
}

// contentPartsToGeminiParts converts generic parts. Images become fileData
// when a URI is set and inlineData otherwise.
func contentPartsToGeminiParts(contentParts []ai.ContentPart) []part {
	var parts []part
	for _, contentPart := range contentParts {
		switch contentPart.Type {
		case ai.ContentTypeText:
			if contentPart.Text != "" {
				parts = append(parts, part{Text: contentPart.Text})
			}

		case ai.ContentTypeImage:
			img := contentPart.Image
			if img == nil {
				continue
			}
			if img.URI != "" {
				parts = append(parts, part{FileData: &fileData{MimeType: img.MimeType, FileURI: img.URI}})
			} else {
				parts = append(parts, part{InlineData: &inlineData{MimeType: img.MimeType, Data: img.Data}})
			}
		}
	}
	return parts
}

// buildGenerationConfig converts sampling settings and the response format.
// A schema forces application/json output.
func buildGenerationConfig(cfg *ai.GenerationConfig, respFmt *ai.ResponseFormat) (*generationConfig, error) {
	if cfg == nil && respFmt == nil {
		return nil, nil
	}

	gc := &generationConfig{}

	if cfg != nil {
		if cfg.Temperature != nil {
			t := float64(*cfg.Temperature)
			gc.Temperature = &t
		}
		if cfg.TopP != nil {
			p := float64(*cfg.TopP)
			gc.TopP = &p
		}
		if cfg.MaxOutputTokens > 0 {
			n := cfg.MaxOutputTokens
			gc.MaxOutputTokens = &n
		}
	}

	if respFmt != nil {
		switch {
		case respFmt.OutputSchema != nil:
			schemaBytes, err := json.Marshal(respFmt.OutputSchema)
			if err != nil {
				return nil, fmt.Errorf("encode response schema: %w", err)
			}
			gc.ResponseMimeType = "application/json"
			gc.ResponseSchema = schemaBytes
		case respFmt.Type == "json_object":
			gc.ResponseMimeType = "application/json"
		}
	}

	return gc, nil
}

// geminiToGeneric converts a Gemini generateContentResponse to ai.ChatResponse.
func geminiToGeneric(resp generateContentResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:    resp.ResponseID,
		Model: resp.ModelVersion,
	}
	if result.Id == "" {
		result.Id = fmt.Sprintf("gemini-%d", time.Now().UnixNano())
	}

	if resp.UsageMetadata != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
			ReasoningTokens:  resp.UsageMetadata.ThoughtsTokenCount,
			CachedTokens:     resp.UsageMetadata.CachedContentTokenCount,
		}
	}

	if len(resp.Candidates) == 0 {
		result.FinishReason = ai.FinishReasonOther
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			result.FinishReason = ai.FinishReasonContentFilter
			result.Refusal = "prompt blocked: " + resp.PromptFeedback.BlockReason
		}
		return result
	}

	candidate := resp.Candidates[0]
	result.FinishReason = mapFinishReason(candidate.FinishReason)

	if candidate.Content != nil {
		var textParts, reasoningParts []string
		for _, p := range candidate.Content.Parts {
			if p.Text == "" {
				continue
			}
			if p.Thought {
				reasoningParts = append(reasoningParts, p.Text)
			} else {
				textParts = append(textParts, p.Text)
			}
		}
		// JSON replies may be split across parts; join without separators.
		result.Content = strings.Join(textParts, "")
		result.Reasoning = strings.Join(reasoningParts, "\n")
	}

	if result.FinishReason == ai.FinishReasonContentFilter && result.Content == "" {
		result.Refusal = "response blocked: " + candidate.FinishReason
	}

	return result
}

// mapFinishReason converts Gemini finish reason to the normalised value.
func mapFinishReason(geminiReason string) string {
	switch geminiReason {
	case "STOP", "":
		return ai.FinishReasonStop
	case "MAX_TOKENS":
		return ai.FinishReasonLength
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII":
		return ai.FinishReasonContentFilter
	default:
		return ai.FinishReasonOther
	}
}

// toAPIError converts a transport-level HTTP error into *ai.APIError, decoding
// Google's error envelope when present. Other errors pass through unchanged.
func toAPIError(err error) error {
	var httpErr *utils.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	apiErr := &ai.APIError{
		Provider:   providerName,
		StatusCode: httpErr.StatusCode,
		Message:    strings.TrimSpace(utils.TruncateString(string(httpErr.Body), 300)),
		RetryAfter: httpErr.RetryAfter,
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(httpErr.StatusCode)
	}

	var envelope errorEnvelope
	if json.Unmarshal(httpErr.Body, &envelope) == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
		apiErr.Status = envelope.Error.Status
		for _, d := range envelope.Error.Details {
			if d.Type != retryInfoType || d.RetryDelay == "" {
				continue
			}
			if delay, perr := time.ParseDuration(d.RetryDelay); perr == nil && delay > apiErr.RetryAfter {
				apiErr.RetryAfter = delay
			}
		}
	}

	return apiErr
}
