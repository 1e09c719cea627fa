package ai

import (
	"github.com/leofalp/aistudio/internal/jsonschema"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a single generation request sent to a provider.
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // Conversation turns, system prompt excluded
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system instruction
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`   // Optional structured output request
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional sampling configuration
}

// Message represents a single message in a conversation.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	// ContentParts carries multimodal input. When set it takes precedence
	// over Content.
	ContentParts []ContentPart `json:"content_parts,omitempty"`
}

// ContentType identifies the kind of a ContentPart.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

// ContentPart is one element of a multimodal message.
type ContentPart struct {
	Type  ContentType `json:"type"`
	Text  string      `json:"text,omitempty"`
	Image *ImageData  `json:"image,omitempty"`
}

// ImageData holds an image either inline (base64 Data) or by URI.
type ImageData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data,omitempty"` // base64, no data: prefix
	URI      string `json:"uri,omitempty"`
}

// NewTextPart returns a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: ContentTypeText, Text: text}
}

// NewImagePart returns an inline image part from base64 data.
func NewImagePart(mimeType, base64Data string) ContentPart {
	return ContentPart{Type: ContentTypeImage, Image: &ImageData{MimeType: mimeType, Data: base64Data}}
}

// NewImagePartFromURI returns an image part that references a remote file.
func NewImagePartFromURI(mimeType, uri string) ContentPart {
	return ContentPart{Type: ContentTypeImage, Image: &ImageData{MimeType: mimeType, URI: uri}}
}

// Parts returns the message content as parts, promoting plain Content to a
// single text part.
func (m Message) Parts() []ContentPart {
	if len(m.ContentParts) > 0 {
		return m.ContentParts
	}
	if m.Content == "" {
		return nil
	}
	return []ContentPart{NewTextPart(m.Content)}
}

type GenerationConfig struct {
	Temperature     *float32 `json:"temperature,omitempty"`       // Sampling temperature [0..2]; nil keeps the model default
	TopP            *float32 `json:"top_p,omitempty"`             // Nucleus sampling [0..1]
	MaxOutputTokens int      `json:"max_output_tokens,omitempty"` // Optional cap on response tokens
}

type ResponseFormat struct {
	OutputSchema *jsonschema.Schema `json:"output_schema,omitempty"` // Shape the reply must follow; implies a JSON reply
	Type         string             `json:"type,omitempty"`          // "text" or "json_object" when no schema is given
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
	ReasoningTokens  int `json:"reasoning_tokens,omitempty"` // Thinking tokens, billed as output
	CachedTokens     int `json:"cached_tokens,omitempty"`
}

// Add accumulates other into u. A nil receiver is left untouched.
func (u *Usage) Add(other *Usage) {
	if u == nil || other == nil {
		return
	}
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
	u.ReasoningTokens += other.ReasoningTokens
	u.CachedTokens += other.CachedTokens
}

// ChatResponse represents the response from a generation call.
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`

	Refusal   string `json:"refusal,omitempty"`   // Set when the prompt or reply was blocked
	Reasoning string `json:"reasoning,omitempty"` // Thought summary, when the model returns one
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model reply
)

// Normalised finish reasons shared by all providers.
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonContentFilter = "content_filter"
	FinishReasonOther         = "other"
)
