package genaisdk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/leofalp/aistudio/internal/jsonschema"
	"github.com/leofalp/aistudio/providers/ai"
)

type recipe struct {
	Name        string   `json:"name"`
	Difficulty  string   `json:"difficulty" jsonschema:"enum=Easy,enum=Medium,enum=Hard"`
	Ingredients []string `json:"ingredients"`
	Calories    int      `json:"calories,omitempty"`
}

func TestToSchema(t *testing.T) {
	got := toSchema(jsonschema.MustGenerate[recipe]())

	require.NotNil(t, got)
	assert.Equal(t, genai.TypeObject, got.Type)
	assert.Equal(t, []string{"name", "difficulty", "ingredients", "calories"}, got.PropertyOrdering)
	assert.Equal(t, []string{"name", "difficulty", "ingredients"}, got.Required)
	assert.Equal(t, []string{"Easy", "Medium", "Hard"}, got.Properties["difficulty"].Enum)
	assert.Equal(t, genai.TypeArray, got.Properties["ingredients"].Type)
	assert.Equal(t, genai.TypeString, got.Properties["ingredients"].Items.Type)
	assert.Equal(t, genai.TypeInteger, got.Properties["calories"].Type)
	assert.Nil(t, got.Properties["name"].Nullable)
}

func TestToSchema_NilAndNullable(t *testing.T) {
	assert.Nil(t, toSchema(nil))

	got := toSchema(&jsonschema.Schema{Type: "string", Nullable: true})
	require.NotNil(t, got.Nullable)
	assert.True(t, *got.Nullable)
}

func TestToContents(t *testing.T) {
	contents, err := toContents([]ai.Message{
		{Role: ai.RoleUser, ContentParts: []ai.ContentPart{ai.NewImagePart("image/png", "aGk="), ai.NewTextPart("describe")}},
		{Role: ai.RoleAssistant, Content: "{}"},
		{Role: ai.RoleUser},
	})
	require.NoError(t, err)
	require.Len(t, contents, 2)

	assert.Equal(t, "user", contents[0].Role)
	require.Len(t, contents[0].Parts, 2)
	assert.Equal(t, []byte("hi"), contents[0].Parts[0].InlineData.Data)
	assert.Equal(t, "image/png", contents[0].Parts[0].InlineData.MIMEType)
	assert.Equal(t, "describe", contents[0].Parts[1].Text)
	assert.Equal(t, "model", contents[1].Role)
}

func TestToContents_BadBase64(t *testing.T) {
	_, err := toContents([]ai.Message{{Role: ai.RoleUser, ContentParts: []ai.ContentPart{ai.NewImagePart("image/png", "%%%")}}})
	assert.Error(t, err)
}

func TestToConfig(t *testing.T) {
	temp := float32(0.2)
	cfg := toConfig(ai.ChatRequest{
		SystemPrompt:     "be brief",
		GenerationConfig: &ai.GenerationConfig{Temperature: &temp, MaxOutputTokens: 128},
		ResponseFormat:   &ai.ResponseFormat{OutputSchema: jsonschema.MustGenerate[recipe]()},
	})

	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be brief", cfg.SystemInstruction.Parts[0].Text)
	assert.Equal(t, &temp, cfg.Temperature)
	assert.Equal(t, int32(128), cfg.MaxOutputTokens)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	require.NotNil(t, cfg.ResponseSchema)
	assert.Equal(t, genai.TypeObject, cfg.ResponseSchema.Type)

	plain := toConfig(ai.ChatRequest{})
	assert.Empty(t, plain.ResponseMIMEType)
	assert.Nil(t, plain.SystemInstruction)
}

func TestFromResponse(t *testing.T) {
	got := fromResponse(&genai.GenerateContentResponse{
		ResponseID:   "r1",
		ModelVersion: "gemini-2.5-flash",
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonStop,
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "hmm", Thought: true},
				{Text: `{"a":`},
				{Text: `1}`},
			}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{PromptTokenCount: 3, CandidatesTokenCount: 4, TotalTokenCount: 9, ThoughtsTokenCount: 2},
	})

	assert.Equal(t, `{"a":1}`, got.Content)
	assert.Equal(t, "hmm", got.Reasoning)
	assert.Equal(t, ai.FinishReasonStop, got.FinishReason)
	assert.Equal(t, "r1", got.Id)
	assert.Equal(t, &ai.Usage{PromptTokens: 3, CompletionTokens: 4, TotalTokens: 9, ReasoningTokens: 2}, got.Usage)
}

func TestFromResponse_Blocked(t *testing.T) {
	got := fromResponse(&genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
	})
	assert.Equal(t, ai.FinishReasonContentFilter, got.FinishReason)
	assert.Contains(t, got.Refusal, "SAFETY")

	got = fromResponse(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}})
	assert.Equal(t, "response blocked: SAFETY", got.Refusal)

	assert.Equal(t, ai.FinishReasonOther, fromResponse(nil).FinishReason)
}

func TestToAPIError(t *testing.T) {
	err := toAPIError(genai.APIError{Code: 503, Status: "UNAVAILABLE", Message: "overloaded"})

	var apiErr *ai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 503, apiErr.StatusCode)
	assert.Equal(t, "UNAVAILABLE", apiErr.Status)
	assert.True(t, ai.IsRetryable(err))

	plain := errors.New("boom")
	assert.Same(t, plain, toAPIError(plain))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.ErrorIs(t, err, ai.ErrMissingAPIKey)
}

func TestSendMessage_AgainstFakeServer(t *testing.T) {
	var gotKey string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent") {
			http.NotFound(w, r)
			return
		}
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"hello"}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":1,"candidatesTokenCount":1,"totalTokenCount":2}}`)
	}))
	defer server.Close()

	p, err := New(context.Background(), Options{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)
	assert.Equal(t, "genai", p.Name())

	resp, err := p.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)
	assert.Equal(t, "k", gotKey)
	assert.NotEmpty(t, gotBody["contents"])
}
