package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/leofalp/aistudio/core/client"
	"github.com/leofalp/aistudio/internal/utils"
	"github.com/leofalp/aistudio/providers/ai"
)

// LogLevel controls how much detail the logging middleware emits per request.
type LogLevel int

const (
	// LogLevelMinimal logs the model, duration and token counts.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds the message count, image count, whether a response
	// schema was requested, and the finish reason.
	LogLevelStandard

	// LogLevelVerbose adds the prompt text and the reply, each truncated to
	// 500 characters.
	//
	// WARNING: prompts and replies may contain personal data. Use only for
	// local debugging.
	LogLevelVerbose
)

// ParseLogLevel maps "minimal", "standard" and "verbose" to a LogLevel.
// Anything else yields LogLevelStandard.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal":
		return LogLevelMinimal
	case "verbose":
		return LogLevelVerbose
	default:
		return LogLevelStandard
	}
}

// truncateLen is the maximum content length included in verbose log output.
const truncateLen = 500

// NewLoggingMiddleware emits slog entries before and after every provider
// call. A nil logger means slog.Default().
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) client.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next client.SendFunc) client.SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			logger.InfoContext(ctx, "llm send",
				buildRequestAttrs(request, level)...,
			)

			start := time.Now()
			response, err := next(ctx, request)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "llm send failed",
					slog.String("model", request.Model),
					slog.Duration("duration", elapsed),
					slog.String("error", err.Error()),
				)
				return nil, err
			}

			logger.InfoContext(ctx, "llm send completed",
				buildResponseAttrs(response, elapsed, level)...,
			)

			return response, nil
		}
	}
}

// buildRequestAttrs returns slog attributes for an outgoing request.
func buildRequestAttrs(request ai.ChatRequest, level LogLevel) []any {
	attrs := []any{
		slog.String("model", request.Model),
	}

	if level >= LogLevelStandard {
		attrs = append(attrs,
			slog.Int("message_count", len(request.Messages)),
			slog.Int("image_count", countImages(request.Messages)),
			slog.Bool("structured", request.ResponseFormat != nil && request.ResponseFormat.OutputSchema != nil),
		)
	}

	if level >= LogLevelVerbose && len(request.Messages) > 0 {
		first := request.Messages[0]
		attrs = append(attrs,
			slog.String("first_message_role", string(first.Role)),
			slog.String("first_message_content", utils.TruncateString(messageText(first), truncateLen)),
		)
	}
	if level >= LogLevelVerbose && request.ResponseFormat != nil && request.ResponseFormat.OutputSchema != nil {
		attrs = append(attrs,
			slog.String("response_schema", utils.TruncateString(utils.JSONToString(request.ResponseFormat.OutputSchema), truncateLen)),
		)
	}

	return attrs
}

// buildResponseAttrs returns slog attributes for a completed response.
func buildResponseAttrs(response *ai.ChatResponse, elapsed time.Duration, level LogLevel) []any {
	attrs := []any{
		slog.String("model", response.Model),
		slog.Duration("duration", elapsed),
	}

	if response.Usage != nil {
		attrs = append(attrs,
			slog.Int("prompt_tokens", response.Usage.PromptTokens),
			slog.Int("completion_tokens", response.Usage.CompletionTokens),
			slog.Int("total_tokens", response.Usage.TotalTokens),
		)
	}

	if level >= LogLevelStandard {
		if response.FinishReason != "" {
			attrs = append(attrs, slog.String("finish_reason", response.FinishReason))
		}
		if response.Refusal != "" {
			attrs = append(attrs, slog.String("refusal", response.Refusal))
		}
	}

	if level >= LogLevelVerbose && response.Content != "" {
		attrs = append(attrs,
			slog.String("response_content", utils.TruncateString(response.Content, truncateLen)),
		)
	}

	return attrs
}

func countImages(messages []ai.Message) int {
	n := 0
	for _, m := range messages {
		for _, p := range m.ContentParts {
			if p.Type == ai.ContentTypeImage {
				n++
			}
		}
	}
	return n
}

func messageText(m ai.Message) string {
	var b strings.Builder
	for _, p := range m.Parts() {
		if p.Type == ai.ContentTypeText {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}
