package client

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/leofalp/aistudio/core/cost"
	"github.com/leofalp/aistudio/core/parse"
	"github.com/leofalp/aistudio/internal/jsonschema"
	"github.com/leofalp/aistudio/providers/ai"
)

const defaultMaxAttempts = 2

var (
	// ErrEmptyResponse means the model replied with no content.
	ErrEmptyResponse = errors.New("no response from AI")

	// ErrBlocked means the prompt or reply was withheld by a safety filter.
	ErrBlocked = errors.New("response blocked")

	// ErrInvalidOutput means every attempt produced content that could not be
	// turned into the requested type.
	ErrInvalidOutput = errors.New("invalid structured output")
)

// Structured is a reply decoded into T.
type Structured[T any] struct {
	Data     T
	Reply    *Reply // the reply Data was decoded from
	Attempts int
	Usage    ai.Usage     // summed over all attempts
	Cost     cost.Summary // summed over all attempts
}

type structuredOptions struct {
	maxAttempts int
}

// StructuredOption configures GenerateStructured.
type StructuredOption func(*structuredOptions)

// WithMaxAttempts bounds the number of generate calls, correction turns
// included. Values below 1 are treated as 1.
func WithMaxAttempts(n int) StructuredOption {
	return func(o *structuredOptions) {
		if n < 1 {
			n = 1
		}
		o.maxAttempts = n
	}
}

// attemptLimiter is implemented by generators that carry their own default
// attempt limit.
type attemptLimiter interface {
	MaxAttempts() int
}

var schemaCache sync.Map // reflect.Type -> *jsonschema.Schema

func schemaFor[T any]() (*jsonschema.Schema, error) {
	t := reflect.TypeFor[T]()
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(*jsonschema.Schema), nil
	}

	schema, err := jsonschema.Generate[T]()
	if err != nil {
		return nil, err
	}
	actual, _ := schemaCache.LoadOrStore(t, schema)
	return actual.(*jsonschema.Schema), nil
}

// GenerateStructured asks for a JSON reply shaped like T and decodes it.
//
// When p.Schema is nil the schema is derived from T. Each reply is repaired,
// validated against the schema (after unwrapping echoed {"type","value"}
// pairs if needed), unmarshalled and, when *T is a Checker, checked; a reply
// that fails any step is sent back with the problem as a correction turn, up
// to the attempt limit.
// An empty reply is retried as a fresh prompt. Transport errors from g are
// returned as-is.
func GenerateStructured[T any](ctx context.Context, g Generator, p Prompt, opts ...StructuredOption) (*Structured[T], error) {
	options := structuredOptions{maxAttempts: defaultMaxAttempts}
	if l, ok := g.(attemptLimiter); ok && l.MaxAttempts() > 0 {
		options.maxAttempts = l.MaxAttempts()
	}
	for _, opt := range opts {
		opt(&options)
	}

	if p.Schema == nil {
		schema, err := schemaFor[T]()
		if err != nil {
			return nil, fmt.Errorf("derive response schema: %w", err)
		}
		p.Schema = schema
	}
	validator, err := jsonschema.ValidatorFor(p.Schema)
	if err != nil {
		return nil, err
	}

	out := &Structured[T]{}
	var lastErr error
	allEmpty := true

	for attempt := 1; attempt <= options.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		reply, err := g.Generate(ctx, p)
		if err != nil {
			return nil, err
		}
		out.Attempts = attempt
		if reply.Response != nil {
			out.Usage.Add(reply.Response.Usage)
		}
		out.Cost.Add(reply.Cost)

		if reply.Content == "" {
			if reply.Response != nil && reply.Response.Refusal != "" {
				return nil, fmt.Errorf("%w: %s", ErrBlocked, reply.Response.Refusal)
			}
			lastErr = ErrEmptyResponse
			p.Previous = nil
			continue
		}
		allEmpty = false

		data, problem := decode[T](reply.Content, validator)
		if problem == nil {
			out.Data = data
			out.Reply = reply
			return out, nil
		}

		lastErr = problem
		p.Previous = &Attempt{Content: reply.Content, Problem: problem.Error()}
	}

	if allEmpty {
		return nil, ErrEmptyResponse
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrInvalidOutput, out.Attempts, lastErr)
}

// Checker is implemented by reply types with constraints a JSON schema cannot
// express. A non-nil error from Check is sent back as a correction turn.
type Checker interface {
	Check() error
}

func decode[T any](content string, validator *jsonschema.Validator) (T, error) {
	var data T

	normalized, err := parse.NormalizeJSON(content)
	if err != nil {
		return data, err
	}
	if err := validator.ValidateJSON(normalized); err != nil {
		// {"name": {"type": "string", "value": "x"}} echoes the schema shape.
		unwrapped, ok := parse.UnwrapSchemaValues(normalized)
		if !ok || validator.ValidateJSON(unwrapped) != nil {
			return data, err
		}
		normalized = unwrapped
	}

	data, err = parse.ParseStringAs[T](normalized)
	if err != nil {
		return data, fmt.Errorf("decode reply: %w", err)
	}
	if c, ok := any(&data).(Checker); ok {
		if err := c.Check(); err != nil {
			return data, err
		}
	}
	return data, nil
}

// GenerateText returns the model's text reply, substituting fallback when the
// model returns nothing.
func GenerateText(ctx context.Context, g Generator, p Prompt, fallback string) (*Reply, error) {
	reply, err := g.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	if reply.Content == "" {
		reply.Content = fallback
		reply.Fallback = true
	}
	return reply, nil
}
