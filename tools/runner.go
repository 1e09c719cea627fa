package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/aistudio/core/client"
	"github.com/leofalp/aistudio/core/cost"
	"github.com/leofalp/aistudio/providers/ai"
)

// structuredTool asks for a reply shaped like T.
type structuredTool[T any] struct {
	spec   Spec
	prompt func(Values) string

	// finish post-processes a decoded reply, e.g. to backfill echoed inputs.
	finish func(*T, Values)

	// fallback, when set, replaces ErrEmptyResponse with a fallback result.
	fallback func() T
}

func (t *structuredTool[T]) Spec() Spec { return t.spec }

func (t *structuredTool[T]) Run(ctx context.Context, g client.Generator, in Input) (*Output, error) {
	values, err := Normalize(t.spec, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.spec.Name, err)
	}

	p := client.Prompt{Model: t.spec.Model, Text: t.prompt(values)}
	if values.Image != nil {
		p.Images = []ai.ImageData{*values.Image}
	}

	res, err := client.GenerateStructured[T](ctx, g, p)
	if err != nil {
		if t.fallback != nil && errors.Is(err, client.ErrEmptyResponse) {
			return &Output{Tool: t.spec.Name, Model: t.spec.Model, Data: t.fallback(), Fallback: true}, nil
		}
		return nil, fmt.Errorf("%s: %w", t.spec.Name, err)
	}

	if t.finish != nil {
		t.finish(&res.Data, values)
	}

	model := t.spec.Model
	if res.Reply != nil && res.Reply.Model != "" {
		model = res.Reply.Model
	}

	return &Output{
		Tool:     t.spec.Name,
		Model:    model,
		Data:     res.Data,
		Attempts: res.Attempts,
		Usage:    res.Usage,
		Cost:     res.Cost,
	}, nil
}

// textTool asks for free text and substitutes fallback for an empty reply.
type textTool struct {
	spec     Spec
	prompt   func(Values) string
	fallback string
}

func (t *textTool) Spec() Spec { return t.spec }

func (t *textTool) Run(ctx context.Context, g client.Generator, in Input) (*Output, error) {
	values, err := Normalize(t.spec, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.spec.Name, err)
	}

	reply, err := client.GenerateText(ctx, g, client.Prompt{Model: t.spec.Model, Text: t.prompt(values)}, t.fallback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.spec.Name, err)
	}

	out := &Output{
		Tool:     t.spec.Name,
		Model:    firstNonEmpty(reply.Model, t.spec.Model),
		Text:     reply.Content,
		Fallback: reply.Fallback,
		Attempts: 1,
	}
	if reply.Response != nil && reply.Response.Usage != nil {
		out.Usage = *reply.Response.Usage
	}
	var summary cost.Summary
	summary.Add(reply.Cost)
	out.Cost = summary

	return out, nil
}
