package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/aistudio/core/client"
	"github.com/leofalp/aistudio/core/cost"
	"github.com/leofalp/aistudio/providers/ai"
)

// fakeGenerator replays scripted contents and records every prompt.
type fakeGenerator struct {
	replies []string
	err     error
	prompts []client.Prompt
}

func (f *fakeGenerator) Generate(_ context.Context, p client.Prompt) (*client.Reply, error) {
	f.prompts = append(f.prompts, p)
	if f.err != nil {
		return nil, f.err
	}

	content := ""
	if i := len(f.prompts) - 1; i < len(f.replies) {
		content = f.replies[i]
	}
	return &client.Reply{
		Content:  content,
		Model:    p.Model,
		Response: &ai.ChatResponse{Content: content, Usage: &ai.Usage{PromptTokens: 5, CompletionTokens: 2, TotalTokens: 7}},
		Cost:     cost.Breakdown{Model: p.Model, InputTokens: 5, OutputTokens: 2, TotalCost: 0.01},
	}, nil
}

func run(t *testing.T, name string, gen *fakeGenerator, fields map[string]string) (*Output, error) {
	t.Helper()
	tool, err := Default(DefaultModels()).Get(name)
	require.NoError(t, err)
	return tool.Run(context.Background(), gen, Input{Fields: fields})
}

func TestPaletteRun(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"themeName":"Neon Dusk","colors":[{"hex":"ff00aa","name":"Hot Pink","usage":"Accent"}]}`}}

	out, err := run(t, "palette", gen, map[string]string{"mood": "cyberpunk sunset"})
	require.NoError(t, err)

	data, ok := out.Data.(PaletteResponse)
	require.True(t, ok)
	assert.Equal(t, "Neon Dusk", data.ThemeName)
	assert.Equal(t, "#FF00AA", data.Colors[0].Hex)

	require.Len(t, gen.prompts, 1)
	p := gen.prompts[0]
	assert.Contains(t, p.Text, `mood or theme: "cyberpunk sunset"`)
	require.NotNil(t, p.Schema)
	assert.Equal(t, []string{"themeName", "colors"}, p.Schema.PropertyOrdering)
	assert.Equal(t, "Hex code e.g. #FF0000", p.Schema.Properties["colors"].Items.Properties["hex"].Description)

	assert.Equal(t, "gemini-2.5-flash", out.Model)
	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, 7, out.Usage.TotalTokens)
	assert.Equal(t, 1, out.Cost.Requests)
}

func TestInvalidInputSkipsGenerator(t *testing.T) {
	gen := &fakeGenerator{}

	_, err := run(t, "palette", gen, map[string]string{"mood": "  "})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, gen.prompts)
}

func TestWriterFallback(t *testing.T) {
	gen := &fakeGenerator{replies: []string{""}}

	out, err := run(t, "writer", gen, map[string]string{"text": "hello there", "tone": "poetic"})
	require.NoError(t, err)
	assert.Equal(t, "Could not generate content.", out.Text)
	assert.True(t, out.Fallback)
	assert.Contains(t, gen.prompts[0].Text, "to have a Poetic tone")
	assert.Nil(t, gen.prompts[0].Schema)
}

func TestCodeUsesCodingModel(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"```python\nprint('hi')\n```"}}

	out, err := run(t, "code", gen, map[string]string{"prompt": "say hi", "language": "python"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-3-pro-preview", gen.prompts[0].Model)
	assert.Contains(t, gen.prompts[0].Text, "Write efficient and clean Python code")
	assert.Contains(t, gen.prompts[0].Text, "Task: say hi")
	assert.Equal(t, "```python\nprint('hi')\n```", out.Text)
	assert.False(t, out.Fallback)
}

func TestCodeFallback(t *testing.T) {
	out, err := run(t, "code", &fakeGenerator{}, map[string]string{"prompt": "x"})
	require.NoError(t, err)
	assert.Equal(t, "// Could not generate code.", out.Text)
}

func TestVisionSendsImage(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"description":"A cat on a sofa.","tags":["cat","sofa"]}`}}
	tool, err := Default(DefaultModels()).Get("vision")
	require.NoError(t, err)

	out, err := tool.Run(context.Background(), gen, Input{Image: &ai.ImageData{MimeType: "image/jpeg", Data: "AAAA"}})
	require.NoError(t, err)

	data := out.Data.(VisionResult)
	assert.Equal(t, []string{"cat", "sofa"}, data.Tags)
	require.Len(t, gen.prompts[0].Images, 1)
	assert.Equal(t, "image/jpeg", gen.prompts[0].Images[0].MimeType)
	assert.Contains(t, gen.prompts[0].Text, "Keep it under 150 words.")
}

func TestVisionFallbackOnEmptyReply(t *testing.T) {
	tool, err := Default(DefaultModels()).Get("vision")
	require.NoError(t, err)

	out, err := tool.Run(context.Background(), &fakeGenerator{}, Input{Image: &ai.ImageData{MimeType: "image/png", Data: "AAAA"}})
	require.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.Equal(t, "Could not analyze image.", out.Data.(VisionResult).Description)
}

func TestStructuredEmptyReplyIsAnError(t *testing.T) {
	_, err := run(t, "ideas", &fakeGenerator{}, map[string]string{"topic": "x"})
	require.ErrorIs(t, err, client.ErrEmptyResponse)
	assert.Contains(t, err.Error(), "ideas: no response from AI")
}

func TestTransportErrorIsWrapped(t *testing.T) {
	apiErr := &ai.APIError{Provider: "gemini", StatusCode: 503, Message: "overloaded"}

	_, err := run(t, "dream", &fakeGenerator{err: apiErr}, map[string]string{"dream": "flying"})
	var got *ai.APIError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 503, got.StatusCode)
}

func TestIdeasBackfillsTopic(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"topic":"","ideas":[{"title":"a","description":"b","impact":"c"}]}`}}

	out, err := run(t, "ideas", gen, map[string]string{"topic": "urban gardens"})
	require.NoError(t, err)
	assert.Equal(t, "urban gardens", out.Data.(IdeaResponse).Topic)
}

func TestTravelPromptAndDays(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"destination":"Kyoto","tripName":"Temples","days":[{"day":0,"theme":"a","activities":["x"]},{"day":0,"theme":"b","activities":["y"]}]}`}}

	out, err := run(t, "travel", gen, map[string]string{"destination": "Kyoto", "days": "20", "budget": "luxury"})
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0].Text, "Plan a 14-day trip to Kyoto with a Luxury budget.")

	days := out.Data.(TripResponse).Days
	assert.Equal(t, 1, days[0].Day)
	assert.Equal(t, 2, days[1].Day)
}

func TestTriviaSnapsAnswers(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"topic":"Space","questions":[
		{"id":1,"question":"Red planet?","options":["Venus","Mars","Jupiter","Saturn"],"correctAnswer":" mars ","explanation":"iron oxide"},
		{"id":1,"question":"Largest?","options":["Venus","Mars","Jupiter","Saturn"],"correctAnswer":"C","explanation":"gas giant"}
	]}`}}

	out, err := run(t, "trivia", gen, map[string]string{"topic": "Space"})
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0].Text, `at a "Medium" difficulty level`)

	qs := out.Data.(TriviaResponse).Questions
	assert.Equal(t, "Mars", qs[0].CorrectAnswer)
	assert.Equal(t, "Jupiter", qs[1].CorrectAnswer)
	assert.Equal(t, []int{1, 2}, []int{qs[0].ID, qs[1].ID})
}

func TestTriviaUnmatchedAnswerIsCorrected(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		`{"topic":"Space","questions":[{"id":1,"question":"Red planet?","options":["Venus","Mars"],"correctAnswer":"Pluto","explanation":"x"}]}`,
		`{"topic":"Space","questions":[{"id":1,"question":"Red planet?","options":["Venus","Mars"],"correctAnswer":"Mars","explanation":"x"}]}`,
	}}

	out, err := run(t, "trivia", gen, map[string]string{"topic": "Space"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Attempts)
	assert.Equal(t, "Mars", out.Data.(TriviaResponse).Questions[0].CorrectAnswer)

	require.Len(t, gen.prompts, 2)
	require.NotNil(t, gen.prompts[1].Previous)
	assert.Contains(t, gen.prompts[1].Previous.Problem, `"Pluto"`)
}

func TestTriviaUnmatchedAnswerExhausts(t *testing.T) {
	bad := `{"topic":"Space","questions":[{"id":1,"question":"Red planet?","options":["Venus","Mars"],"correctAnswer":"Pluto","explanation":"x"}]}`
	gen := &fakeGenerator{replies: []string{bad, bad}}

	_, err := run(t, "trivia", gen, map[string]string{"topic": "Space"})
	assert.ErrorIs(t, err, client.ErrInvalidOutput)
	assert.ErrorContains(t, err, "must match one of the options")
}

func TestCareerModeSwitchesPrompt(t *testing.T) {
	reply := `{"title":"Tips","content":"- do x","keywords":["go"]}`
	fields := map[string]string{"jobDescription": "Go developer", "background": "5 years of Java"}

	gen := &fakeGenerator{replies: []string{reply}}
	_, err := run(t, "career", gen, fields)
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0].Text, "Write a professional cover letter")

	fields["mode"] = "resume_tips"
	gen = &fakeGenerator{replies: []string{reply}}
	_, err = run(t, "career", gen, fields)
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0].Text, "actionable tips to optimize the resume")
	assert.Contains(t, gen.prompts[0].Text, `Candidate Background: "5 years of Java"`)
}

func TestFlashcardsCountAndRenumber(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"topic":"","cards":[{"id":3,"front":"a","back":"b"},{"id":3,"front":"c","back":"d"}]}`}}

	out, err := run(t, "flashcards", gen, map[string]string{"topic": "Cells", "count": "8"})
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0].Text, "Create a set of 8 study flashcards")

	set := out.Data.(FlashcardSet)
	assert.Equal(t, "Cells", set.Topic)
	assert.Equal(t, 1, set.Cards[0].ID)
	assert.Equal(t, 2, set.Cards[1].ID)
}

func TestGiftOptionalFields(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"recipient":"","suggestions":[]}`}}

	out, err := run(t, "gift", gen, map[string]string{"recipient": "Dad", "interests": "fishing"})
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[0].Text, `for the occasion of "any occasion". Budget: flexible.`)
	assert.Equal(t, "Dad", out.Data.(GiftResponse).Recipient)
}

func TestCorrectionRetryReachesTool(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		`I think the bios are great!`,
		`{"platform":"LinkedIn","options":["a","b","c","d","e"]}`,
	}}

	out, err := run(t, "bio", gen, map[string]string{"name": "Alex", "role": "designer"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Attempts)
	require.Len(t, gen.prompts, 2)
	require.NotNil(t, gen.prompts[1].Previous)
	assert.Equal(t, `I think the bios are great!`, gen.prompts[1].Previous.Content)
	assert.Len(t, out.Data.(BioResponse).Options, 5)
}

func TestEveryStructuredToolDecodesItsOwnShape(t *testing.T) {
	replies := map[string]string{
		"recipe":    `{"name":"n","description":"d","cookingTime":"20 min","difficulty":"Easy","calories":"400 kcal","ingredients":["a"],"instructions":["b"]}`,
		"workout":   `{"routineName":"r","warmup":["w"],"exercises":[{"name":"squat","sets":"3","reps":"10","notes":"slow"}],"cooldown":["c"]}`,
		"song":      `{"title":"t","style":"folk","sections":[{"type":"Verse 1","chords":"Am - F","lyrics":"la"}]}`,
		"language":  `{"language":"Spanish","scenario":"cafe","phrases":[{"original":"Hola","phonetic":"oh-la","translation":"Hello","tip":"informal"}]}`,
		"movie":     `{"collectionTitle":"c","recommendations":[{"title":"Arrival","year":"2016","director":"Villeneuve","reason":"r"}]}`,
		"character": `{"name":"n","tagline":"t","age":"30","occupation":"o","traits":["a"],"backstory":"b","strengths":["s"],"weaknesses":["w"]}`,
		"tech":      `{"topic":"t","explanation":"e","analogy":"a","keyTerms":[{"term":"x","definition":"y"}]}`,
		"names":     `{"category":"Brand","suggestions":[{"name":"Zest","rationale":"fresh"}]}`,
		"story":     `{"title":"t","logline":"l","genre":"g","protagonist":"p","plotPoints":{"incitingIncident":"a","risingAction":"b","climax":"c","fallingAction":"d","resolution":"e"},"twist":"w"}`,
		"dream":     `{"interpretation":"i","symbols":["s"],"mood":"calm","actionableAdvice":"a"}`,
	}
	inputs := map[string]map[string]string{
		"recipe":    {"ingredients": "eggs"},
		"workout":   {"goal": "strength", "equipment": "none"},
		"song":      {"topic": "rain", "genre": "folk"},
		"language":  {"language": "Spanish", "scenario": "cafe"},
		"movie":     {"genre": "sci-fi", "mood": "calm"},
		"character": {"genre": "fantasy", "role": "villain"},
		"tech":      {"topic": "DNS"},
		"names":     {"description": "a coffee brand"},
		"story":     {"genre": "mystery", "theme": "loss"},
		"dream":     {"dream": "falling"},
	}

	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			out, err := run(t, name, &fakeGenerator{replies: []string{reply}}, inputs[name])
			require.NoError(t, err)
			assert.NotNil(t, out.Data)
			assert.Equal(t, 1, out.Attempts)
		})
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tool, _ := Default(DefaultModels()).Get("ideas")

	_, err := tool.Run(ctx, &fakeGenerator{}, Input{Fields: map[string]string{"topic": "x"}})
	assert.True(t, errors.Is(err, context.Canceled))
}
