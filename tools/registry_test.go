package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/aistudio/providers/ai/gemini"
)

func TestDefaultRegistryOrder(t *testing.T) {
	r := Default(DefaultModels())

	var names []string
	for _, spec := range r.List() {
		names = append(names, spec.Name)
	}
	assert.Equal(t, []string{
		"palette", "writer", "vision", "ideas", "code", "travel", "recipe",
		"trivia", "dream", "career", "gift", "workout", "song", "language",
		"movie", "character", "flashcards", "tech", "names", "story", "bio",
	}, names)
	assert.Equal(t, 21, r.Len())
}

func TestDefaultRegistryModels(t *testing.T) {
	r := Default(Models{Text: "text-model"})

	for _, spec := range r.List() {
		switch spec.Tier {
		case TierCoding:
			assert.Equal(t, gemini.Model30ProPreview, spec.Model, spec.Name)
		case TierVision:
			assert.Equal(t, gemini.Model25Flash, spec.Model, spec.Name)
		default:
			assert.Equal(t, "text-model", spec.Model, spec.Name)
		}
	}

	code, err := r.Get("code")
	require.NoError(t, err)
	assert.Equal(t, TierCoding, code.Spec().Tier)
}

func TestRegistryGet(t *testing.T) {
	r := Default(DefaultModels())

	tool, err := r.Get(" Palette ")
	require.NoError(t, err)
	assert.Equal(t, "palette", tool.Spec().Name)

	_, err = r.Get("horoscope")
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newPalette("m")))
	assert.Error(t, r.Register(newPalette("m")))
}

func TestEverySpecIsWellFormed(t *testing.T) {
	for _, spec := range Default(DefaultModels()).List() {
		t.Run(spec.Name, func(t *testing.T) {
			assert.NotEmpty(t, spec.Title)
			assert.NotEmpty(t, spec.Description)
			assert.Contains(t, []string{"text", "json"}, spec.Output)
			require.NotEmpty(t, spec.Fields)

			required := 0
			for _, f := range spec.Fields {
				if f.Required {
					required++
				}
				if f.Kind == KindSelect {
					assert.Contains(t, f.Options, f.Default, "select %s needs a default among its options", f.Name)
				}
			}
			assert.Positive(t, required, "every tool needs at least one required field")
		})
	}
}
