package tools

import (
	"fmt"
	"strings"
)

// backfill sets *field to value when the model left it empty.
func backfill(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}

func finishPalette(r *PaletteResponse, v Values) {
	backfill(&r.ThemeName, v.Get("mood"))
	for i := range r.Colors {
		hex := strings.ToUpper(strings.TrimSpace(r.Colors[i].Hex))
		if hex != "" && !strings.HasPrefix(hex, "#") {
			hex = "#" + hex
		}
		r.Colors[i].Hex = hex
	}
}

func finishVision(r *VisionResult, _ Values) {
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

func finishTrip(r *TripResponse, v Values) {
	backfill(&r.Destination, v.Get("destination"))

	ids := make([]int, len(r.Days))
	for i, d := range r.Days {
		ids[i] = d.Day
	}
	if !sequential(ids) {
		for i := range r.Days {
			r.Days[i].Day = i + 1
		}
	}
}

// Check rejects a quiz whose correctAnswer matches none of its options, so
// the model is asked to fix it.
func (r *TriviaResponse) Check() error {
	for i, q := range r.Questions {
		if _, ok := snapToOption(q.Options, q.CorrectAnswer); !ok {
			return fmt.Errorf("questions[%d]: correctAnswer %q must match one of the options %q exactly", i, q.CorrectAnswer, q.Options)
		}
	}
	return nil
}

func finishTrivia(r *TriviaResponse, v Values) {
	backfill(&r.Topic, v.Get("topic"))

	ids := make([]int, len(r.Questions))
	for i := range r.Questions {
		q := &r.Questions[i]
		if option, ok := snapToOption(q.Options, q.CorrectAnswer); ok {
			q.CorrectAnswer = option
		}
		ids[i] = q.ID
	}
	if !uniquePositive(ids) {
		for i := range r.Questions {
			r.Questions[i].ID = i + 1
		}
	}
}

func finishFlashcards(r *FlashcardSet, v Values) {
	backfill(&r.Topic, v.Get("topic"))

	ids := make([]int, len(r.Cards))
	for i, c := range r.Cards {
		ids[i] = c.ID
	}
	if !uniquePositive(ids) {
		for i := range r.Cards {
			r.Cards[i].ID = i + 1
		}
	}
}

// snapToOption finds the option matching answer, ignoring case, surrounding
// whitespace, inner whitespace runs and a leading "A) " / "b. " label.
func snapToOption(options []string, answer string) (string, bool) {
	want := canonical(answer)
	if want == "" {
		return "", false
	}
	for _, option := range options {
		if canonical(option) == want {
			return option, true
		}
	}

	// A bare letter refers to an option by position.
	if len(want) == 1 && want[0] >= 'a' && int(want[0]-'a') < len(options) {
		return options[want[0]-'a'], true
	}
	return "", false
}

func canonical(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	if len(s) > 3 && s[0] >= 'a' && s[0] <= 'd' && (s[1] == ')' || s[1] == '.') && s[2] == ' ' {
		s = s[3:]
	}
	return s
}

func uniquePositive(ids []int) bool {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

func sequential(ids []int) bool {
	for i, id := range ids {
		if id != i+1 {
			return false
		}
	}
	return true
}
