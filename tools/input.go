package tools

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/aistudio/providers/ai"
)

// Values is a normalized tool input.
type Values struct {
	fields map[string]string
	Image  *ai.ImageData
}

// Get returns the normalized value of a field, "" if absent.
func (v Values) Get(name string) string {
	return v.fields[name]
}

// Int returns a numeric field. Normalize has already validated and clamped it.
func (v Values) Int(name string) int {
	n, _ := strconv.Atoi(v.fields[name])
	return n
}

// Map returns a copy of the normalized fields.
func (v Values) Map() map[string]string {
	out := make(map[string]string, len(v.fields))
	for k, val := range v.fields {
		out[k] = val
	}
	return out
}

var htmlTag = regexp.MustCompile(`(?i)<\s*(p|div|br|span|ul|ol|li|h[1-6]|strong|em|b|i|a|table|tr|td|pre|code|blockquote)\b[^>]*>`)

// Normalize applies the field rules of spec to in: whitespace is trimmed,
// HTML pasted into textareas becomes Markdown, defaults fill empty fields,
// select values snap to their canonical option, numbers are clamped, and
// required fields are enforced. All problems are reported together in one
// error wrapping ErrInvalidInput.
func Normalize(spec Spec, in Input) (Values, error) {
	values := Values{fields: make(map[string]string, len(spec.Fields))}
	var problems []string

	for _, field := range spec.Fields {
		if field.Kind == KindImage {
			img, err := normalizeImage(in.Image)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", field.Name, err))
				continue
			}
			if img == nil && field.Required {
				problems = append(problems, fmt.Sprintf("%s is required", field.Name))
				continue
			}
			values.Image = img
			continue
		}

		raw := strings.TrimSpace(in.Fields[field.Name])
		if field.Kind == KindTextarea && htmlTag.MatchString(raw) {
			if md, err := htmltomarkdown.ConvertString(raw); err == nil {
				raw = strings.TrimSpace(md)
			}
		}
		if raw == "" {
			raw = field.Default
		}
		if raw == "" {
			if field.Required {
				problems = append(problems, fmt.Sprintf("%s is required", field.Name))
			}
			continue
		}

		switch field.Kind {
		case KindSelect:
			option, ok := matchOption(field.Options, raw)
			if !ok {
				problems = append(problems, fmt.Sprintf("%s must be one of %s", field.Name, strings.Join(field.Options, ", ")))
				continue
			}
			raw = option

		case KindNumber:
			n, err := strconv.Atoi(raw)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s must be a whole number", field.Name))
				continue
			}
			raw = strconv.Itoa(clamp(n, field.Min, field.Max))
		}

		values.fields[field.Name] = raw
	}

	if len(problems) > 0 {
		return Values{}, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return values, nil
}

func matchOption(options []string, value string) (string, bool) {
	if len(options) == 0 {
		return value, true
	}
	for _, option := range options {
		if strings.EqualFold(option, value) {
			return option, true
		}
	}
	return "", false
}

func clamp(n, lo, hi int) int {
	if lo != 0 || hi != 0 {
		if n < lo {
			return lo
		}
		if hi != 0 && n > hi {
			return hi
		}
	}
	return n
}

// normalizeImage accepts inline base64 data, optionally as a data: URL, or a
// URI. It returns nil for an absent image.
func normalizeImage(img *ai.ImageData) (*ai.ImageData, error) {
	if img == nil {
		return nil, nil
	}

	out := *img
	out.Data = strings.TrimSpace(out.Data)
	out.URI = strings.TrimSpace(out.URI)

	if strings.HasPrefix(out.Data, "data:") {
		header, payload, ok := strings.Cut(out.Data, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("unsupported data URL")
		}
		if out.MimeType == "" {
			out.MimeType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		}
		out.Data = payload
	}

	if out.Data == "" && out.URI == "" {
		return nil, nil
	}
	if out.MimeType == "" {
		return nil, fmt.Errorf("missing mime type")
	}
	if !strings.HasPrefix(out.MimeType, "image/") {
		return nil, fmt.Errorf("unsupported mime type %q", out.MimeType)
	}
	if out.Data != "" {
		if _, err := base64.StdEncoding.DecodeString(out.Data); err != nil {
			return nil, fmt.Errorf("image data is not valid base64")
		}
	}

	return &out, nil
}
