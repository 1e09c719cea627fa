package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrNoJSON is returned by NormalizeJSON when content holds no JSON value.
var ErrNoJSON = errors.New("no JSON found in content")

// ParseStringAs parses model output into T.
//
// Primitive kinds (string, bool, ints, uints, floats) are converted directly,
// accepting a {"type":..., "value":...} wrapper. Composite kinds go through
// NormalizeJSON and json.Unmarshal; when that fails, schema-style wrappers are
// unwrapped and the unmarshal is retried.
//
// Example usage:
//
//	type Person struct {
//	    Name string `json:"name"`
//	    Age  int    `json:"age"`
//	}
//
//	person, err := ParseStringAs[Person]("```json\n{name: 'John', age: 30,}\n```")
//	num, err := ParseStringAs[int]("42")
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		if strings.HasPrefix(content, "{") {
			if unwrapped, err := tryUnwrapPrimitive(content); err == nil {
				target.SetString(unwrapped)
				return result, nil
			}
		}
		target.SetString(content)
		return result, nil

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		err := setPrimitive(target, strings.TrimSpace(content))
		if err == nil {
			return result, nil
		}
		if unwrapped, unwrapErr := tryUnwrapPrimitive(content); unwrapErr == nil {
			if err2 := setPrimitive(target, unwrapped); err2 == nil {
				return result, nil
			}
		}
		return result, err
	}

	normalized, err := NormalizeJSON(content)
	if err != nil {
		return result, fmt.Errorf("failed to parse content as %T: %w", result, err)
	}

	err = json.Unmarshal([]byte(normalized), &result)
	if err == nil {
		return result, nil
	}

	// Models sometimes echo the schema shape: {"name": {"type": "string", "value": "x"}}.
	if unwrapped, ok := UnwrapSchemaValues(normalized); ok {
		var retry T
		if json.Unmarshal([]byte(unwrapped), &retry) == nil {
			return retry, nil
		}
	}

	return result, fmt.Errorf("failed to unmarshal content as %T: %w", result, err)
}

// NormalizeJSON turns raw model output into a valid JSON document: markdown
// code fences are stripped, surrounding prose is cut off, and malformed JSON
// (comments, trailing commas, single quotes, truncation) is repaired.
func NormalizeJSON(content string) (string, error) {
	text := strings.TrimSpace(StripCodeFence(content))
	if text == "" {
		return "", ErrNoJSON
	}

	if json.Valid([]byte(text)) {
		return text, nil
	}

	if candidate := extractJSON(text); candidate != "" && json.Valid([]byte(candidate)) {
		return candidate, nil
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", ErrNoJSON
	}

	repaired, err := jsonrepair.JSONRepair(text[start:])
	if err != nil {
		return "", fmt.Errorf("repair JSON: %w", err)
	}
	if !json.Valid([]byte(repaired)) {
		return "", fmt.Errorf("repair JSON: result is still invalid")
	}
	return repaired, nil
}

// StripCodeFence removes a surrounding markdown code fence (``` or ```json).
// Content without a fence is returned unchanged.
func StripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return content
	}

	body := strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// drop the language tag line
		body = body[nl+1:]
	} else {
		body = strings.TrimLeft(body, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}

	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// extractJSON returns the first balanced top-level object or array in text,
// or "" if none closes. Brackets inside string literals are ignored.
func extractJSON(text string) string {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' && text[start] != '[' {
			continue
		}
		if end := matchingClose(text, start); end > 0 {
			return text[start : end+1]
		}
	}
	return ""
}

func matchingClose(text string, start int) int {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}

	return -1
}

func setPrimitive(v reflect.Value, s string) error {
	switch v.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("failed to parse content as bool: %w", err)
		}
		v.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to parse content as int: %w", err)
		}
		v.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to parse content as uint: %w", err)
		}
		v.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to parse content as float: %w", err)
		}
		v.SetFloat(f)

	default:
		return fmt.Errorf("unsupported primitive kind %s", v.Kind())
	}
	return nil
}

// isSchemaWrapper reports whether m looks like {"type": ..., "value": ...}.
func isSchemaWrapper(m map[string]any) (any, bool) {
	if len(m) != 2 {
		return nil, false
	}
	if _, hasType := m["type"]; !hasType {
		return nil, false
	}
	value, hasValue := m["value"]
	return value, hasValue
}

// tryUnwrapPrimitive returns the string form of a wrapped primitive.
func tryUnwrapPrimitive(content string) (string, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &data); err != nil {
		return "", err
	}

	value, ok := isSchemaWrapper(data)
	if !ok {
		return "", fmt.Errorf("not a schema-wrapped value")
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprint(v), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}

// UnwrapSchemaValues replaces every {"type": ..., "value": ...} wrapper in a
// JSON document with its value. ok is false when jsonStr is not JSON or holds
// no wrapper. Numbers keep their original text.
func UnwrapSchemaValues(jsonStr string) (string, bool) {
	dec := json.NewDecoder(strings.NewReader(jsonStr))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return "", false
	}

	found := false
	result, err := json.Marshal(recursiveUnwrap(data, &found))
	if err != nil || !found {
		return "", false
	}
	return string(result), true
}

func recursiveUnwrap(data any, found *bool) any {
	switch v := data.(type) {
	case map[string]any:
		if value, ok := isSchemaWrapper(v); ok {
			*found = true
			return recursiveUnwrap(value, found)
		}
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = recursiveUnwrap(val, found)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = recursiveUnwrap(val, found)
		}
		return result

	default:
		return data
	}
}
