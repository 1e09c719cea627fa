package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"

	invopop "github.com/invopop/jsonschema"
)

// Schema is the response-shape declaration sent to the model. It is the subset
// of JSON Schema understood by Gemini's responseSchema field, plus
// propertyOrdering so the model emits fields in declaration order.
type Schema struct {
	// Type is one of "object", "array", "string", "number", "integer", "boolean".
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Format      string `json:"format,omitempty"`
	Nullable    bool   `json:"nullable,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	Properties       map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
	Required         []string           `json:"required,omitempty"`

	// Items describes array elements.
	Items *Schema `json:"items,omitempty"`
}

// reflector is shared by every Generate call. Definitions are inlined because
// Gemini rejects $ref/$defs in response schemas.
var reflector = &invopop.Reflector{
	DoNotReference:            true,
	ExpandedStruct:            true,
	Anonymous:                 true,
	AllowAdditionalProperties: true,
}

// Generate derives a Schema from the Go type T. Struct fields without
// omitempty are required; `jsonschema:"description=...,enum=..."` tags are
// honoured.
func Generate[T any]() (*Schema, error) {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	reflected := reflector.ReflectFromType(t)
	if reflected == nil {
		return nil, fmt.Errorf("jsonschema: cannot reflect %s", t)
	}

	return fromReflected(reflected)
}

// MustGenerate is like Generate but panics on error. It is meant for
// package-level schema declarations.
func MustGenerate[T any]() *Schema {
	schema, err := Generate[T]()
	if err != nil {
		panic(err)
	}
	return schema
}

func fromReflected(in *invopop.Schema) (*Schema, error) {
	if in == nil {
		return nil, nil
	}

	out := &Schema{
		Type:        in.Type,
		Description: in.Description,
		Format:      in.Format,
		Enum:        in.Enum,
	}

	switch in.Type {
	case "object":
		if in.Properties == nil {
			return out, nil
		}
		out.Properties = make(map[string]*Schema, in.Properties.Len())
		for pair := in.Properties.Oldest(); pair != nil; pair = pair.Next() {
			prop, err := fromReflected(pair.Value)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", pair.Key, err)
			}
			out.Properties[pair.Key] = prop
			out.PropertyOrdering = append(out.PropertyOrdering, pair.Key)
		}
		if len(in.Required) > 0 {
			out.Required = append([]string(nil), in.Required...)
		}

	case "array":
		if in.Items == nil {
			return nil, fmt.Errorf("array without items")
		}
		items, err := fromReflected(in.Items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		out.Items = items

	case "string", "number", "integer", "boolean":

	case "":
		return nil, fmt.Errorf("schema without type (unsupported Go type?)")

	default:
		return nil, fmt.Errorf("unsupported schema type %q", in.Type)
	}

	return out, nil
}

// JsonString converts the Schema to its JSON representation.
// indent: optional bool parameter. If true, formats JSON with indentation.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	var (
		jsonBytes []byte
		err       error
	)

	if len(indent) > 0 && indent[0] {
		jsonBytes, err = json.MarshalIndent(s, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(s)
	}

	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// String returns the compact JSON representation of the schema.
func (s *Schema) String() string {
	jsonStr, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return jsonStr
}
