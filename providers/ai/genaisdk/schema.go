package genaisdk

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/leofalp/aistudio/internal/jsonschema"
)

var schemaTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"array":   genai.TypeArray,
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
}

// toSchema converts a response schema into the SDK representation.
func toSchema(in *jsonschema.Schema) *genai.Schema {
	if in == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        schemaTypes[in.Type],
		Description: in.Description,
		Format:      in.Format,
	}
	if in.Nullable {
		out.Nullable = genai.Ptr(true)
	}
	for _, v := range in.Enum {
		out.Enum = append(out.Enum, fmt.Sprint(v))
	}

	if len(in.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(in.Properties))
		for name, prop := range in.Properties {
			out.Properties[name] = toSchema(prop)
		}
		out.PropertyOrdering = append([]string(nil), in.PropertyOrdering...)
	}
	if len(in.Required) > 0 {
		out.Required = append([]string(nil), in.Required...)
	}
	out.Items = toSchema(in.Items)

	return out
}
