package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	validator "github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrSchemaMismatch is wrapped by every validation failure so callers can tell
// "the model answered with the wrong shape" apart from transport errors.
var ErrSchemaMismatch = errors.New("reply does not match response schema")

const resourceURL = "urn:aistudio:response.json"

// Validator checks JSON documents against a compiled Schema.
type Validator struct {
	compiled *validator.Schema
}

// Compile prepares schema for validation.
func Compile(schema *Schema) (*Validator, error) {
	if schema == nil {
		return nil, errors.New("jsonschema: nil schema")
	}

	raw, err := schema.JsonString()
	if err != nil {
		return nil, err
	}
	return compileJSON(raw)
}

func compileJSON(raw string) (*Validator, error) {
	doc, err := validator.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("jsonschema: decode schema: %w", err)
	}

	c := validator.NewCompiler()
	if err := c.AddResource(resourceURL, doc); err != nil {
		return nil, fmt.Errorf("jsonschema: add schema: %w", err)
	}

	compiled, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: compile schema: %w", err)
	}

	return &Validator{compiled: compiled}, nil
}

// ValidateJSON parses content and validates it. Both malformed JSON and shape
// violations wrap ErrSchemaMismatch.
func (v *Validator) ValidateJSON(content string) error {
	inst, err := validator.UnmarshalJSON(bytes.NewReader([]byte(content)))
	if err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrSchemaMismatch, err)
	}

	if err := v.compiled.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	return nil
}

var validators sync.Map // schema JSON -> *Validator

// ValidatorFor returns a Validator for schema, shared by every schema with the
// same JSON form.
func ValidatorFor(schema *Schema) (*Validator, error) {
	if schema == nil {
		return nil, errors.New("jsonschema: nil schema")
	}
	key, err := schema.JsonString()
	if err != nil {
		return nil, err
	}
	if cached, ok := validators.Load(key); ok {
		return cached.(*Validator), nil
	}

	v, err := compileJSON(key)
	if err != nil {
		return nil, err
	}

	actual, _ := validators.LoadOrStore(key, v)
	return actual.(*Validator), nil
}
