// Package jsonschema declares the response shapes requested from the model
// and checks replies against them.
//
// [Generate] reflects a Go type (through invopop/jsonschema) into a [Schema]
// restricted to what Gemini accepts as a responseSchema: no references, field
// order carried in propertyOrdering. [Compile] and [ValidatorFor] turn the same
// Schema into a validator backed by santhosh-tekuri/jsonschema, so the reply
// is checked against exactly the shape that was requested.
package jsonschema
