// Package gemini implements [ai.Provider] over Google's Gemini REST API
// (the generateContent endpoint).
//
// Requests carry the system instruction, user turns with inline or URI images,
// and, when a response schema is set, responseMimeType "application/json" with
// the schema as responseSchema. Non-2xx replies are decoded from Google's error
// envelope into [ai.APIError], including the RetryInfo delay.
//
// [New] reads GEMINI_API_KEY and GEMINI_API_BASE_URL from the environment.
// Pricing for the supported models is exposed through [GetModelCost], which
// plugs into client.WithPricing.
package gemini
