// Package genaisdk implements [ai.Provider] with the official
// google.golang.org/genai client. It is an alternative to the REST provider
// in package gemini and is selected with the "sdk" backend setting.
package genaisdk
