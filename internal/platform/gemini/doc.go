// Package gemini provides an extraction.Completer that uses Google's Gemini
// API through the google.golang.org/genai client library.
//
// This package is an infrastructure adapter: it translates a prompt into a
// GenerateContent call and the response back into plain text, mapping API
// and envelope problems onto the extraction failure kinds. It makes exactly
// one call per prompt and does not retry.
package gemini
