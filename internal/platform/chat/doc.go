// Package chat provides an extraction.Completer backed by an
// OpenAI-compatible chat-completions endpoint, Groq by default.
//
// The client sends a single user message per call and never retries. HTTP,
// transport and envelope problems are reported as *extraction.Error values
// so callers see the same failure kinds regardless of provider.
package chat
