// Package redact strips credentials from strings before they are logged or
// returned in error responses. Database URLs from configuration and provider
// API keys echoed back in upstream error bodies are the main sources.
package redact

import (
	"regexp"
)

// Placeholders substituted for redacted values.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

var (
	// user:password@ section of a connection URL
	dbConnRegex = regexp.MustCompile(`(?i)\b(postgres(?:ql)?)://[^@/\s]+@`)

	// password=... in DSN key/value form
	passwordRegex = regexp.MustCompile(`(?i)\b(password|passwd|pwd)=[^\s&'"]+`)

	bearerRegex = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.~+/]{8,}=*`)

	// Groq, OpenAI and Google key formats
	providerKeyRegex = regexp.MustCompile(`\b(?:gsk_|sk-(?:proj-)?|AIza)[A-Za-z0-9_\-]{16,}`)

	apiKeyRegex = regexp.MustCompile(`(?i)\b(api[_-]?key|token|secret)(["'\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Order matters: the URL rule must run before the generic key rules so the
// scheme survives.
var rules = []rule{
	{dbConnRegex, "${1}://" + RedactedCredentialPlaceholder + "@"},
	{passwordRegex, "${1}=" + RedactedCredentialPlaceholder},
	{bearerRegex, "Bearer " + RedactedKeyPlaceholder},
	{providerKeyRegex, RedactedKeyPlaceholder},
	{apiKeyRegex, "${1}${2}" + RedactedKeyPlaceholder},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
