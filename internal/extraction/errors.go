package extraction

import (
	"errors"
	"fmt"
)

// Kind classifies an extraction failure.
type Kind string

// Failure kinds. The set is closed.
const (
	KindNoArrayFound       Kind = "no-array-found"
	KindUnbalancedBrackets Kind = "unbalanced-brackets"
	KindInvalidJSON        Kind = "invalid-json"
	KindProviderHTTP       Kind = "provider-http-error"
	KindEmptyCompletion    Kind = "empty-completion"
	KindMalformedResponse  Kind = "malformed-response"
	KindSchemaMismatch     Kind = "schema-mismatch"
)

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrNoArrayFound       = errors.New("no JSON array found in completion")
	ErrUnbalancedBrackets = errors.New("no matching closing bracket found in completion")
	ErrInvalidJSON        = errors.New("extracted JSON is invalid")
	ErrProviderHTTP       = errors.New("completion provider request failed")
	ErrEmptyCompletion    = errors.New("completion provider returned empty content")
	ErrMalformedResponse  = errors.New("unexpected completion response format")
	ErrSchemaMismatch     = errors.New("extracted candidates do not match the candidate schema")
)

var sentinels = map[Kind]error{
	KindNoArrayFound:       ErrNoArrayFound,
	KindUnbalancedBrackets: ErrUnbalancedBrackets,
	KindInvalidJSON:        ErrInvalidJSON,
	KindProviderHTTP:       ErrProviderHTTP,
	KindEmptyCompletion:    ErrEmptyCompletion,
	KindMalformedResponse:  ErrMalformedResponse,
	KindSchemaMismatch:     ErrSchemaMismatch,
}

// Error describes a failed extraction. Only the fields relevant to Kind are
// populated.
type Error struct {
	Kind Kind

	// Field names the missing envelope field for KindMalformedResponse, or
	// the instance location for KindSchemaMismatch.
	Field string

	// StatusCode and Body describe a KindProviderHTTP failure. StatusCode is
	// 0 when no response was received (transport error or timeout).
	StatusCode int
	Body       string

	// Fragment is the offending text for KindInvalidJSON and the full
	// completion for KindNoArrayFound.
	Fragment string

	// Diagnostic is the parser or validator message.
	Diagnostic string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	base := e.sentinel().Error()
	switch e.Kind {
	case KindProviderHTTP:
		if e.StatusCode == 0 {
			return fmt.Sprintf("%s: %v", base, e.Err)
		}
		return fmt.Sprintf("%s: status %d - response: %s", base, e.StatusCode, e.Body)
	case KindMalformedResponse:
		return fmt.Sprintf("%s: missing key %s", base, e.Field)
	case KindNoArrayFound:
		return fmt.Sprintf("%s: %s", base, e.Fragment)
	case KindInvalidJSON:
		return fmt.Sprintf("%s: %s - extracted: %s", base, e.Diagnostic, e.Fragment)
	case KindSchemaMismatch:
		return fmt.Sprintf("%s: %s: %s", base, e.Field, e.Diagnostic)
	default:
		return base
	}
}

// Unwrap exposes both the Kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *Error) sentinel() error {
	if s, ok := sentinels[e.Kind]; ok {
		return s
	}
	return errors.New(string(e.Kind))
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there
// is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// NewProviderHTTPError reports a non-success HTTP status. Use status 0 with a
// non-nil cause for transport failures and timeouts.
func NewProviderHTTPError(status int, body string, cause error) *Error {
	return &Error{Kind: KindProviderHTTP, StatusCode: status, Body: body, Err: cause}
}

// NewEmptyCompletionError reports absent, empty or whitespace-only content.
func NewEmptyCompletionError() *Error {
	return &Error{Kind: KindEmptyCompletion}
}

// NewMalformedResponseError reports a response envelope missing field.
func NewMalformedResponseError(field string) *Error {
	return &Error{Kind: KindMalformedResponse, Field: field}
}
