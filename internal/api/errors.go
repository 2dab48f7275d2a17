package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/focus-api/internal/domain"
	"github.com/phrazzld/focus-api/internal/extraction"
	"github.com/phrazzld/focus-api/internal/service"
	"github.com/phrazzld/focus-api/internal/store"
)

// User-facing error messages.
const (
	msgTaskNotFound     = "Task not found"
	msgInvalidTask      = "Invalid task data"
	msgInvalidRequest   = "Invalid request format"
	msgParsingFailed    = "AI parsing failed"
	msgUnexpectedError  = "An unexpected error occurred"
	msgValidationFailed = "Validation error"
)

// MapErrorToStatusCode maps domain, store, service and extraction errors to
// HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a message that is safe to send to clients.
// It never includes the underlying error text.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpectedError
	}

	switch {
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return msgTaskNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return msgInvalidTask

	case extraction.KindOf(err) != "":
		return msgParsingFailed

	default:
		return msgUnexpectedError
	}
}

// SanitizeValidationError turns validator output into a short message naming
// the first offending field, e.g. "Invalid title: required field".
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}

	var domainErr *domain.ValidationError
	if errors.As(err, &domainErr) {
		return fmt.Sprintf("Invalid %s: %s", domainErr.Field, domainErr.Message)
	}

	return msgValidationFailed
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too small"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}
