package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/site-builder/internal/content"
)

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *ErrNotFound
	var invalid *ErrValidation
	var fetch *content.ContentFetchError
	switch {
	case errors.As(err, &notFound), errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &fetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// toValidationError converts struct validation failures into an ErrValidation
// naming every failing field.
func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ErrValidation{Message: err.Error()}
	}
	fields := make([]string, 0, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
		messages = append(messages, describeTag(fe))
	}
	return &ErrValidation{
		Field:   strings.Join(fields, ", "),
		Message: strings.Join(messages, "; "),
	}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "uuid":
		return fe.Field() + " must be a UUID"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag())
	}
}
