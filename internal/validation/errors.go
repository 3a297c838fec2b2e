// Package validation checks content bundles for publishability and normalizes them before rendering.
package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/site-builder/internal/types"
)

// ContentValidationError is returned by callers that turn an invalid ValidationResult into a failed build.
// It carries the full result so every error can be reported at once.
type ContentValidationError struct {
	Result types.ValidationResult
}

func (e *ContentValidationError) Error() string {
	if len(e.Result.Errors) == 0 {
		return "content validation failed"
	}
	return fmt.Sprintf("content validation failed:\n%s", strings.Join(e.Result.Errors, "\n"))
}

// AsError returns a *ContentValidationError when result is invalid, nil otherwise
func AsError(result types.ValidationResult) error {
	if result.IsValid {
		return nil
	}
	return &ContentValidationError{Result: result}
}
