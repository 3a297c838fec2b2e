package content

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no content exists for a user.
var ErrNotFound = errors.New("content not found")

// LoadError represents a failure to read or decode a content document
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load content %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load content %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ContentFetchError collects per-category failures from a fetch.
type ContentFetchError struct {
	Categories map[string]error
}

func (e *ContentFetchError) Error() string {
	names := e.Names()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Categories[name]))
	}
	return "failed to fetch content (" + strings.Join(parts, "; ") + ")"
}

// Names returns the failed category names in fetch order.
func (e *ContentFetchError) Names() []string {
	names := make([]string, 0, len(e.Categories))
	for _, c := range Categories {
		if _, ok := e.Categories[c]; ok {
			names = append(names, c)
		}
	}
	return names
}

func (e *ContentFetchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Categories))
	for _, name := range e.Names() {
		errs = append(errs, e.Categories[name])
	}
	return errs
}
