// Package site assembles per-page rendering contexts from a cleaned content bundle and renders
// the complete set of output documents for a personal brand website.
package site

import "fmt"

// GenerationError identifies the page whose context assembly or rendering failed.
// Generation stops at the first such failure and no partial site is returned.
type GenerationError struct {
	Page     string
	Template string
	Message  string
	Cause    error
}

func (e *GenerationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "failed to generate page"
	}
	where := e.Page
	if e.Template != "" {
		where = fmt.Sprintf("%s (template %s)", e.Page, e.Template)
	}
	if e.Cause != nil {
		return fmt.Sprintf("generation error: %s: %s: %v", where, msg, e.Cause)
	}
	return fmt.Sprintf("generation error: %s: %s", where, msg)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
