// Package rendering renders site pages and stylesheets from templates.
package rendering

import "fmt"

// TemplateError represents an error loading, parsing or finding a template
type TemplateError struct {
	Name    string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	prefix := "template error"
	if e.Name != "" {
		prefix = fmt.Sprintf("template error in %s", e.Name)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
