// Package schemas provides JSON Schema validation for content documents.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/site-builder/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	bundleOnce   sync.Once
	bundleSchema *gojsonschema.Schema
	bundleErr    error
)

func contentBundleSchema() (*gojsonschema.Schema, error) {
	bundleOnce.Do(func() {
		bundleSchema, bundleErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemas.ContentBundleSchema))
		if bundleErr != nil {
			bundleErr = &SchemaLoadError{
				Path:    "content_bundle.schema.json",
				Message: "schema failed to compile",
				Cause:   bundleErr,
			}
		}
	})
	return bundleSchema, bundleErr
}

// ValidateContentBundle checks a decoded document (maps, slices and scalars as produced
// by encoding/json or yaml.v3) against the embedded content bundle schema.
func ValidateContentBundle(doc any) error {
	schema, err := contentBundleSchema()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	return toValidationError(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
