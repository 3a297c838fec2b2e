package types

import "sort"

// ValidationResult is the outcome of validating a bundle or a single item.
// Errors make the content unpublishable, warnings do not.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewValidationResult builds a result whose validity is derived from errs
func NewValidationResult(errs, warnings []string) ValidationResult {
	if errs == nil {
		errs = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

// StylesheetPath is where the generated stylesheet is published, relative to the site root
const StylesheetPath = "static/css/custom.css"

// RenderedSite maps relative output paths to rendered documents, plus the generated stylesheet
type RenderedSite struct {
	Pages      map[string]string `json:"pages"`
	Stylesheet string            `json:"stylesheet"`
}

// Paths returns the page paths in sorted order
func (s *RenderedSite) Paths() []string {
	paths := make([]string, 0, len(s.Pages))
	for p := range s.Pages {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Files returns every published file including the stylesheet
func (s *RenderedSite) Files() map[string]string {
	files := make(map[string]string, len(s.Pages)+1)
	for p, doc := range s.Pages {
		files[p] = doc
	}
	files[StylesheetPath] = s.Stylesheet
	return files
}
