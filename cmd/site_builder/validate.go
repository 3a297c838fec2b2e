package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/site-builder/internal/content"
	"github.com/jonathan/site-builder/internal/observability"
	"github.com/jonathan/site-builder/internal/types"
	"github.com/jonathan/site-builder/internal/validation"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a content bundle",
	Long:  "Checks a JSON or YAML content bundle for missing required fields and bad links, printing errors and warnings. Optionally writes the cleaned bundle.",
	RunE:  runValidate,
}

var (
	validateInput  string
	validateOutput string
	validateJSON   bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to content bundle JSON or YAML file (required)")
	validateCmd.Flags().StringVarP(&validateOutput, "out", "o", "", "Path to write the cleaned bundle as JSON (optional)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the validation result as JSON")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	result, err := validateContent(cmd.OutOrStdout(), validateInput, validateOptions{
		Output:  validateOutput,
		JSON:    validateJSON,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return err
	}
	if !result.IsValid {
		return fmt.Errorf("content has %d validation errors", len(result.Errors))
	}
	return nil
}

type validateOptions struct {
	Output  string
	JSON    bool
	Verbose bool
}

// validateContent loads path, validates it and reports to out. The cleaned bundle is
// written only when the content is valid.
func validateContent(out io.Writer, path string, opts validateOptions) (types.ValidationResult, error) {
	bundle, err := content.LoadFile(path)
	if err != nil {
		return types.ValidationResult{}, err
	}

	v := validation.New()
	result := v.Validate(bundle)

	switch {
	case opts.JSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return result, fmt.Errorf("failed to encode result: %w", err)
		}
	case opts.Verbose:
		p := observability.NewPrinter(out)
		p.PrintContentSummary(bundle)
		p.PrintValidation(result)
	default:
		printResult(out, result)
	}

	if opts.Output != "" && result.IsValid {
		if err := writeJSON(opts.Output, v.Clean(bundle)); err != nil {
			return result, err
		}
	}
	return result, nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func printResult(out io.Writer, result types.ValidationResult) {
	for _, e := range result.Errors {
		fmt.Fprintf(out, "error: %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if result.IsValid {
		fmt.Fprintf(out, "Content is valid (%d warnings)\n", len(result.Warnings))
	} else {
		fmt.Fprintf(out, "Content is invalid (%d errors, %d warnings)\n", len(result.Errors), len(result.Warnings))
	}
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
