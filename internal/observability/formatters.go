// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/site-builder/internal/publish"
	"github.com/jonathan/site-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBanner(message string) {
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, message)
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// writeList writes up to maxItemsToShow items, then a count of the rest
func writeList(sb *strings.Builder, marker string, items []string) {
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintContentSummary outputs who the bundle belongs to and how much content it holds.
func (p *Printer) PrintContentSummary(bundle *types.ContentBundle) {
	if bundle == nil {
		return
	}

	var sb strings.Builder
	name := "(no bio)"
	if bundle.Bio != nil && bundle.Bio.Name != "" {
		name = bundle.Bio.Name
	}
	sb.WriteString(fmt.Sprintf("Owner:        %s\n", name))
	if bundle.Bio != nil && bundle.Bio.Headline != "" {
		sb.WriteString(fmt.Sprintf("Headline:     %s\n", bundle.Bio.Headline))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Story chunks: %d\n", len(bundle.StoryChunks)))
	sb.WriteString(fmt.Sprintf("Values:       %d\n", len(bundle.Values)))
	sb.WriteString(fmt.Sprintf("Social links: %d\n", len(bundle.SocialLinks)))
	sb.WriteString(fmt.Sprintf("Blog posts:   %d\n", len(bundle.Blogs)))
	sb.WriteString(fmt.Sprintf("Videos:       %d", len(bundle.Videos)))

	p.printBox("CONTENT BUNDLE", sb.String())
}

// PrintValidation outputs validation errors and warnings.
func (p *Printer) PrintValidation(result types.ValidationResult) {
	if len(result.Errors) == 0 && len(result.Warnings) == 0 {
		p.printBanner("✅ CONTENT IS VALID")
		return
	}

	var sb strings.Builder
	if result.IsValid {
		sb.WriteString("Status: valid\n")
	} else {
		sb.WriteString("Status: invalid\n")
	}

	if len(result.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("\nErrors (%d):\n", len(result.Errors)))
		writeList(&sb, "  ✗", result.Errors)
	}
	if len(result.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("\nWarnings (%d):\n", len(result.Warnings)))
		writeList(&sb, "  ⚠", result.Warnings)
	}

	p.printBox("CONTENT VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSite outputs the generated pages.
func (p *Printer) PrintSite(site *types.RenderedSite) {
	if site == nil || len(site.Pages) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generated %d pages:\n\n", len(site.Pages)))
	writeList(&sb, "•", site.Paths())
	sb.WriteString(fmt.Sprintf("\nStylesheet: %s (%d bytes)", types.StylesheetPath, len(site.Stylesheet)))

	p.printBox("GENERATED SITE", sb.String())
}

// PrintBrokenLinks outputs internal links whose targets were not generated.
func (p *Printer) PrintBrokenLinks(links []string) {
	if len(links) == 0 {
		p.printBanner("✅ NO BROKEN LINKS FOUND")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d broken links:\n\n", len(links)))
	writeList(&sb, "⚠", links)

	p.printBox("BROKEN LINKS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPublished outputs where each publish landed.
func (p *Printer) PrintPublished(results ...*publish.Result) {
	var sb strings.Builder
	first := true
	for _, r := range results {
		if r == nil {
			continue
		}
		if !first {
			sb.WriteString("\n")
		}
		first = false
		kind := "Live"
		if r.IsPreview {
			kind = "Preview"
		}
		sb.WriteString(fmt.Sprintf("%s (%d files)\n", kind, len(r.Files)))
		sb.WriteString(fmt.Sprintf("  %s\n", r.PublicURL))
	}
	if first {
		return
	}

	p.printBox("PUBLISHED", strings.TrimSuffix(sb.String(), "\n"))
}
