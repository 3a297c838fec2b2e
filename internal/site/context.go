package site

import (
	"maps"

	"github.com/jonathan/site-builder/internal/types"
)

// DefaultSiteTitle is used when the bundle has no bio name
const DefaultSiteTitle = "Personal Brand"

// NavItem is one entry of the site navigation menu
type NavItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Navigation returns the fixed menu shared by every generated site
func Navigation() []NavItem {
	return []NavItem{
		{Title: "Home", URL: "/"},
		{Title: "About", URL: "/about.html"},
		{Title: "Blog", URL: "/blog/"},
		{Title: "Videos", URL: "/videos.html"},
		{Title: "My Story", URL: "/story.html"},
	}
}

// Context is the data handed to a template
type Context map[string]any

// sharedContext is derived once per build and copied into every page context
func (g *Generator) sharedContext(b *types.ContentBundle) Context {
	title := g.title
	if b.Bio != nil && b.Bio.Name != "" {
		title = b.Bio.Name
	}
	style := b.Style
	if style == nil {
		style = &types.StyleProfile{}
	}
	metadata := b.Metadata
	if metadata == nil {
		metadata = &types.Metadata{ContentCount: map[string]int{}}
	}

	return Context{
		"site_title":   title,
		"current_year": g.clock().Year(),
		"style":        style,
		"logo":         b.Images.Slot(types.ImageLogo),
		"metadata":     metadata,
		"navigation":   Navigation(),
	}
}

// page builds a page context from the shared context plus page-specific values
func page(shared Context, title, description string, extra Context) Context {
	ctx := maps.Clone(shared)
	ctx["page_title"] = title
	ctx["page_description"] = description
	maps.Copy(ctx, extra)
	return ctx
}

// firstN returns up to n leading items without copying
func firstN[T any](items []T, n int) []T {
	return orEmpty(items)[:min(n, len(items))]
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
