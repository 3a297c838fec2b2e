package site

import (
	"fmt"
	pathpkg "path"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gosimple/slug"
	"github.com/jonathan/site-builder/internal/logging"
	"github.com/jonathan/site-builder/internal/rendering"
	"github.com/jonathan/site-builder/internal/types"
)

// Template names the renderer must provide
const (
	TemplateHome       = "home.html"
	TemplateAbout      = "about.html"
	TemplateBlogIndex  = "blog_section.html"
	TemplateBlogPost   = "blog_post.html"
	TemplateVideos     = "video_gallery.html"
	TemplateStory      = "story_section.html"
	TemplateStylesheet = "style.css"
)

// Output paths. Other systems link to these, so they must not change.
const (
	PathHome      = "index.html"
	PathAbout     = "about.html"
	PathBlogIndex = "blog/index.html"
	PathVideos    = "videos.html"
	PathStory     = "story.html"
)

// Home page limits
const (
	HomeLatestBlogs    = 3
	HomeFeaturedVideos = 2
	HomeStoryPreview   = 1
)

const storyDescription = "Journey, experiences, and values that shape who I am"

// BlogPostPath returns the output path for a post slug
func BlogPostPath(slug string) string {
	return fmt.Sprintf("blog/%s.html", slug)
}

// Renderer renders a named template with a context. Template syntax is the renderer's concern.
type Renderer interface {
	Render(name string, data map[string]any) (string, error)
}

// Generator turns a cleaned bundle into a RenderedSite. It keeps no per-build state, so one
// Generator can serve many concurrent builds.
type Generator struct {
	renderer Renderer
	clock    func() time.Time
	logger   *log.Logger
	markdown bool
	title    string
}

// Option configures a Generator
type Option func(*Generator)

// WithClock sets the time source used for current_year
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) { g.clock = clock }
}

// WithLogger sets the generator's logger
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithMarkdown controls whether blog post content is converted to HTML as post_html
func WithMarkdown(enabled bool) Option {
	return func(g *Generator) { g.markdown = enabled }
}

// WithDefaultTitle sets the site title used when the bio has no name
func WithDefaultTitle(title string) Option {
	return func(g *Generator) {
		if title != "" {
			g.title = title
		}
	}
}

// NewGenerator creates a Generator that renders through r
func NewGenerator(r Renderer, opts ...Option) *Generator {
	g := &Generator{
		renderer: r,
		clock:    time.Now,
		markdown: true,
		title:    DefaultSiteTitle,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logging.OrDiscard(g.logger)
	return g
}

type pageSpec struct {
	path     string
	template string
	context  Context
}

// Generate renders every page of the site and the stylesheet. It returns either the complete
// site or an error naming the page that failed.
func (g *Generator) Generate(bundle *types.ContentBundle) (*types.RenderedSite, error) {
	if g.renderer == nil {
		return nil, &GenerationError{Page: "site", Message: "no template renderer configured"}
	}
	if bundle == nil {
		bundle = &types.ContentBundle{}
	}

	shared := g.sharedContext(bundle)
	specs, err := g.plan(bundle, shared)
	if err != nil {
		return nil, err
	}

	pages := make(map[string]string, len(specs))
	for _, spec := range specs {
		doc, err := g.renderer.Render(spec.template, spec.context)
		if err != nil {
			return nil, &GenerationError{Page: spec.path, Template: spec.template, Message: "render failed", Cause: err}
		}
		pages[spec.path] = doc
		g.logger.Debug("rendered page", "path", spec.path, "template", spec.template, "bytes", len(doc))
	}

	css, err := g.renderer.Render(TemplateStylesheet, map[string]any{"style": shared["style"]})
	if err != nil {
		return nil, &GenerationError{Page: types.StylesheetPath, Template: TemplateStylesheet, Message: "render failed", Cause: err}
	}

	return &types.RenderedSite{Pages: pages, Stylesheet: css}, nil
}

// plan assembles the context of every page in output order
func (g *Generator) plan(b *types.ContentBundle, shared Context) ([]pageSpec, error) {
	bio := b.Bio
	if bio == nil {
		bio = &types.Bio{}
	}
	headshot := b.Images.Slot(types.ImageHeadshot)
	blogs := orEmpty(b.Blogs)
	videos := orEmpty(b.Videos)
	chunks := orEmpty(b.StoryChunks)
	values := orEmpty(b.Values)
	links := orEmpty(b.SocialLinks)

	specs := []pageSpec{
		{PathHome, TemplateHome, page(shared, "Welcome", bio.Summary, Context{
			"bio":             bio,
			"banner":          b.Images.Slot(types.ImageBanner),
			"headshot":        headshot,
			"latest_blogs":    firstN(blogs, HomeLatestBlogs),
			"featured_videos": firstN(videos, HomeFeaturedVideos),
			"story_preview":   firstN(chunks, HomeStoryPreview),
		})},
		{PathAbout, TemplateAbout, page(shared, "About Me", bio.Headline, Context{
			"bio":          bio,
			"headshot":     headshot,
			"values":       values,
			"social_links": links,
		})},
		{PathBlogIndex, TemplateBlogIndex, page(shared, "Blog", "Latest thoughts and insights", Context{
			"posts": blogs,
		})},
	}

	// fixed pages own their paths; posts may not replace them
	seen := map[string]int{
		PathHome:      -1,
		PathAbout:     -1,
		PathBlogIndex: -1,
		PathVideos:    -1,
		PathStory:     -1,
	}
	for i, post := range blogs {
		if post.Slug == "" {
			g.logger.Debug("skipping blog post page without slug", "index", i, "title", post.Title)
			continue
		}
		path := BlogPostPath(post.Slug)
		if !slug.IsSlug(post.Slug) || pathpkg.Clean(path) != path {
			return nil, &GenerationError{
				Page:    path,
				Message: fmt.Sprintf("blog post %d has unsafe slug %q", i, post.Slug),
			}
		}
		if prev, dup := seen[path]; dup {
			msg := fmt.Sprintf("blog posts %d and %d share slug %q", prev, i, post.Slug)
			if prev < 0 {
				msg = fmt.Sprintf("blog post %d slug %q collides with a fixed page", i, post.Slug)
			}
			return nil, &GenerationError{Page: path, Message: msg}
		}
		seen[path] = i

		ctx := Context{
			"post":         post,
			"author":       bio.Name,
			"author_image": headshot,
		}
		if g.markdown {
			body, err := rendering.Markdown(post.Content)
			if err != nil {
				return nil, &GenerationError{Page: path, Message: "failed to convert post content", Cause: err}
			}
			ctx["post_html"] = body
		}
		specs = append(specs, pageSpec{path, TemplateBlogPost, page(shared, post.Title, post.Excerpt, ctx)})
	}

	specs = append(specs,
		pageSpec{PathVideos, TemplateVideos, page(shared, "Videos", "Watch my latest content", Context{
			"videos": videos,
		})},
		pageSpec{PathStory, TemplateStory, page(shared, "My Story", storyDescription, Context{
			"story_chunks": chunks,
			"values":       values,
			"social_links": links,
			"bio":          bio,
		})},
	)
	return specs, nil
}
