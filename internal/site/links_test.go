package site

import (
	"testing"

	"github.com/jonathan/site-builder/internal/rendering"
	"github.com/jonathan/site-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplates_ProduceNoBrokenLinks(t *testing.T) {
	r, err := rendering.NewDefaultRenderer()
	require.NoError(t, err)

	bundle := janeBundle()
	bundle.Blogs = []types.BlogPost{
		{Title: "Hello", Slug: "hello", Content: "Some **bold** text", PublishedAt: "2025-01-05"},
		{Title: "No page"},
	}
	bundle.Videos = []types.Video{{Title: "Talk", URL: "https://youtube.com/watch?v=1"}}

	site, err := NewGenerator(r, WithClock(fixedClock)).Generate(bundle)
	require.NoError(t, err)

	assert.Contains(t, site.Pages[PathAbout], "Jane")
	assert.Contains(t, site.Pages["blog/hello.html"], "<strong>bold</strong>")
	assert.Contains(t, site.Pages["blog/hello.html"], "January 05, 2025")
	assert.Contains(t, site.Pages[PathBlogIndex], "No page")
	assert.NotContains(t, site.Pages[PathBlogIndex], "/blog/.html")
	assert.Contains(t, site.Stylesheet, "--font-body: system-ui;")

	broken, err := CheckLinks(site)
	require.NoError(t, err)
	assert.Empty(t, broken)
}

func TestCheckLinks_ReportsMissingTargets(t *testing.T) {
	site := &types.RenderedSite{
		Pages: map[string]string{
			"index.html": `<a href="/">home</a><a href="/blog/">blog</a><a href="/missing.html">x</a>` +
				`<a href="https://example.com/x">ext</a><a href="#top">top</a><a href="/missing.html">again</a>`,
			"blog/index.html": `<link rel="stylesheet" href="/static/css/custom.css">`,
		},
	}

	broken, err := CheckLinks(site)
	require.NoError(t, err)
	assert.Equal(t, []string{`index.html: link "/missing.html" has no generated page`}, broken)
}

func TestLocalTarget(t *testing.T) {
	tests := []struct {
		href string
		want string
		ok   bool
	}{
		{"/", "index.html", true},
		{"/blog/", "blog/index.html", true},
		{"/about.html", "about.html", true},
		{"/blog/post.html#intro", "blog/post.html", true},
		{"//cdn.test/x.js", "", false},
		{"https://example.com", "", false},
		{"relative.html", "", false},
	}
	for _, tt := range tests {
		got, ok := localTarget(tt.href)
		assert.Equal(t, tt.ok, ok, tt.href)
		assert.Equal(t, tt.want, got, tt.href)
	}
}
