package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/site-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 4, 7, 15, 4, 5, 0, time.UTC)

func testSite() *types.RenderedSite {
	return &types.RenderedSite{
		Pages: map[string]string{
			"index.html":      "<h1>home</h1>",
			"blog/index.html": "<h1>blog</h1>",
			"blog/hello.html": "<h1>hello</h1>",
		},
		Stylesheet: "body{}",
	}
}

func newTestPublisher(t *testing.T) (*FSPublisher, string) {
	root := t.TempDir()
	return NewFSPublisher(root, "http://localhost:8080/files/", WithClock(func() time.Time { return fixedTime })), root
}

func TestPublish_WritesAllFiles(t *testing.T) {
	p, root := newTestPublisher(t)
	userID := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	res, err := p.Publish(context.Background(), userID, testSite(), false)
	require.NoError(t, err)

	base := "sites/11111111-2222-3333-4444-555555555555/20250407_150405"
	assert.Equal(t, BucketWebsites, res.Bucket)
	assert.Equal(t, base+"/index.html", res.StoragePath)
	assert.Equal(t, "http://localhost:8080/files/websites/"+base+"/index.html", res.PublicURL)
	assert.False(t, res.IsPreview)
	assert.Equal(t, []string{
		base + "/blog/hello.html",
		base + "/blog/index.html",
		base + "/index.html",
		base + "/static/css/custom.css",
	}, res.Files)

	data, err := os.ReadFile(filepath.Join(root, "websites", filepath.FromSlash(base), "blog", "hello.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>hello</h1>", string(data))

	css, err := os.ReadFile(filepath.Join(root, "websites", filepath.FromSlash(base), "static", "css", "custom.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(css))
}

func TestPublish_PreviewBucket(t *testing.T) {
	p, root := newTestPublisher(t)
	res, err := p.Publish(context.Background(), uuid.New(), testSite(), true)
	require.NoError(t, err)
	assert.Equal(t, BucketPreviews, res.Bucket)
	assert.True(t, res.IsPreview)
	assert.DirExists(t, filepath.Join(root, BucketPreviews, "sites"))
	assert.NoDirExists(t, filepath.Join(root, BucketWebsites))
}

func TestPublish_SameSecondGetsDistinctDirs(t *testing.T) {
	p, _ := newTestPublisher(t)
	userID := uuid.New()

	first, err := p.Publish(context.Background(), userID, testSite(), true)
	require.NoError(t, err)
	second, err := p.Publish(context.Background(), userID, testSite(), true)
	require.NoError(t, err)

	assert.NotEqual(t, first.StoragePath, second.StoragePath)
	assert.Contains(t, second.StoragePath, "20250407_150405_1/")
}

func TestPublish_RejectsEscapingPaths(t *testing.T) {
	p, _ := newTestPublisher(t)
	site := &types.RenderedSite{Pages: map[string]string{"../evil.html": "x"}}

	_, err := p.Publish(context.Background(), uuid.New(), site, false)
	var perr *PublishError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "escapes")
}

func TestPublish_RejectsNonCanonicalPaths(t *testing.T) {
	p, root := newTestPublisher(t)
	site := &types.RenderedSite{Pages: map[string]string{
		"about.html":         "ABOUT",
		"blog/../about.html": "POST",
	}}

	_, err := p.Publish(context.Background(), uuid.New(), site, false)
	var perr *PublishError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "blog/../about.html", perr.Path)

	matches, err := filepath.Glob(filepath.Join(root, BucketWebsites, "sites", "*", "*", "about.html"))
	require.NoError(t, err)
	for _, m := range matches {
		data, err := os.ReadFile(m)
		require.NoError(t, err)
		assert.Equal(t, "ABOUT", string(data))
	}
}

func TestPublish_NilSite(t *testing.T) {
	p, _ := newTestPublisher(t)
	_, err := p.Publish(context.Background(), uuid.New(), nil, false)
	assert.Error(t, err)
}

func TestPublish_CanceledContext(t *testing.T) {
	p, _ := newTestPublisher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Publish(ctx, uuid.New(), testSite(), false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"index.html":            "text/html",
		"PAGE.HTML":             "text/html",
		"static/css/custom.css": "text/css",
		"app.js":                "application/javascript",
		"logo.png":              "application/octet-stream",
		"README":                "application/octet-stream",
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, ContentType(name))
		})
	}
}

func TestFSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*FSPublisher)(nil)
}
