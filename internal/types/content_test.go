package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImages_SlotNilSafe(t *testing.T) {
	var images *Images
	assert.Equal(t, Image{}, images.Slot(ImageLogo))

	images = &Images{Logo: &Image{URL: "https://cdn.test/logo.png", Alt: "Logo"}}
	assert.Equal(t, "https://cdn.test/logo.png", images.Slot(ImageLogo).URL)
	assert.Equal(t, Image{}, images.Slot(ImageBanner))
	assert.Equal(t, Image{}, images.Slot("unknown"))
}

func TestImages_Set(t *testing.T) {
	images := &Images{}
	assert.True(t, images.Set(ImageHeadshot, Image{URL: "https://cdn.test/me.jpg"}))
	assert.False(t, images.Set("poster", Image{URL: "https://cdn.test/poster.jpg"}))
	require.NotNil(t, images.Headshot)
	assert.Equal(t, "https://cdn.test/me.jpg", images.Headshot.URL)
}

func TestContentBundle_WireShape(t *testing.T) {
	raw := `{
		"bio": {"name": "Jane", "summary": "Builder"},
		"story_chunks": [{"title": "Start", "content": "x", "order_index": 0}],
		"social_links": [{"platform": "GitHub", "url": "https://github.com/jane"}]
	}`

	var bundle ContentBundle
	require.NoError(t, json.Unmarshal([]byte(raw), &bundle))

	require.NotNil(t, bundle.Bio)
	assert.Equal(t, "Jane", bundle.Bio.Name)
	require.Len(t, bundle.StoryChunks, 1)
	require.NotNil(t, bundle.StoryChunks[0].OrderIndex)
	assert.Equal(t, 0, *bundle.StoryChunks[0].OrderIndex)
	assert.Equal(t, "GitHub", bundle.SocialLinks[0].Platform)
	assert.Nil(t, bundle.Images)
}

func TestStoryChunk_MissingOrderIndexIsNil(t *testing.T) {
	var chunk StoryChunk
	require.NoError(t, json.Unmarshal([]byte(`{"title": "a", "content": "b"}`), &chunk))
	assert.Nil(t, chunk.GetOrderIndex())
}

func TestNewMetadata_CountsContent(t *testing.T) {
	at := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	bundle := &ContentBundle{
		Blogs:       []BlogPost{{Title: "a"}, {Title: "b"}},
		StoryChunks: []StoryChunk{{Title: "c"}},
	}

	md := NewMetadata(bundle, at)

	assert.Equal(t, at, md.GeneratedAt)
	assert.Equal(t, 2, md.ContentCount["blogs"])
	assert.Equal(t, 0, md.ContentCount["videos"])
	assert.Equal(t, 1, md.ContentCount["story_chunks"])
}

func TestNewValidationResult(t *testing.T) {
	ok := NewValidationResult(nil, []string{"careful"})
	assert.True(t, ok.IsValid)
	assert.Empty(t, ok.Errors)
	assert.Equal(t, []string{"careful"}, ok.Warnings)

	bad := NewValidationResult([]string{"Missing required bio.name"}, nil)
	assert.False(t, bad.IsValid)
	assert.NotNil(t, bad.Warnings)
}

func TestRenderedSite_PathsAndFiles(t *testing.T) {
	site := &RenderedSite{
		Pages: map[string]string{
			"story.html":      "s",
			"index.html":      "i",
			"blog/index.html": "b",
		},
		Stylesheet: "body{}",
	}

	assert.Equal(t, []string{"blog/index.html", "index.html", "story.html"}, site.Paths())

	files := site.Files()
	assert.Len(t, files, 4)
	assert.Equal(t, "body{}", files[StylesheetPath])
}

func TestBuildStatus_IsTerminal(t *testing.T) {
	assert.False(t, BuildQueued.IsTerminal())
	assert.False(t, BuildInProgress.IsTerminal())
	assert.True(t, BuildComplete.IsTerminal())
	assert.True(t, BuildError.IsTerminal())
}
