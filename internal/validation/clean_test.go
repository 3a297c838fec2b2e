package validation

import (
	"bytes"
	"testing"

	"github.com/jonathan/site-builder/internal/logging"
	"github.com/jonathan/site-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderOf[T Ordered](items []T) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		if idx := it.GetOrderIndex(); idx != nil {
			out = append(out, *idx)
		} else {
			out = append(out, -1)
		}
	}
	return out
}

func TestClean_SortsStoryChunks(t *testing.T) {
	bundle := validBundle()
	bundle.StoryChunks = []types.StoryChunk{
		{Title: "c", Content: "c", OrderIndex: types.IntPtr(2)},
		{Title: "a", Content: "a", OrderIndex: types.IntPtr(0)},
		{Title: "b", Content: "b", OrderIndex: types.IntPtr(1)},
	}

	cleaned := New().Clean(bundle)

	assert.Equal(t, []int{0, 1, 2}, orderOf(cleaned.StoryChunks))
	assert.Equal(t, []int{2, 0, 1}, orderOf(bundle.StoryChunks), "input slice must not be reordered")
}

func TestClean_StableForTies(t *testing.T) {
	bundle := validBundle()
	bundle.Values = []types.Value{
		{Title: "first", Description: "d", OrderIndex: types.IntPtr(1)},
		{Title: "zero", Description: "d", OrderIndex: types.IntPtr(0)},
		{Title: "second", Description: "d", OrderIndex: types.IntPtr(1)},
		{Title: "third", Description: "d", OrderIndex: types.IntPtr(1)},
	}

	cleaned := New().Clean(bundle)

	titles := make([]string, 0, len(cleaned.Values))
	for _, v := range cleaned.Values {
		titles = append(titles, v.Title)
	}
	assert.Equal(t, []string{"zero", "first", "second", "third"}, titles)
}

func TestSortByOrderIndex_MissingSortsLast(t *testing.T) {
	items := []types.StoryChunk{
		{Title: "none"},
		{Title: "five", OrderIndex: types.IntPtr(5)},
		{Title: "one", OrderIndex: types.IntPtr(1)},
	}

	sorted := SortByOrderIndex(items)

	assert.Equal(t, []int{1, 5, -1}, orderOf(sorted))
	assert.NotNil(t, SortByOrderIndex[types.Value](nil))
}

func TestClean_DropsInvalidSocialLinks(t *testing.T) {
	var buf bytes.Buffer
	v := New(WithLogger(logging.New(logging.Config{Output: &buf})))

	bundle := validBundle()
	bundle.SocialLinks = []types.SocialLink{
		{Platform: "Twitter", URL: "https://twitter.com/x"},
		{Platform: "github", URL: "not-a-url"},
	}

	result := v.Validate(bundle)
	assert.Contains(t, result.Errors, "Social link 1: Invalid URL format")

	cleaned := v.Clean(bundle)

	require.Len(t, cleaned.SocialLinks, 1)
	assert.Equal(t, "twitter", cleaned.SocialLinks[0].Platform)
	assert.Equal(t, IconTwitter, cleaned.SocialLinks[0].Icon)
	assert.Contains(t, buf.String(), "skipping invalid social link")
}

func TestClean_EveryLinkHasIcon(t *testing.T) {
	bundle := validBundle()
	bundle.SocialLinks = []types.SocialLink{
		{Platform: "mastodon", URL: "https://mastodon.social/@jane"},
		{Platform: "Myspace", URL: "https://myspace.com/jane"},
	}

	cleaned := New().Clean(bundle)

	for _, link := range cleaned.SocialLinks {
		assert.NotEmpty(t, link.Icon)
	}
	assert.Equal(t, IconDefault, cleaned.SocialLinks[1].Icon)
}

func TestClean_Idempotent(t *testing.T) {
	bundle := validBundle()
	bundle.StoryChunks = append(bundle.StoryChunks, types.StoryChunk{Title: "z", Content: "z", OrderIndex: types.IntPtr(-1)})
	bundle.SocialLinks = append(bundle.SocialLinks, types.SocialLink{Platform: "X", URL: "https://x.com/jane"})

	v := New()
	once := v.Clean(bundle)
	twice := v.Clean(once)

	assert.Equal(t, once, twice)

	result := v.Validate(once)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Warnings, "cleaned content carries its defaults already")
}

func TestClean_PassesOtherFieldsThrough(t *testing.T) {
	bundle := validBundle()
	bundle.Style = &types.StyleProfile{Colors: map[string]any{"primary": map[string]any{"value": "#123456"}}}
	bundle.Blogs = []types.BlogPost{{Title: "b", Slug: "b"}}

	cleaned := New().Clean(bundle)

	assert.Same(t, bundle.Bio, cleaned.Bio)
	assert.Same(t, bundle.Style, cleaned.Style)
	assert.Equal(t, bundle.Blogs, cleaned.Blogs)
	assert.NotNil(t, cleaned.Videos)
}
