package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/site-builder/internal/schemas"
	"github.com/jonathan/site-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundleJSON = `{
  "bio": {"name": "Jane Doe", "summary": "Builder of things"},
  "images": {"profile": {"url": "https://cdn.example.com/p.png", "alt": "Jane"}},
  "story_chunks": [{"title": "Start", "content": "It began", "order_index": 1}],
  "social_links": [{"platform": "github", "url": "https://github.com/jane"}],
  "blogs": [{"title": "Hello", "slug": "hello", "published_at": "2025-01-05"}]
}`

const bundleYAML = `bio:
  name: Jane Doe
  summary: Builder of things
images:
  profile:
    url: https://cdn.example.com/p.png
    alt: Jane
story_chunks:
  - title: Start
    content: It began
    order_index: 1
social_links:
  - platform: github
    url: https://github.com/jane
blogs:
  - title: Hello
    slug: hello
    published_at: "2025-01-05"
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func assertJane(t *testing.T, b *types.ContentBundle) {
	t.Helper()
	require.NotNil(t, b.Bio)
	assert.Equal(t, "Jane Doe", b.Bio.Name)
	assert.Equal(t, "https://cdn.example.com/p.png", b.Images.Slot(types.ImageProfile).URL)
	require.Len(t, b.StoryChunks, 1)
	require.NotNil(t, b.StoryChunks[0].OrderIndex)
	assert.Equal(t, 1, *b.StoryChunks[0].OrderIndex)
	assert.Equal(t, "2025-01-05", b.Blogs[0].PublishedAt)
	assert.NotNil(t, b.Values)
	assert.NotNil(t, b.Videos)
}

func TestDecode_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := Decode([]byte(bundleJSON), FormatJSON)
	require.NoError(t, err)
	fromYAML, err := Decode([]byte(bundleYAML), FormatYAML)
	require.NoError(t, err)

	assertJane(t, fromJSON)
	assertJane(t, fromYAML)
	assert.Equal(t, fromJSON, fromYAML)
}

func TestDecode_EmptyDocuments(t *testing.T) {
	b, err := Decode([]byte(`{}`), FormatJSON)
	require.NoError(t, err)
	assert.Nil(t, b.Bio)
	assert.Empty(t, b.StoryChunks)
	assert.NotNil(t, b.SocialLinks)

	b, err = Decode([]byte(""), FormatYAML)
	require.NoError(t, err)
	assert.NotNil(t, b.Blogs)
}

func TestDecode_ShapeMismatch(t *testing.T) {
	_, err := Decode([]byte(`{"story_chunks": "not a list"}`), FormatJSON)
	var verr *schemas.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "story_chunks", verr.Errors[0].Field)

	_, err = Decode([]byte("bio: [1, 2]\n"), FormatYAML)
	require.ErrorAs(t, err, &verr)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{`), FormatJSON)
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = Decode([]byte("bio: [unclosed"), FormatYAML)
	assert.ErrorContains(t, err, "invalid YAML")

	_, err = Decode([]byte(`{}`), Format("toml"))
	assert.ErrorContains(t, err, "unsupported")
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.json", FormatJSON, false},
		{"a.YAML", FormatYAML, false},
		{"dir/a.yml", FormatYAML, false},
		{"a.txt", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileProvider_FetchContent(t *testing.T) {
	dir := t.TempDir()
	userID := uuid.New()
	writeFile(t, dir, userID.String()+".yaml", bundleYAML)

	at := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	p := NewFileProvider(dir, WithFileClock(func() time.Time { return at }))

	b, err := p.FetchContent(context.Background(), userID)
	require.NoError(t, err)
	assertJane(t, b)
	require.NotNil(t, b.Metadata)
	assert.Equal(t, at, b.Metadata.GeneratedAt)
	assert.Equal(t, map[string]int{"blogs": 1, "videos": 0, "story_chunks": 1}, b.Metadata.ContentCount)
}

func TestFileProvider_KeepsExistingMetadata(t *testing.T) {
	dir := t.TempDir()
	userID := uuid.New()
	writeFile(t, dir, userID.String()+".json",
		`{"metadata": {"generated_at": "2024-01-01T00:00:00Z", "content_count": {"blogs": 9}}}`)

	b, err := NewFileProvider(dir).FetchContent(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 9, b.Metadata.ContentCount["blogs"])
	assert.Equal(t, 2024, b.Metadata.GeneratedAt.Year())
}

func TestFileProvider_WithFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "brand.json", bundleJSON)
	p := NewFileProvider("", WithFile(path))

	b, err := p.FetchContent(context.Background(), uuid.New())
	require.NoError(t, err)
	assertJane(t, b)
}

func TestFileProvider_MissingUser(t *testing.T) {
	_, err := NewFileProvider(t.TempDir()).FetchContent(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileProvider(t.TempDir()).FetchContent(ctx, uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContentFetchError(t *testing.T) {
	boom := errors.New("boom")
	err := &ContentFetchError{Categories: map[string]error{
		CategoryVideos: errors.New("timeout"),
		CategoryBio:    boom,
	}}
	assert.Equal(t, []string{CategoryBio, CategoryVideos}, err.Names())
	assert.Equal(t, "failed to fetch content (bio: boom; videos: timeout)", err.Error())
	assert.ErrorIs(t, err, boom)
}

func TestProviderFunc(t *testing.T) {
	want := &types.ContentBundle{Bio: &types.Bio{Name: "x"}}
	var p Provider = ProviderFunc(func(ctx context.Context, userID uuid.UUID) (*types.ContentBundle, error) {
		return want, nil
	})
	got, err := p.FetchContent(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Same(t, want, got)
}
