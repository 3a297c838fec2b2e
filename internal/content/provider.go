// Package content loads personal brand content bundles from their sources.
package content

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/site-builder/internal/types"
)

// Content categories, in the order they are fetched and reported.
const (
	CategoryBio         = "bio"
	CategoryImages      = "images"
	CategoryStyle       = "style"
	CategoryStoryChunks = "story_chunks"
	CategoryValues      = "values"
	CategorySocialLinks = "social_links"
	CategoryBlogs       = "blogs"
	CategoryVideos      = "videos"
)

// Categories lists every content category.
var Categories = []string{
	CategoryBio,
	CategoryImages,
	CategoryStyle,
	CategoryStoryChunks,
	CategoryValues,
	CategorySocialLinks,
	CategoryBlogs,
	CategoryVideos,
}

// Provider fetches the content bundle for a user.
type Provider interface {
	FetchContent(ctx context.Context, userID uuid.UUID) (*types.ContentBundle, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, userID uuid.UUID) (*types.ContentBundle, error)

// FetchContent calls f.
func (f ProviderFunc) FetchContent(ctx context.Context, userID uuid.UUID) (*types.ContentBundle, error) {
	return f(ctx, userID)
}

// Normalize replaces nil category slices with empty ones.
func Normalize(b *types.ContentBundle) {
	if b.StoryChunks == nil {
		b.StoryChunks = []types.StoryChunk{}
	}
	if b.Values == nil {
		b.Values = []types.Value{}
	}
	if b.SocialLinks == nil {
		b.SocialLinks = []types.SocialLink{}
	}
	if b.Blogs == nil {
		b.Blogs = []types.BlogPost{}
	}
	if b.Videos == nil {
		b.Videos = []types.Video{}
	}
}
