// Package types provides type definitions for structured data used throughout the site builder.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Image slot names recognised in a content bundle.
const (
	ImageProfile    = "profile"
	ImageBackground = "background"
	ImageBanner     = "banner"
	ImageHeadshot   = "headshot"
	ImageLogo       = "logo"
)

// ContentBundle is the full structured content for one site, before or after cleaning.
// A bundle is owned by a single build invocation and is never shared between builds.
type ContentBundle struct {
	Bio         *Bio          `json:"bio,omitempty" yaml:"bio,omitempty"`
	Images      *Images       `json:"images,omitempty" yaml:"images,omitempty"`
	Style       *StyleProfile `json:"style,omitempty" yaml:"style,omitempty"`
	StoryChunks []StoryChunk  `json:"story_chunks" yaml:"story_chunks"`
	Values      []Value       `json:"values" yaml:"values"`
	SocialLinks []SocialLink  `json:"social_links" yaml:"social_links"`
	Blogs       []BlogPost    `json:"blogs" yaml:"blogs"`
	Videos      []Video       `json:"videos" yaml:"videos"`
	Metadata    *Metadata     `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Bio is the user's approved professional bio
type Bio struct {
	Name      string   `json:"name" yaml:"name"`
	Headline  string   `json:"headline,omitempty" yaml:"headline,omitempty"`
	Summary   string   `json:"summary" yaml:"summary"`
	Content   string   `json:"content,omitempty" yaml:"content,omitempty"`
	Expertise []string `json:"expertise,omitempty" yaml:"expertise,omitempty"`
}

// Image is a single visual asset
type Image struct {
	URL string `json:"url" yaml:"url"`
	Alt string `json:"alt" yaml:"alt"`
}

// Images holds the named image slots. A nil slot means the image was never supplied.
type Images struct {
	Profile    *Image `json:"profile,omitempty" yaml:"profile,omitempty"`
	Background *Image `json:"background,omitempty" yaml:"background,omitempty"`
	Banner     *Image `json:"banner,omitempty" yaml:"banner,omitempty"`
	Headshot   *Image `json:"headshot,omitempty" yaml:"headshot,omitempty"`
	Logo       *Image `json:"logo,omitempty" yaml:"logo,omitempty"`
}

// Slot returns the named image, or an empty image when the slot is absent.
// It is safe to call on a nil receiver.
func (im *Images) Slot(name string) Image {
	if im == nil {
		return Image{}
	}
	var img *Image
	switch name {
	case ImageProfile:
		img = im.Profile
	case ImageBackground:
		img = im.Background
	case ImageBanner:
		img = im.Banner
	case ImageHeadshot:
		img = im.Headshot
	case ImageLogo:
		img = im.Logo
	}
	if img == nil {
		return Image{}
	}
	return *img
}

// Set stores img in the named slot. Unknown slot names are ignored and reported as false.
func (im *Images) Set(name string, img Image) bool {
	switch name {
	case ImageProfile:
		im.Profile = &img
	case ImageBackground:
		im.Background = &img
	case ImageBanner:
		im.Banner = &img
	case ImageHeadshot:
		im.Headshot = &img
	case ImageLogo:
		im.Logo = &img
	default:
		return false
	}
	return true
}

// StyleProfile carries brand colors, typography, voice and themes as free-form data
type StyleProfile struct {
	Colors     map[string]any `json:"colors,omitempty" yaml:"colors,omitempty"`
	Typography map[string]any `json:"typography,omitempty" yaml:"typography,omitempty"`
	Voice      map[string]any `json:"voice,omitempty" yaml:"voice,omitempty"`
	Themes     map[string]any `json:"themes,omitempty" yaml:"themes,omitempty"`
}

// StoryChunk is one ordered segment of the user's story
type StoryChunk struct {
	Title      string `json:"title" yaml:"title"`
	Content    string `json:"content" yaml:"content"`
	OrderIndex *int   `json:"order_index,omitempty" yaml:"order_index,omitempty"`
	Image      string `json:"image,omitempty" yaml:"image,omitempty"`
}

// GetOrderIndex returns the sort key, nil when missing
func (c StoryChunk) GetOrderIndex() *int { return c.OrderIndex }

// Value is one ordered personal value
type Value struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	OrderIndex  *int   `json:"order_index,omitempty" yaml:"order_index,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// GetOrderIndex returns the sort key, nil when missing
func (v Value) GetOrderIndex() *int { return v.OrderIndex }

// SocialLink points at one of the user's social profiles
type SocialLink struct {
	Platform string `json:"platform" yaml:"platform"`
	URL      string `json:"url" yaml:"url"`
	Icon     string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// BlogPost is an approved blog post. Posts are received already filtered and ordered.
type BlogPost struct {
	Title       string   `json:"title" yaml:"title"`
	Slug        string   `json:"slug,omitempty" yaml:"slug,omitempty"`
	Content     string   `json:"content,omitempty" yaml:"content,omitempty"`
	Excerpt     string   `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	PublishedAt string   `json:"published_at,omitempty" yaml:"published_at,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

// Video is an approved video
type Video struct {
	Title       string   `json:"title" yaml:"title"`
	URL         string   `json:"url" yaml:"url"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Metadata describes when the bundle was assembled and how much content it holds
type Metadata struct {
	GeneratedAt  time.Time      `json:"generated_at" yaml:"generated_at"`
	ContentCount map[string]int `json:"content_count" yaml:"content_count"`
}

// NewMetadata computes the metadata block for a bundle at the given time
func NewMetadata(b *ContentBundle, at time.Time) *Metadata {
	return &Metadata{
		GeneratedAt: at,
		ContentCount: map[string]int{
			"blogs":        len(b.Blogs),
			"videos":       len(b.Videos),
			"story_chunks": len(b.StoryChunks),
		},
	}
}

// IntPtr returns a pointer to i. Handy for building OrderIndex values.
func IntPtr(i int) *int { return &i }
