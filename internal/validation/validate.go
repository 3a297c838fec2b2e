package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gosimple/slug"
	"github.com/jonathan/site-builder/internal/logging"
	"github.com/jonathan/site-builder/internal/types"
)

// Validator validates and cleans content bundles. It holds no per-build state and is safe for
// concurrent use by many builds.
type Validator struct {
	icons  IconTable
	logger *log.Logger
}

// Option configures a Validator
type Option func(*Validator)

// WithIcons replaces the platform icon table
func WithIcons(icons IconTable) Option {
	return func(v *Validator) { v.icons = icons }
}

// WithLogger sets the logger used to report links dropped while cleaning
func WithLogger(l *log.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// New creates a Validator with the default icon table
func New(opts ...Option) *Validator {
	v := &Validator{icons: DefaultIcons()}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = logging.OrDiscard(v.logger)
	return v
}

// Validate checks every section of the bundle and never modifies it.
// Errors are reported in encounter order: story chunks, values, social links, bio, images.
func (v *Validator) Validate(bundle *types.ContentBundle) types.ValidationResult {
	if bundle == nil {
		bundle = &types.ContentBundle{}
	}
	var errs, warnings []string
	collect := func(r types.ValidationResult) {
		errs = append(errs, r.Errors...)
		warnings = append(warnings, r.Warnings...)
	}

	for i, chunk := range bundle.StoryChunks {
		collect(ValidateStoryChunk(chunk, i))
	}
	for i, value := range bundle.Values {
		collect(ValidateValue(value, i))
	}
	for i, link := range bundle.SocialLinks {
		_, r := v.NormalizeSocialLink(link, i)
		collect(r)
	}

	if bundle.Bio == nil || bundle.Bio.Name == "" {
		errs = append(errs, "Missing required bio.name")
	}
	if bundle.Bio == nil || bundle.Bio.Summary == "" {
		errs = append(errs, "Missing required bio.summary")
	}
	if bundle.Images.Slot(types.ImageProfile).URL == "" {
		errs = append(errs, "Missing required profile image URL")
	}
	if bundle.Images.Slot(types.ImageBackground).URL == "" {
		errs = append(errs, "Missing required background image URL")
	}

	for i, post := range bundle.Blogs {
		warnings = append(warnings, blogPostWarnings(post, i)...)
	}

	return types.NewValidationResult(errs, warnings)
}

// ValidateStoryChunk checks a single story chunk. index only appears in messages.
func ValidateStoryChunk(chunk types.StoryChunk, index int) types.ValidationResult {
	var errs, warnings []string
	if chunk.Title == "" {
		errs = append(errs, fmt.Sprintf("Story chunk %d: Missing title", index))
	}
	if chunk.Content == "" {
		errs = append(errs, fmt.Sprintf("Story chunk %d: Missing content", index))
	}
	if chunk.OrderIndex == nil {
		errs = append(errs, fmt.Sprintf("Story chunk %d: Missing order_index", index))
	}
	if chunk.Image != "" && !IsAbsoluteURL(chunk.Image) {
		warnings = append(warnings, fmt.Sprintf("Story chunk %d: Invalid image URL format", index))
	}
	return types.NewValidationResult(errs, warnings)
}

// ValidateValue checks a single value. index only appears in messages.
func ValidateValue(value types.Value, index int) types.ValidationResult {
	var errs, warnings []string
	if value.Title == "" {
		errs = append(errs, fmt.Sprintf("Value %d: Missing title", index))
	}
	if value.Description == "" {
		errs = append(errs, fmt.Sprintf("Value %d: Missing description", index))
	}
	if value.OrderIndex == nil {
		errs = append(errs, fmt.Sprintf("Value %d: Missing order_index", index))
	}
	if value.Icon != "" && !IsAbsoluteURL(value.Icon) {
		warnings = append(warnings, fmt.Sprintf("Value %d: Invalid icon URL format", index))
	}
	return types.NewValidationResult(errs, warnings)
}

// NormalizeSocialLink returns a normalized copy of link together with its validation result.
// The copy has a lowercase platform and, when the platform is known, a non-empty icon.
// A default-icon warning is only produced when the input had no icon, so normalizing an
// already normalized link yields no warnings.
func (v *Validator) NormalizeSocialLink(link types.SocialLink, index int) (types.SocialLink, types.ValidationResult) {
	var errs, warnings []string
	out := link

	if link.Platform == "" {
		errs = append(errs, fmt.Sprintf("Social link %d: Missing platform", index))
	} else {
		out.Platform = strings.ToLower(link.Platform)
		if out.Icon == "" {
			out.Icon = v.icons.Lookup(out.Platform)
			warnings = append(warnings, fmt.Sprintf(
				"Social link %d: Using default icon '%s' for platform '%s'", index, out.Icon, out.Platform))
		}
	}

	if link.URL == "" {
		errs = append(errs, fmt.Sprintf("Social link %d: Missing URL", index))
	} else if !IsAbsoluteURL(link.URL) {
		errs = append(errs, fmt.Sprintf("Social link %d: Invalid URL format", index))
	}

	return out, types.NewValidationResult(errs, warnings)
}

func blogPostWarnings(post types.BlogPost, index int) []string {
	switch {
	case post.Slug == "":
		return []string{fmt.Sprintf("Blog post %d: Missing slug, no individual page will be generated", index)}
	case !slug.IsSlug(post.Slug):
		return []string{fmt.Sprintf("Blog post %d: Slug '%s' is not URL-safe", index, post.Slug)}
	}
	return nil
}

// IsAbsoluteURL reports whether raw parses as a URL with both a scheme and a host
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
