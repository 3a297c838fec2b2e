package validation

import (
	"cmp"
	"slices"

	"github.com/jonathan/site-builder/internal/types"
)

// Ordered is implemented by collections sorted by their order index
type Ordered interface {
	GetOrderIndex() *int
}

// SortByOrderIndex returns a stably sorted copy of items. Items without an order index sort last.
func SortByOrderIndex[T Ordered](items []T) []T {
	sorted := slices.Clone(items)
	if sorted == nil {
		sorted = []T{}
	}
	slices.SortStableFunc(sorted, func(a, b T) int {
		ai, bi := a.GetOrderIndex(), b.GetOrderIndex()
		switch {
		case ai == nil && bi == nil:
			return 0
		case ai == nil:
			return 1
		case bi == nil:
			return -1
		}
		return cmp.Compare(*ai, *bi)
	})
	return sorted
}

// Clean returns a new bundle ready for generation. It must only be called on a bundle whose
// validation result was valid. Story chunks and values are sorted, social links are normalized
// and any link that is individually invalid is dropped and logged.
func (v *Validator) Clean(bundle *types.ContentBundle) *types.ContentBundle {
	if bundle == nil {
		bundle = &types.ContentBundle{}
	}
	cleaned := *bundle

	cleaned.StoryChunks = SortByOrderIndex(bundle.StoryChunks)
	cleaned.Values = SortByOrderIndex(bundle.Values)

	links := make([]types.SocialLink, 0, len(bundle.SocialLinks))
	for i, link := range bundle.SocialLinks {
		normalized, result := v.NormalizeSocialLink(link, i)
		if !result.IsValid {
			v.logger.Warn("skipping invalid social link",
				"platform", link.Platform, "url", link.URL, "errors", result.Errors)
			continue
		}
		links = append(links, normalized)
	}
	cleaned.SocialLinks = links

	cleaned.Blogs = emptyIfNil(bundle.Blogs)
	cleaned.Videos = emptyIfNil(bundle.Videos)
	return &cleaned
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
