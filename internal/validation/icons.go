package validation

import "strings"

// FallbackIconKey names the entry used when a platform has no icon of its own
const FallbackIconKey = "default"

// IconTable maps lowercase platform names to icon classes. It is read-only once built.
type IconTable struct {
	icons    map[string]string
	fallback string
}

// NewIconTable copies icons into a table. The "default" entry, if present, becomes the fallback.
func NewIconTable(icons map[string]string) IconTable {
	copied := make(map[string]string, len(icons))
	for platform, icon := range icons {
		copied[strings.ToLower(platform)] = icon
	}
	fallback := copied[FallbackIconKey]
	if fallback == "" {
		fallback = "fa-solid fa-link"
	}
	return IconTable{icons: copied, fallback: fallback}
}

// Lookup returns the icon for platform, or the fallback icon for unknown platforms
func (t IconTable) Lookup(platform string) string {
	if icon, ok := t.icons[strings.ToLower(platform)]; ok && icon != "" {
		return icon
	}
	return t.fallback
}

// Fallback returns the generic link icon
func (t IconTable) Fallback() string {
	if t.fallback == "" {
		return "fa-solid fa-link"
	}
	return t.fallback
}

// Font Awesome classes for well-known platforms
const (
	IconTwitter  = "fa-brands fa-twitter"
	IconX        = "fa-brands fa-x-twitter"
	IconLinkedIn = "fa-brands fa-linkedin"
	IconGitHub   = "fa-brands fa-github"
	IconDefault  = "fa-solid fa-link"
)

// DefaultIcons returns the built-in platform icon table
func DefaultIcons() IconTable {
	return NewIconTable(map[string]string{
		"twitter":   IconTwitter,
		"x":         IconX,
		"linkedin":  IconLinkedIn,
		"facebook":  "fa-brands fa-facebook",
		"github":    IconGitHub,
		"instagram": "fa-brands fa-instagram",

		"youtube":       "fa-brands fa-youtube",
		"tiktok":        "fa-brands fa-tiktok",
		"pinterest":     "fa-brands fa-pinterest",
		"medium":        "fa-brands fa-medium",
		"dev":           "fa-brands fa-dev",
		"stackoverflow": "fa-brands fa-stack-overflow",
		"dribbble":      "fa-brands fa-dribbble",
		"behance":       "fa-brands fa-behance",
		"mastodon":      "fa-brands fa-mastodon",
		"threads":       "fa-brands fa-threads",

		"email":     "fa-regular fa-envelope",
		"website":   "fa-solid fa-globe",
		"blog":      "fa-solid fa-blog",
		"portfolio": "fa-solid fa-briefcase",
		"resume":    "fa-regular fa-file-lines",

		FallbackIconKey: IconDefault,
	})
}
