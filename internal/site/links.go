package site

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/site-builder/internal/types"
)

// CheckLinks reports site-relative links in the rendered pages that do not resolve to a
// generated file. Absolute URLs and fragment-only links are ignored. Results are sorted by page.
func CheckLinks(s *types.RenderedSite) ([]string, error) {
	if s == nil {
		return nil, nil
	}
	files := s.Files()

	var broken []string
	for _, pagePath := range s.Paths() {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.Pages[pagePath]))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", pagePath, err)
		}

		seen := make(map[string]bool)
		doc.Find("a[href], link[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			target, ok := localTarget(href)
			if !ok || seen[href] {
				return
			}
			seen[href] = true
			if _, exists := files[target]; !exists {
				broken = append(broken, fmt.Sprintf("%s: link %q has no generated page", pagePath, href))
			}
		})
	}
	return broken, nil
}

// localTarget maps a site-relative href to the output path that serves it
func localTarget(href string) (string, bool) {
	if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	p := path.Clean(u.Path)
	if strings.HasSuffix(u.Path, "/") || p == "/" {
		p = path.Join(p, "index.html")
	}
	return strings.TrimPrefix(p, "/"), true
}
