package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"alkoteka/feedworker/helpers"

	"github.com/PuerkitoBio/goquery"
)

// DefaultSiteURL is the page discovery walks for category links
const DefaultSiteURL = "https://alkoteka.com"

// DiscoverCategories fetches the site's catalog page and extracts the root
// category URLs from its links. Used when no category seeds are configured.
func DiscoverCategories(ctx context.Context, fetcher helpers.Fetcher, siteURL string) ([]string, error) {
	body, err := fetcher.Fetch(ctx, siteURL)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing catalog page: %w", err)
	}

	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid site URL %q: %w", siteURL, err)
	}

	var categories []string
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)

		// only root category links: /catalog/{slug}
		parts := strings.Split(strings.Trim(resolved.Path, "/"), "/")
		if len(parts) != 2 || parts[0] != "catalog" || parts[1] == "" {
			return
		}
		if resolved.Host != base.Host {
			return
		}

		categoryURL := resolved.Scheme + "://" + resolved.Host + "/catalog/" + parts[1]
		if !seen[categoryURL] {
			seen[categoryURL] = true
			categories = append(categories, categoryURL)
		}
	})

	return categories, nil
}
