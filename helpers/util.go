package helpers

import (
	"strings"
)

// SlugFromURL returns the last path segment of a URL, the site's category
// slug convention
func SlugFromURL(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	parts := strings.Split(trimmed, "/")
	return parts[len(parts)-1]
}
