package crawler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscoverCategories(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.responses["https://alkoteka.com"] = []byte(`
		<html><body>
			<nav>
				<a href="/catalog/krepkiy-alkogol">Strong alcohol</a>
				<a href="/catalog/vino">Wine</a>
				<a href="https://alkoteka.com/catalog/vino">Wine again</a>
				<a href="/catalog/vino/rossiya">Deeper than a root category</a>
				<a href="/about">About</a>
				<a href="https://other-site.com/catalog/pivo">Foreign host</a>
			</nav>
		</body></html>
	`)

	categories, err := DiscoverCategories(context.Background(), fetcher, "https://alkoteka.com")
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"https://alkoteka.com/catalog/krepkiy-alkogol",
		"https://alkoteka.com/catalog/vino",
	}, categories)
}

func TestDiscoverCategoriesFetchError(t *testing.T) {
	fetcher := newStubFetcher()

	_, err := DiscoverCategories(context.Background(), fetcher, "https://alkoteka.com")
	assert.Error(t, err)
}

func TestDiscoverCategoriesNoLinks(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.responses["https://alkoteka.com"] = []byte("<html><body><p>Maintenance</p></body></html>")

	categories, err := DiscoverCategories(context.Background(), fetcher, "https://alkoteka.com")
	assert.NoError(t, err)
	assert.Empty(t, categories)
}
