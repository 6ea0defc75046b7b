package product

import (
	"encoding/json"
	"fmt"
	"time"

	"alkoteka/feedworker/internal/api"
)

// now is swapped out in tests
var now = time.Now

// Assemble combines the extractor outputs with the canonical page URL into
// one immutable record. Inputs are already defaulted, so assembly itself
// cannot fail.
func Assemble(p api.Product, productURL string) ProductRecord {
	return ProductRecord{
		Timestamp:     now().Unix(),
		RPC:           p.UUID,
		URL:           productURL,
		Title:         Title(p),
		MarketingTags: MarketingTags(p),
		Brand:         Brand(p),
		Section:       Section(p),
		PriceData:     Price(p),
		Stock:         StockInfo(p),
		Assets:        AssetInfo(p),
		Metadata:      Meta(p),
		Variants:      1,
	}
}

// ParseDetail decodes a detail endpoint body and assembles the record for
// it. productURL is the canonical page URL the stub was discovered with,
// not the API URL.
func ParseDetail(body []byte, productURL string) (ProductRecord, error) {
	var resp api.DetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ProductRecord{}, fmt.Errorf("failed to decode product detail: %w", err)
	}
	return Assemble(resp.Results, productURL), nil
}
