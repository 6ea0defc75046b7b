package product

import (
	"fmt"

	"alkoteka/feedworker/internal/api"
)

// Marketing tags derived from product flags, appended in this order
const (
	TagNewProduct  = "New Product"
	TagGiftPackage = "Gift Package"
)

// brandBlockCode is the description block code the site uses for brands
const brandBlockCode = "brend"

// Metadata keys this extractor always controls; filter label codes fill in
// the rest
const (
	metaDescription = "__description"
	metaArticle     = "article"
)

// Title joins the base name with every non-empty filter label title in
// source order
func Title(p api.Product) string {
	title := p.Name
	for _, label := range p.FilterLabels {
		if label.Title != "" {
			title += ", " + label.Title
		}
	}
	return title
}

// MarketingTags derives tag labels from the product's boolean flags
func MarketingTags(p api.Product) []string {
	tags := []string{}
	if p.New {
		tags = append(tags, TagNewProduct)
	}
	if p.GiftPackage {
		tags = append(tags, TagGiftPackage)
	}
	return tags
}

// Brand returns the name of the first value in the first brand description
// block, or an empty string
func Brand(p api.Product) string {
	for _, block := range p.DescriptionBlocks {
		if block.Code == brandBlockCode && len(block.Values) > 0 {
			return block.Values[0].Name
		}
	}
	return ""
}

// Section returns the [parent, category] pair. The parent slot stays in
// place even when empty; consumers rely on the two-element shape.
func Section(p api.Product) [2]string {
	parent := ""
	if p.Category.Parent != nil {
		parent = p.Category.Parent.Name
	}
	return [2]string{parent, p.Category.Name}
}

// Price normalizes the price block. A discount applies only when
// original > current > 0; otherwise the original is reported equal to the
// current price and the sale tag stays empty.
func Price(p api.Product) PriceData {
	current, ok := p.Price.Float64()
	if !ok {
		current = 0
	}
	original, ok := p.PrevPrice.Float64()
	if !ok {
		original = current
	}

	saleTag := ""
	if original > current && current > 0 {
		discount := int((1 - current/original) * 100)
		saleTag = fmt.Sprintf("Discount %d%%", discount)
	} else {
		original = current
	}

	return PriceData{
		Current:  current,
		Original: original,
		SaleTag:  saleTag,
	}
}

// StockInfo normalizes availability; an absent quantity counts as zero
func StockInfo(p api.Product) Stock {
	count, ok := p.QuantityTotal.Int64()
	if !ok {
		count = 0
	}
	return Stock{
		InStock: count > 0,
		Count:   count,
	}
}

// AssetInfo collects media references
func AssetInfo(p api.Product) Assets {
	return Assets{
		MainImage: p.ImageURL,
		SetImages: []string{},
		View360:   []string{},
		Video:     []string{},
	}
}

// Meta builds the open key/value metadata map: the description is always
// present, the article only for a meaningful vendor code, and one entry per
// filter label keyed by its filter code. Later duplicate codes overwrite
// earlier ones.
func Meta(p api.Product) map[string]string {
	meta := map[string]string{metaDescription: ""}
	if len(p.TextBlocks) > 0 {
		meta[metaDescription] = p.TextBlocks[0].Content
	}

	if code := string(p.VendorCode); code != "" && code != "0" {
		meta[metaArticle] = code
	}

	for _, label := range p.FilterLabels {
		meta[label.Filter] = label.Title
	}

	return meta
}
