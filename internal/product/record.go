package product

// ProductRecord is the normalized product entity emitted to the sink.
// It is fully determined by one detail response plus the canonical page URL
// and is never mutated after assembly. The RPC key name is part of the feed
// schema.
type ProductRecord struct {
	Timestamp     int64             `json:"timestamp"`
	RPC           string            `json:"RPC"`
	URL           string            `json:"url"`
	Title         string            `json:"title"`
	MarketingTags []string          `json:"marketing_tags"`
	Brand         string            `json:"brand"`
	Section       [2]string         `json:"section"`
	PriceData     PriceData         `json:"price_data"`
	Stock         Stock             `json:"stock"`
	Assets        Assets            `json:"assets"`
	Metadata      map[string]string `json:"metadata"`
	Variants      int               `json:"variants"`
}

// PriceData holds the normalized price block. Original equals Current
// whenever no discount applies.
type PriceData struct {
	Current  float64 `json:"current"`
	Original float64 `json:"original"`
	SaleTag  string  `json:"sale_tag"`
}

// Stock holds availability data
type Stock struct {
	InStock bool  `json:"in_stock"`
	Count   int64 `json:"count"`
}

// Assets holds media references. The site exposes only a main image; the
// remaining collections are kept in the schema for downstream compatibility.
type Assets struct {
	MainImage string   `json:"main_image"`
	SetImages []string `json:"set_images"`
	View360   []string `json:"view360"`
	Video     []string `json:"video"`
}
