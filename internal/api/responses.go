package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ListResponse is one page of the category listing endpoint
type ListResponse struct {
	Results []ListItem `json:"results"`
	Meta    Meta       `json:"meta"`
}

// ListItem is a single product stub on a listing page. Items missing either
// field cannot be resolved to a detail request.
type ListItem struct {
	Slug       string `json:"slug"`
	ProductURL string `json:"product_url"`
}

// Meta carries the listing pagination flag
type Meta struct {
	HasMorePages bool `json:"has_more_pages"`
}

// DetailResponse is the envelope of the single-product endpoint
type DetailResponse struct {
	Results Product `json:"results"`
}

// Product is the raw product payload as the API returns it
type Product struct {
	UUID              string             `json:"uuid"`
	Name              string             `json:"name"`
	Slug              string             `json:"slug"`
	New               bool               `json:"new"`
	GiftPackage       bool               `json:"gift_package"`
	Price             Number             `json:"price"`
	PrevPrice         Number             `json:"prev_price"`
	QuantityTotal     Number             `json:"quantity_total"`
	VendorCode        Text               `json:"vendor_code"`
	ImageURL          string             `json:"image_url"`
	Category          Category           `json:"category"`
	FilterLabels      []FilterLabel      `json:"filter_labels"`
	DescriptionBlocks []DescriptionBlock `json:"description_blocks"`
	TextBlocks        []TextBlock        `json:"text_blocks"`
}

// Category is a product category node; Parent is nil for root categories
type Category struct {
	Name   string    `json:"name"`
	Parent *Category `json:"parent"`
}

// FilterLabel is a site attribute attached to a product (volume, strength,
// country and the like)
type FilterLabel struct {
	Filter string `json:"filter"`
	Title  string `json:"title"`
}

// DescriptionBlock groups attribute values under a code, e.g. "brend"
type DescriptionBlock struct {
	Code   string       `json:"code"`
	Values []BlockValue `json:"values"`
}

// BlockValue is one value inside a description block
type BlockValue struct {
	Name string `json:"name"`
}

// TextBlock is a free-text product description section
type TextBlock struct {
	Content string `json:"content"`
}

// Number is a tolerant numeric field. The API is loose about numeric typing,
// so a Number decodes from a JSON number, a numeric string, or null without
// ever failing; anything unparsable leaves the value invalid.
type Number struct {
	value float64
	valid bool
}

// NewNumber creates a valid Number, mainly for tests
func NewNumber(v float64) Number {
	return Number{value: v, valid: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	n.value, n.valid = 0, false

	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n.value = v
	n.valid = true
	return nil
}

// MarshalJSON implements json.Marshaler; invalid numbers encode as null
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

// Float64 returns the value and whether it was present and parsable
func (n Number) Float64() (float64, bool) {
	return n.value, n.valid
}

// Int64 returns the truncated value and whether it was present and parsable
func (n Number) Int64() (int64, bool) {
	return int64(n.value), n.valid
}

// Text is a tolerant string field that also decodes from bare numbers,
// which the API uses for some vendor codes
type Text string

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*t = ""
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*t = ""
			return nil
		}
		*t = Text(str)
		return nil
	}
	*t = Text(s)
	return nil
}
