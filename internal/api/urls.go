package api

import (
	"net/url"
	"strconv"
)

// Site-specific constants. The city UUID pins every request to one store
// region and must be sent on both endpoints.
const (
	CityUUID   = "4a70f9e0-46ae-11e7-83ff-00155d026416"
	BaseAPIURL = "https://alkoteka.com/web-api/v1"

	DefaultPerPage = 20
)

// URLBuilder builds API URLs for the product endpoints
type URLBuilder struct {
	Base string
	City string
}

// NewURLBuilder creates a builder pointed at the production API
func NewURLBuilder() URLBuilder {
	return URLBuilder{
		Base: BaseAPIURL,
		City: CityUUID,
	}
}

// ListURL returns the product listing URL for one category page
func (b URLBuilder) ListURL(categorySlug string, page, perPage int) string {
	params := url.Values{}
	params.Set("city_uuid", b.City)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("root_category_slug", categorySlug)
	return b.Base + "/product?" + params.Encode()
}

// DetailURL returns the single-product URL for a product slug
func (b URLBuilder) DetailURL(slug string) string {
	return b.Base + "/product/" + slug + "?city_uuid=" + b.City
}
