// Package models defines the data structures shared across the agent.
package models

import "time"

// Scrape log statuses.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// Product is one stored product row. A product is scoped to the category
// it was scraped under; the same physical item scraped under two category
// slugs yields two rows.
type Product struct {
	Name          string    `json:"name"`
	Price         string    `json:"price"`
	OriginalPrice string    `json:"original_price,omitempty"`
	DiscountPct   *float64  `json:"discount_percentage,omitempty"`
	Quantity      string    `json:"quantity"`
	Category      string    `json:"category"`
	Subcategory   string    `json:"subcategory,omitempty"`
	ProductURL    string    `json:"product_url,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	ScrapedAt     time.Time `json:"scraped_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RawItem is the untyped extraction record for a single product tile.
// Every field is optional by type: nil means the sub-element was absent
// on the page, an empty string means it was present but blank.
type RawItem struct {
	Name            *string `json:"name"`
	DiscountedPrice *string `json:"discountedPrice"`
	OriginalPrice   *string `json:"originalPrice"`
	Price           *string `json:"price"`
	Quantity        *string `json:"quantity"`
	ProductURL      *string `json:"productUrl"`
	ImageURL        *string `json:"imageUrl"`
}

// ScrapeLog is one append-only audit row, written once per scrape
// attempt whether it succeeded or not.
type ScrapeLog struct {
	Category      string
	ProductsFound int
	ProductsSaved int
	Status        string
	ErrorMessage  string
	Duration      time.Duration
	ScrapedAt     time.Time
}
