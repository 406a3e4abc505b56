package models

// Category describes one site category. Level 0 is a root category,
// level 1 a sub-category, level 2 a leaf (the unit products are
// actually scraped at).
type Category struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Level        int    `json:"level"`
	Parent       string `json:"parent,omitempty"`
	ProductCount int    `json:"product_count"`
	Verified     bool   `json:"verified"`
	VerifiedAt   string `json:"verified_at,omitempty"`
}

// CacheDocument is the on-disk shape of the verified category cache.
// Categories are keyed by lower-cased name.
type CacheDocument struct {
	LastUpdated      string              `json:"last_updated"`
	Source           string              `json:"source"`
	TotalCategories  int                 `json:"total_categories"`
	ExtractionMethod string              `json:"extraction_method"`
	Categories       map[string]Category `json:"categories"`
}
