// Package parser normalizes raw extraction records into product rows.
package parser

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rakibhsn/chaldal-agent/models"
)

// NumericPrice coerces a display price ("৳ 1,250.50", "Tk 85") into a
// number by stripping every non-digit, non-decimal character. The bool
// is false when nothing parseable remains.
func NumericPrice(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// DiscountPercent computes the discount between an original and a
// discounted display price, rounded to one decimal. The bool is false
// when either price fails coercion or the original is zero.
func DiscountPercent(original, discounted string) (float64, bool) {
	orig, ok := NumericPrice(original)
	if !ok || orig <= 0 {
		return 0, false
	}
	disc, ok := NumericPrice(discounted)
	if !ok {
		return 0, false
	}
	pct := (orig - disc) / orig * 100
	return math.Round(pct*10) / 10, true
}

// FormatDiscount renders a discount percentage the way the store and
// summaries display it, e.g. "25.0%".
func FormatDiscount(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}

// Slugify turns a free-text category query into a URL path segment:
// lower-cased, spaces replaced with hyphens.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// BuildProduct converts one raw extraction record into a product row.
// The second return is false when the item must be skipped (missing or
// empty name). Every other field is independently tolerant: an absent
// sub-element becomes an empty value.
//
// Price resolution is two-tier and this is the only price path: a
// discounted price, when present, wins and the sibling original price
// (if any) drives the discount computation; otherwise the plain price
// field is used.
func BuildProduct(raw models.RawItem, category string, now time.Time) (models.Product, bool) {
	name := strings.TrimSpace(deref(raw.Name))
	if name == "" {
		return models.Product{}, false
	}

	p := models.Product{
		Name:       name,
		Quantity:   strings.TrimSpace(deref(raw.Quantity)),
		Category:   category,
		ProductURL: deref(raw.ProductURL),
		ImageURL:   deref(raw.ImageURL),
		ScrapedAt:  now,
		UpdatedAt:  now,
	}

	discounted := strings.TrimSpace(deref(raw.DiscountedPrice))
	if discounted != "" {
		p.Price = discounted
		original := strings.TrimSpace(deref(raw.OriginalPrice))
		if original != "" {
			p.OriginalPrice = original
			if pct, ok := DiscountPercent(original, discounted); ok {
				p.DiscountPct = &pct
			}
		}
	} else {
		p.Price = strings.TrimSpace(deref(raw.Price))
	}

	return p, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
