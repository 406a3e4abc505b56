package parser

import (
	"testing"
	"time"

	"github.com/rakibhsn/chaldal-agent/models"
)

func TestNumericPrice(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "currency symbol and comma", input: "৳ 1,250.50", want: 1250.50, wantOK: true},
		{name: "prefix text", input: "Tk 85", want: 85, wantOK: true},
		{name: "plain number", input: "42", want: 42, wantOK: true},
		{name: "decimal only", input: "12.5", want: 12.5, wantOK: true},
		{name: "no digits", input: "free", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "multiple dots fail parse", input: "1.2.3", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NumericPrice(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("NumericPrice(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("NumericPrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name       string
		original   string
		discounted string
		want       float64
		wantOK     bool
	}{
		{name: "quarter off", original: "৳ 100", discounted: "৳ 75", want: 25.0, wantOK: true},
		{name: "rounds to one decimal", original: "90", discounted: "60", want: 33.3, wantOK: true},
		{name: "no discount", original: "50", discounted: "50", want: 0.0, wantOK: true},
		{name: "zero original", original: "0", discounted: "10", wantOK: false},
		{name: "unparseable original", original: "n/a", discounted: "10", wantOK: false},
		{name: "unparseable discounted", original: "100", discounted: "n/a", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DiscountPercent(tt.original, tt.discounted)
			if ok != tt.wantOK {
				t.Fatalf("DiscountPercent(%q, %q) ok = %v, want %v", tt.original, tt.discounted, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("DiscountPercent(%q, %q) = %v, want %v", tt.original, tt.discounted, got, tt.want)
			}
		})
	}
}

func TestFormatDiscount(t *testing.T) {
	if got := FormatDiscount(25.0); got != "25.0%" {
		t.Errorf("FormatDiscount(25.0) = %q, want %q", got, "25.0%")
	}
	if got := FormatDiscount(33.3); got != "33.3%" {
		t.Errorf("FormatDiscount(33.3) = %q, want %q", got, "33.3%")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Cleaning Supplies", want: "cleaning-supplies"},
		{input: "  Rice  ", want: "rice"},
		{input: "Salt & Sugar", want: "salt-&-sugar"},
		{input: "dal", want: "dal"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func strPtr(s string) *string { return &s }

func TestBuildProduct(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("skips missing name", func(t *testing.T) {
		_, ok := BuildProduct(models.RawItem{Price: strPtr("৳ 100")}, "rice", now)
		if ok {
			t.Fatal("expected item without name to be skipped")
		}
	})

	t.Run("skips whitespace name", func(t *testing.T) {
		_, ok := BuildProduct(models.RawItem{Name: strPtr("   ")}, "rice", now)
		if ok {
			t.Fatal("expected item with blank name to be skipped")
		}
	})

	t.Run("tolerates missing optional fields", func(t *testing.T) {
		p, ok := BuildProduct(models.RawItem{Name: strPtr("Miniket Rice")}, "rice", now)
		if !ok {
			t.Fatal("expected item with only a name to be kept")
		}
		if p.Name != "Miniket Rice" || p.Price != "" || p.Quantity != "" {
			t.Errorf("unexpected product: %+v", p)
		}
		if p.DiscountPct != nil {
			t.Error("expected no discount for missing prices")
		}
		if p.Category != "rice" {
			t.Errorf("category = %q, want %q", p.Category, "rice")
		}
	})

	t.Run("discounted price wins and drives discount", func(t *testing.T) {
		raw := models.RawItem{
			Name:            strPtr("Soybean Oil 5L"),
			DiscountedPrice: strPtr("৳ 750"),
			OriginalPrice:   strPtr("৳ 1,000"),
			Price:           strPtr("৳ 999"),
		}
		p, ok := BuildProduct(raw, "oil", now)
		if !ok {
			t.Fatal("expected product to be kept")
		}
		if p.Price != "৳ 750" {
			t.Errorf("price = %q, want discounted price", p.Price)
		}
		if p.OriginalPrice != "৳ 1,000" {
			t.Errorf("original price = %q", p.OriginalPrice)
		}
		if p.DiscountPct == nil || *p.DiscountPct != 25.0 {
			t.Errorf("discount = %v, want 25.0", p.DiscountPct)
		}
	})

	t.Run("discounted without original has no discount", func(t *testing.T) {
		raw := models.RawItem{
			Name:            strPtr("Chinigura Rice 1kg"),
			DiscountedPrice: strPtr("৳ 140"),
		}
		p, ok := BuildProduct(raw, "rice", now)
		if !ok {
			t.Fatal("expected product to be kept")
		}
		if p.Price != "৳ 140" || p.OriginalPrice != "" {
			t.Errorf("unexpected prices: %+v", p)
		}
		if p.DiscountPct != nil {
			t.Error("expected absent discount without an original price")
		}
	})

	t.Run("plain price when no discount", func(t *testing.T) {
		raw := models.RawItem{
			Name:  strPtr("Fresh Milk 1L"),
			Price: strPtr("৳ 90"),
		}
		p, ok := BuildProduct(raw, "dairy", now)
		if !ok {
			t.Fatal("expected product to be kept")
		}
		if p.Price != "৳ 90" {
			t.Errorf("price = %q, want plain price", p.Price)
		}
	})

	t.Run("coercion failure leaves discount absent", func(t *testing.T) {
		raw := models.RawItem{
			Name:            strPtr("Mystery Item"),
			DiscountedPrice: strPtr("৳ 50"),
			OriginalPrice:   strPtr("ask in store"),
		}
		p, ok := BuildProduct(raw, "food", now)
		if !ok {
			t.Fatal("expected product to be kept")
		}
		if p.DiscountPct != nil {
			t.Error("expected absent discount when the original price fails coercion")
		}
		if p.OriginalPrice != "ask in store" {
			t.Errorf("original price = %q, want raw text preserved", p.OriginalPrice)
		}
	})
}
