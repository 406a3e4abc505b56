package catalog

import "github.com/rakibhsn/chaldal-agent/models"

// seedEntry is one row of the bundled category table.
type seedEntry struct {
	name   string
	url    string
	level  int
	parent string
}

// seedTable is the known category layout of the target site. The
// verifier walks this table against the live site; only entries that
// still resolve make it into the cache.
var seedTable = []seedEntry{
	// Root categories.
	{name: "Food", url: "food", level: 0},
	{name: "Cleaning Supplies", url: "cleaning", level: 0},
	{name: "Personal Care", url: "personal-care", level: 0},
	{name: "Health & Wellness", url: "hygiene", level: 0},
	{name: "Baby Care", url: "babycare", level: 0},
	{name: "Home & Kitchen", url: "home-kitchen", level: 0},
	{name: "Stationery & Office", url: "stationery-office", level: 0},
	{name: "Pet Care", url: "pet-care", level: 0},
	{name: "Toys & Sports", url: "toys-sports", level: 0},
	{name: "Beauty & MakeUp", url: "beauty", level: 0},
	{name: "Fashion & Lifestyle", url: "fashion-lifestyle", level: 0},
	{name: "Vehicle Essentials", url: "vehicle-essentials", level: 0},
	{name: "Qurbani Special", url: "qurbani-special", level: 0},
	{name: "Flash Sales", url: "flash-sales", level: 0},

	// Food sub-categories.
	{name: "Fruits & Vegetables", url: "fruits-vegetables", level: 1, parent: "Food"},
	{name: "Meat & Fish", url: "meat-fish", level: 1, parent: "Food"},
	{name: "Cooking", url: "cooking", level: 1, parent: "Food"},
	{name: "Dairy & Eggs", url: "dairy", level: 1, parent: "Food"},
	{name: "Breakfast", url: "breakfast", level: 1, parent: "Food"},
	{name: "Snacks", url: "snacks", level: 1, parent: "Food"},
	{name: "Beverages", url: "beverages", level: 1, parent: "Food"},
	{name: "Baking", url: "baking-needs", level: 1, parent: "Food"},
	{name: "Frozen & Canned", url: "frozen-foods", level: 1, parent: "Food"},

	// Cooking leaf categories, the unit products are scraped at.
	{name: "Rice", url: "rices", level: 2, parent: "Cooking"},
	{name: "Dal", url: "dal-or-lentil", level: 2, parent: "Cooking"},
	{name: "Oil", url: "oil", level: 2, parent: "Cooking"},
	{name: "Spices", url: "spices", level: 2, parent: "Cooking"},
	{name: "Salt & Sugar", url: "salt-sugar", level: 2, parent: "Cooking"},
	{name: "Ghee", url: "ghee", level: 2, parent: "Cooking"},
	{name: "Ready Mix", url: "ready-mix", level: 2, parent: "Cooking"},
	{name: "Special Ingredients", url: "miscellaneous", level: 2, parent: "Cooking"},
	{name: "Premium Ingredients", url: "premium-ingredients", level: 2, parent: "Cooking"},
	{name: "Colors & Flavours", url: "colors-flavours", level: 2, parent: "Cooking"},
	{name: "Shemai & Suji", url: "shemai-suji", level: 2, parent: "Cooking"},
}

// SeedCategories returns the bundled category table keyed by
// lower-cased name.
func SeedCategories() map[string]models.Category {
	out := make(map[string]models.Category, len(seedTable))
	for _, e := range seedTable {
		out[lowerKey(e.name)] = models.Category{
			Name:   e.name,
			URL:    e.url,
			Level:  e.level,
			Parent: e.parent,
		}
	}
	return out
}
