package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rakibhsn/chaldal-agent/config"
	"github.com/rakibhsn/chaldal-agent/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BaseSiteURL = "https://grocer.test"
	cfg.CategoriesFile = filepath.Join(t.TempDir(), "categories.json")
	return cfg
}

func writeTestCache(t *testing.T, cfg *config.Config, cats map[string]models.Category) {
	t.Helper()
	require.NoError(t, SaveCache(cfg.CategoriesFile, cfg.BaseSiteURL, cats, time.Now()))
}

func TestCacheRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	cats := map[string]models.Category{
		"rice": {Name: "Rice", URL: "rices", Level: 2, Parent: "Cooking", ProductCount: 42, Verified: true},
		"food": {Name: "Food", URL: "food", Level: 0},
	}
	writeTestCache(t, cfg, cats)

	loaded, err := LoadCache(cfg.CategoriesFile)
	require.NoError(t, err)
	require.Equal(t, cats, loaded)

	// Cache document metadata must survive the round trip.
	data, err := os.ReadFile(cfg.CategoriesFile)
	require.NoError(t, err)
	require.Contains(t, string(data), `"direct_verification"`)
	require.Contains(t, string(data), cfg.BaseSiteURL)
}

func TestLoadCacheMissingFile(t *testing.T) {
	loaded, err := LoadCache(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestLoadCacheCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadCache(path)
	require.Error(t, err)
}

func TestResolveURLExactMatch(t *testing.T) {
	cfg := testConfig(t)
	writeTestCache(t, cfg, map[string]models.Category{
		"rice": {Name: "Rice", URL: "rices", Level: 2},
	})

	r, err := NewRegistry(cfg, zap.NewNop())
	require.NoError(t, err)

	require.Equal(t, "https://grocer.test/rices", r.ResolveURL("Rice"))
	require.Equal(t, "https://grocer.test/rices", r.ResolveURL("  rice  "))
}

func TestResolveURLSubstringMatch(t *testing.T) {
	cfg := testConfig(t)
	writeTestCache(t, cfg, map[string]models.Category{
		"cleaning supplies": {Name: "Cleaning Supplies", URL: "cleaning-supplies", Level: 0},
	})

	r, err := NewRegistry(cfg, zap.NewNop())
	require.NoError(t, err)

	// Query contained in a key.
	require.Equal(t, "https://grocer.test/cleaning-supplies", r.ResolveURL("cleaning"))
	// Key contained in a query.
	require.Equal(t, "https://grocer.test/cleaning-supplies", r.ResolveURL("all cleaning supplies please"))
}

func TestResolveURLDeterministicTieBreak(t *testing.T) {
	cfg := testConfig(t)
	writeTestCache(t, cfg, map[string]models.Category{
		"oil":   {Name: "Oil", URL: "oil", Level: 2},
		"olive": {Name: "Olive", URL: "olives", Level: 2},
	})

	r, err := NewRegistry(cfg, zap.NewNop())
	require.NoError(t, err)

	// Both keys are substrings of the query; the first key in sorted
	// order wins every time.
	for i := 0; i < 5; i++ {
		r.InvalidateMemo()
		require.Equal(t, "https://grocer.test/oil", r.ResolveURL("olive oil"))
	}
}

func TestResolveURLSlugFallback(t *testing.T) {
	cfg := testConfig(t)
	writeTestCache(t, cfg, map[string]models.Category{
		"rice": {Name: "Rice", URL: "rices", Level: 2},
	})

	r, err := NewRegistry(cfg, zap.NewNop())
	require.NoError(t, err)

	require.Equal(t, "https://grocer.test/pet-care", r.ResolveURL("Pet Care"))
}

func TestResolveURLMemoInvalidation(t *testing.T) {
	cfg := testConfig(t)
	writeTestCache(t, cfg, map[string]models.Category{
		"rice": {Name: "Rice", URL: "rices", Level: 2},
	})

	r, err := NewRegistry(cfg, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, "https://grocer.test/rices", r.ResolveURL("rice"))

	// A replaced cache is only visible after memo invalidation.
	writeTestCache(t, cfg, map[string]models.Category{
		"rice": {Name: "Rice", URL: "rice-v2", Level: 2},
	})
	require.Equal(t, "https://grocer.test/rices", r.ResolveURL("rice"))

	r.InvalidateMemo()
	require.Equal(t, "https://grocer.test/rice-v2", r.ResolveURL("rice"))
}

func TestCategoriesUnreadableCache(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.CategoriesFile, []byte("{broken"), 0o644))

	r, err := NewRegistry(cfg, zap.NewNop())
	require.NoError(t, err)
	require.Empty(t, r.Categories())
}

func TestSeedCategories(t *testing.T) {
	seed := SeedCategories()
	require.Len(t, seed, 34)

	rice, ok := seed["rice"]
	require.True(t, ok)
	require.Equal(t, "rices", rice.URL)
	require.Equal(t, 2, rice.Level)
	require.Equal(t, "Cooking", rice.Parent)

	food, ok := seed["food"]
	require.True(t, ok)
	require.Equal(t, 0, food.Level)

	for key, cat := range seed {
		require.Equal(t, lowerKey(cat.Name), key)
		require.NotEmpty(t, cat.URL, "category %s has no URL", cat.Name)
	}
}
