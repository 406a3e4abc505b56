package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rakibhsn/chaldal-agent/models"
)

const extractionMethod = "direct_verification"

func lowerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LoadCache reads the verified category cache. A missing file is not an
// error: it returns an empty map so callers fall through to their
// refresh path.
func LoadCache(path string) (map[string]models.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]models.Category{}, nil
		}
		return nil, fmt.Errorf("read category cache: %w", err)
	}

	var doc models.CacheDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode category cache: %w", err)
	}
	if doc.Categories == nil {
		return map[string]models.Category{}, nil
	}
	return doc.Categories, nil
}

// SaveCache replaces the cache file wholesale with the given verified
// set, stamped with the verification time.
func SaveCache(path, source string, categories map[string]models.Category, now time.Time) error {
	doc := models.CacheDocument{
		LastUpdated:      now.Format(time.RFC3339),
		Source:           source,
		TotalCategories:  len(categories),
		ExtractionMethod: extractionMethod,
		Categories:       categories,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode category cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write category cache: %w", err)
	}
	return nil
}
