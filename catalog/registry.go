// Package catalog owns the mapping from human category names to site
// URLs: the bundled seed table, the verified cache, resolution of
// free-text queries, and live re-verification.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/rakibhsn/chaldal-agent/config"
	"github.com/rakibhsn/chaldal-agent/models"
	"github.com/rakibhsn/chaldal-agent/parser"
)

const resolveCacheSize = 128

// Registry resolves category queries against the verified cache. It is
// read-only over the cache file; only the Verifier writes it.
type Registry struct {
	baseURL   string
	cachePath string
	logger    *zap.Logger
	memo      *lru.Cache[string, string]
}

// NewRegistry builds a registry over the configured cache file.
func NewRegistry(cfg *config.Config, logger *zap.Logger) (*Registry, error) {
	memo, err := lru.New[string, string](resolveCacheSize)
	if err != nil {
		return nil, fmt.Errorf("build resolve cache: %w", err)
	}
	return &Registry{
		baseURL:   strings.TrimRight(cfg.BaseSiteURL, "/"),
		cachePath: cfg.CategoriesFile,
		logger:    logger,
		memo:      memo,
	}, nil
}

// Categories returns the verified category set keyed by lower-cased
// name. A missing or unreadable cache yields an empty map.
func (r *Registry) Categories() map[string]models.Category {
	cats, err := LoadCache(r.cachePath)
	if err != nil {
		r.logger.Warn("category cache unreadable", zap.Error(err))
		return map[string]models.Category{}
	}
	return cats
}

// InvalidateMemo drops memoized resolutions. The verifier calls this
// after replacing the cache.
func (r *Registry) InvalidateMemo() {
	r.memo.Purge()
}

// ResolveURL maps a free-text category query to a category page URL.
// Resolution order: exact case-insensitive match, then substring match
// in either direction (first match over sorted cache keys, which keeps
// the tie-break deterministic), then a slugified fallback URL. It never
// fails; the fallback is simply unverified.
func (r *Registry) ResolveURL(name string) string {
	key := lowerKey(name)
	if url, ok := r.memo.Get(key); ok {
		return url
	}

	url := r.resolve(key)
	r.memo.Add(key, url)
	return url
}

func (r *Registry) resolve(key string) string {
	cats := r.Categories()

	if cat, ok := cats[key]; ok {
		return r.baseURL + "/" + cat.URL
	}

	keys := make([]string, 0, len(cats))
	for k := range cats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			r.logger.Info("using partial category match",
				zap.String("query", key),
				zap.String("matched", k),
			)
			return r.baseURL + "/" + cats[k].URL
		}
	}

	r.logger.Warn("no category mapping found, trying direct URL", zap.String("query", key))
	return r.baseURL + "/" + parser.Slugify(key)
}
