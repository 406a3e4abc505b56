package catalog

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/rakibhsn/chaldal-agent/browser"
	"github.com/rakibhsn/chaldal-agent/config"
	"github.com/rakibhsn/chaldal-agent/models"
)

// Verifier walks the bundled category table against the live site and
// rewrites the verified cache with the subset that still resolves.
type Verifier struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *Registry

	// precheck is a plain-HTTP probe used to discard dead slugs before
	// spending a browser navigation on them. The product grid itself is
	// script-rendered, so anything beyond status and title still needs
	// the browser.
	precheck *colly.Collector

	probeStatus int
	probeTitle  string
}

// NewVerifier builds a verifier writing through to the registry's cache.
func NewVerifier(cfg *config.Config, logger *zap.Logger, registry *Registry) (*Verifier, error) {
	parsed, err := url.Parse(cfg.BaseSiteURL)
	if err != nil {
		return nil, fmt.Errorf("parse site base URL: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("site base URL must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host, "www."+parsed.Host),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(cfg.WaitTimeout)

	v := &Verifier{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		precheck: collector,
	}

	collector.OnResponse(func(r *colly.Response) {
		v.probeStatus = r.StatusCode
	})
	collector.OnHTML("title", func(e *colly.HTMLElement) {
		v.probeTitle = strings.TrimSpace(e.Text)
	})
	collector.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			v.probeStatus = r.StatusCode
		}
	})

	return v, nil
}

// probe fetches a category URL over plain HTTP and returns the response
// status (0 when the request never completed) and document title.
func (v *Verifier) probe(pageURL string) (int, string, error) {
	v.probeStatus = 0
	v.probeTitle = ""
	err := v.precheck.Visit(pageURL)
	return v.probeStatus, v.probeTitle, err
}

// classify applies the page-validity rule: a page is a real category
// when its title carries the brand token, or it shows at least one
// product, or it has category/breadcrumb navigation.
func classify(title, brandToken string, productCount int, hasNav bool) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(brandToken)) ||
		productCount > 0 ||
		hasNav
}

// VerifyAll verifies every seed category against the live site and
// persists the verified subset wholesale to the cache. A failure on one
// category is logged and skipped; it never aborts the sweep.
func (v *Verifier) VerifyAll(ctx context.Context) (map[string]models.Category, error) {
	seed := SeedCategories()

	session, err := browser.NewSession(ctx, v.cfg, v.logger)
	if err != nil {
		return nil, fmt.Errorf("open verification session: %w", err)
	}
	defer session.Close()

	base := strings.TrimRight(v.cfg.BaseSiteURL, "/")
	now := time.Now()

	keys := make([]string, 0, len(seed))
	for k := range seed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	verified := make(map[string]models.Category)
	for _, key := range keys {
		cat := seed[key]
		pageURL := base + "/" + cat.URL
		v.logger.Info("verifying category",
			zap.String("name", cat.Name),
			zap.String("url", cat.URL),
		)

		// A definite HTTP error page means the slug is gone; anything
		// inconclusive (network error, status 0) still gets the browser
		// check.
		if status, _, _ := v.probe(pageURL); status >= 400 {
			v.logger.Info("category slug rejected by pre-check",
				zap.String("name", cat.Name),
				zap.Int("status", status),
			)
			continue
		}

		count, valid, err := v.inspect(session, pageURL)
		if err != nil {
			v.logger.Warn("category verification failed",
				zap.String("name", cat.Name),
				zap.Error(err),
			)
			continue
		}
		if !valid {
			v.logger.Info("category invalid", zap.String("name", cat.Name))
			continue
		}

		cat.ProductCount = count
		cat.Verified = true
		cat.VerifiedAt = now.Format(time.RFC3339)
		verified[key] = cat
	}

	if err := SaveCache(v.cfg.CategoriesFile, v.cfg.BaseSiteURL, verified, now); err != nil {
		return nil, err
	}
	v.registry.InvalidateMemo()

	v.logger.Info("category verification complete",
		zap.Int("verified", len(verified)),
		zap.Int("candidates", len(seed)),
	)
	return verified, nil
}

func (v *Verifier) inspect(session *browser.Session, pageURL string) (int, bool, error) {
	if err := session.Navigate(pageURL); err != nil {
		return 0, false, err
	}
	if err := session.Settle(v.cfg.ScrollPause); err != nil {
		return 0, false, err
	}

	title, err := session.Title()
	if err != nil {
		return 0, false, err
	}
	count, err := session.CountProducts()
	if err != nil {
		return 0, false, err
	}
	hasNav, err := session.HasNavigationMarkers()
	if err != nil {
		return 0, false, err
	}

	return count, classify(title, v.cfg.BrandToken, count, hasNav), nil
}
