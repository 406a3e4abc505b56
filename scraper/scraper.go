// Package scraper orchestrates one category scrape end to end: URL
// resolution, page loading and expansion, field extraction, category
// snapshot replacement, and the audit log entry.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rakibhsn/chaldal-agent/browser"
	"github.com/rakibhsn/chaldal-agent/catalog"
	"github.com/rakibhsn/chaldal-agent/config"
	"github.com/rakibhsn/chaldal-agent/models"
	"github.com/rakibhsn/chaldal-agent/parser"
	"github.com/rakibhsn/chaldal-agent/store"
)

// Scraper runs category scrapes. One browser session handles one
// category at a time; there is no concurrent scraping in this design.
type Scraper struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *catalog.Registry
	store    *store.Store
	metrics  *Metrics
}

// New builds a scraper over the given collaborators.
func New(cfg *config.Config, logger *zap.Logger, registry *catalog.Registry, st *store.Store, metrics *Metrics) *Scraper {
	return &Scraper{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		store:    st,
		metrics:  metrics,
	}
}

// outcome is the internal result of one scrape run before it is turned
// into a summary string and a log row.
type outcome struct {
	found int
	saved int
	err   error
}

// ScrapeCategory scrapes one category and persists the snapshot. The
// returned string is a human-readable summary; the error is non-nil for
// both the "no products" outcome and real failures, so callers can
// aggregate statuses without parsing the summary.
//
// Every invocation writes exactly one audit row, success or not.
func (s *Scraper) ScrapeCategory(ctx context.Context, category string) (string, error) {
	start := time.Now()
	s.logger.Info("starting category scrape", zap.String("category", category))

	if err := s.store.InitSchema(); err != nil {
		return s.finish(category, start, outcome{err: fmt.Errorf("init schema: %w", err)})
	}

	url := s.registry.ResolveURL(category)
	out := s.run(ctx, category, url)
	return s.finish(category, start, out)
}

func (s *Scraper) run(ctx context.Context, category, url string) outcome {
	session, err := browser.NewSession(ctx, s.cfg, s.logger)
	if err != nil {
		return outcome{err: err}
	}
	defer session.Close()

	if err := session.Navigate(url); err != nil {
		return outcome{err: err}
	}
	if err := session.WaitForProducts(); err != nil {
		return outcome{err: err}
	}

	rounds, err := session.ExpandAll()
	if err != nil {
		return outcome{err: err}
	}
	s.metrics.ObserveRounds(rounds)

	found, err := session.CountProducts()
	if err != nil {
		return outcome{err: err}
	}

	items, err := session.CollectItems()
	if err != nil {
		return outcome{found: found, err: err}
	}

	now := time.Now()
	products := make([]models.Product, 0, len(items))
	for _, item := range items {
		if p, ok := parser.BuildProduct(item, category, now); ok {
			products = append(products, p)
		}
	}

	saved, err := s.store.ReplaceCategory(category, products)
	if err != nil {
		return outcome{found: found, err: fmt.Errorf("persist category %q: %w", category, err)}
	}
	return outcome{found: found, saved: saved}
}

// finish classifies the outcome, writes the audit row, records metrics
// and renders the caller-facing summary.
func (s *Scraper) finish(category string, start time.Time, out outcome) (string, error) {
	duration := time.Since(start)
	s.metrics.ObserveDuration(duration)

	entry := models.ScrapeLog{
		Category:      category,
		ProductsFound: out.found,
		ProductsSaved: out.saved,
		Duration:      duration,
		ScrapedAt:     time.Now(),
	}

	switch {
	case errors.Is(out.err, browser.ErrNoProducts):
		entry.Status = models.StatusNotFound
		entry.ErrorMessage = out.err.Error()
		s.store.AppendLog(entry)
		s.metrics.IncScrape(models.StatusNotFound)
		s.logger.Warn("no products found", zap.String("category", category))
		return fmt.Sprintf("No products found for category: %s", category), out.err

	case out.err != nil:
		entry.Status = models.StatusError
		entry.ErrorMessage = out.err.Error()
		s.store.AppendLog(entry)
		s.metrics.IncScrape(models.StatusError)
		s.logger.Error("category scrape failed",
			zap.String("category", category),
			zap.Error(out.err),
		)
		return fmt.Sprintf("Error scraping %s: %v", category, out.err), out.err

	default:
		entry.Status = models.StatusSuccess
		s.store.AppendLog(entry)
		s.metrics.IncScrape(models.StatusSuccess)
		s.metrics.AddSaved(out.saved)
		s.logger.Info("category scrape complete",
			zap.String("category", category),
			zap.Int("found", out.found),
			zap.Int("saved", out.saved),
			zap.Duration("duration", duration),
		)
		return fmt.Sprintf("Successfully scraped %d products from %s category in %.1f seconds",
			out.saved, category, duration.Seconds()), nil
	}
}
