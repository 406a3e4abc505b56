package agent

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rakibhsn/chaldal-agent/catalog"
	"github.com/rakibhsn/chaldal-agent/config"
	"github.com/rakibhsn/chaldal-agent/models"
	"github.com/rakibhsn/chaldal-agent/scraper"
	"github.com/rakibhsn/chaldal-agent/store"
)

// Dispatcher maps decoded tool calls onto the scraping and query
// components. Both the interactive menu and the model loop go through
// it.
type Dispatcher struct {
	cfg      *config.Config
	logger   *zap.Logger
	scraper  *scraper.Scraper
	registry *catalog.Registry
	verifier *catalog.Verifier
	store    *store.Store
}

// NewDispatcher wires the tool surface over its collaborators.
func NewDispatcher(cfg *config.Config, logger *zap.Logger, sc *scraper.Scraper, registry *catalog.Registry, verifier *catalog.Verifier, st *store.Store) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		logger:   logger,
		scraper:  sc,
		registry: registry,
		verifier: verifier,
		store:    st,
	}
}

// Execute runs one tool call and returns a human-readable summary. The
// error mirrors the summary for failed operations so callers can
// aggregate outcomes without parsing text. The switch is exhaustive
// over ToolKind.
func (d *Dispatcher) Execute(ctx context.Context, call ToolCall) (string, error) {
	switch call.Kind {
	case ToolScrapeProducts:
		return d.scraper.ScrapeCategory(ctx, call.Category)
	case ToolListCategories:
		return d.ListCategories(ctx)
	case ToolRefreshCategories:
		return d.RefreshCategories(ctx)
	case ToolViewData:
		return d.ViewData(call.Category, call.Limit)
	default:
		return "", fmt.Errorf("unhandled tool kind %d", int(call.Kind))
	}
}

// ListCategories renders the verified category set grouped by taxonomy
// level. An empty cache triggers a fresh verification sweep first.
func (d *Dispatcher) ListCategories(ctx context.Context) (string, error) {
	categories := d.registry.Categories()
	if len(categories) == 0 {
		d.logger.Info("no stored categories, extracting fresh data")
		fresh, err := d.verifier.VerifyAll(ctx)
		if err != nil {
			return fmt.Sprintf("Error retrieving categories: %v", err), err
		}
		categories = fresh
	}
	if len(categories) == 0 {
		err := fmt.Errorf("no categories found")
		return "No categories found.", err
	}

	byLevel := make(map[int][]models.Category)
	for _, cat := range categories {
		byLevel[cat.Level] = append(byLevel[cat.Level], cat)
	}
	levels := make([]int, 0, len(byLevel))
	for level := range byLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	host := displayHost(d.cfg.BaseSiteURL)
	var b strings.Builder
	fmt.Fprintf(&b, "Available Categories (%d total):\n", len(categories))
	for _, level := range levels {
		cats := byLevel[level]
		sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })

		fmt.Fprintf(&b, "\n%s (%d items):\n", levelName(level), len(cats))
		for _, cat := range cats {
			countInfo := ""
			if cat.ProductCount > 0 {
				countInfo = fmt.Sprintf(" (%d products)", cat.ProductCount)
			}
			fmt.Fprintf(&b, "  - %s -> %s/%s%s\n", cat.Name, host, cat.URL, countInfo)
		}
	}
	return b.String(), nil
}

// RefreshCategories forces a verification sweep and mirrors the result
// into the categories table.
func (d *Dispatcher) RefreshCategories(ctx context.Context) (string, error) {
	d.logger.Info("force refreshing categories")
	fresh, err := d.verifier.VerifyAll(ctx)
	if err != nil {
		return fmt.Sprintf("Error refreshing categories: %v", err), err
	}
	if len(fresh) == 0 {
		err := fmt.Errorf("no categories verified")
		return "Failed to refresh categories", err
	}

	if err := d.store.InitSchema(); err != nil {
		d.logger.Warn("category mirror skipped", zap.Error(err))
	} else if err := d.store.UpsertCategories(fresh, time.Now()); err != nil {
		d.logger.Warn("category mirror failed", zap.Error(err))
	}

	return fmt.Sprintf("Successfully refreshed %d categories from %s", len(fresh), displayHost(d.cfg.BaseSiteURL)), nil
}

// ViewData renders stored products, most recently scraped first.
func (d *Dispatcher) ViewData(category string, limit int) (string, error) {
	if err := d.store.InitSchema(); err != nil {
		return fmt.Sprintf("Error viewing data: %v", err), err
	}
	products, err := d.store.Query(category, limit)
	if err != nil {
		return fmt.Sprintf("Error viewing data: %v", err), err
	}
	if len(products) == 0 {
		msg := "No products found"
		if category != "" {
			msg += " for category: " + category
		}
		return msg, fmt.Errorf("no stored products")
	}

	var b strings.Builder
	if category != "" {
		fmt.Fprintf(&b, "Products from %q category (%d items):\n", category, len(products))
	} else {
		fmt.Fprintf(&b, "Recent Products (%d items):\n", len(products))
	}
	for _, p := range products {
		fmt.Fprintf(&b, "  - %s - %s (%s) [%s] - %s\n",
			p.Name, p.Price, p.Quantity, p.Category, p.ScrapedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String(), nil
}

func levelName(level int) string {
	switch level {
	case 0:
		return "Main Categories"
	case 1:
		return "Sub-Categories"
	case 2:
		return "Product Categories"
	default:
		return fmt.Sprintf("Level %d", level)
	}
}

func displayHost(base string) string {
	parsed, err := url.Parse(base)
	if err != nil || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}
	return parsed.Host
}
