package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/rakibhsn/chaldal-agent/models"
)

// ErrNoProducts reports that no product tile appeared within the wait
// budget. It is a recoverable, reportable condition, not a fatal one.
var ErrNoProducts = errors.New("no products appeared before the wait deadline")

const (
	productSelector = ".product"
	navSelector     = ".breadcrumb, .category, .navigation"
)

// Navigate loads a URL and scrubs the webdriver marker the site could
// use to reject automated sessions.
func (s *Session) Navigate(url string) error {
	s.logger.Info("navigating", zap.String("url", url))
	err := s.run(s.cfg.NavTimeout,
		chromedp.Navigate(url),
		chromedp.Evaluate(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`, nil),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// Title returns the current document title.
func (s *Session) Title() (string, error) {
	var title string
	if err := s.run(s.cfg.NavTimeout, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("read title: %w", err)
	}
	return title, nil
}

// WaitForProducts blocks until at least one product tile is attached or
// the wait budget expires, in which case it returns ErrNoProducts.
func (s *Session) WaitForProducts() error {
	err := s.run(s.cfg.WaitTimeout, chromedp.WaitVisible(productSelector, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrNoProducts
		}
		return fmt.Errorf("wait for products: %w", err)
	}
	return nil
}

// CountProducts returns the number of product tiles currently in the DOM.
func (s *Session) CountProducts() (int, error) {
	var count int
	err := s.run(s.cfg.NavTimeout,
		chromedp.Evaluate(`document.querySelectorAll('.product').length`, &count),
	)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// HasNavigationMarkers reports whether the page carries recognizable
// category or breadcrumb navigation.
func (s *Session) HasNavigationMarkers() (bool, error) {
	var count int
	err := s.run(s.cfg.NavTimeout,
		chromedp.Evaluate(fmt.Sprintf(`document.querySelectorAll(%q).length`, navSelector), &count),
	)
	if err != nil {
		return false, fmt.Errorf("check navigation markers: %w", err)
	}
	return count > 0, nil
}

// collectItemsJS pulls every product tile in one evaluation. Missing
// sub-elements come back as null so the parser can tell absent from
// empty.
const collectItemsJS = `
(() => {
	const text = (el, sel) => {
		const t = el.querySelector(sel);
		return t ? t.textContent.trim() : null;
	};
	return Array.from(document.querySelectorAll('.product')).map(el => {
		const link = el.querySelector('a');
		const img = el.querySelector('img');
		return {
			name: text(el, '.name'),
			discountedPrice: text(el, '.discountedPrice'),
			originalPrice: text(el, '.originalPrice'),
			price: text(el, '.price'),
			quantity: text(el, '.subText'),
			productUrl: link ? link.href : null,
			imageUrl: img ? img.src : null,
		};
	});
})()
`

// CollectItems extracts the raw field records for every product tile.
func (s *Session) CollectItems() ([]models.RawItem, error) {
	var items []models.RawItem
	if err := s.run(s.cfg.NavTimeout, chromedp.Evaluate(collectItemsJS, &items)); err != nil {
		return nil, fmt.Errorf("collect items: %w", err)
	}
	return items, nil
}

// Settle pauses for a fixed delay so asynchronous content can finish
// rendering, honouring session cancellation.
func (s *Session) Settle(d time.Duration) error {
	return sleepCtx(s.ctx, d)
}

// ExpandAll reveals all lazily-loaded products by scrolling to the
// bottom until the page height plateaus. It returns the number of
// scroll rounds performed.
func (s *Session) ExpandAll() (int, error) {
	return expandAll(s.ctx, sessionPager{s}, s.cfg.MaxScrolls, s.cfg.PlateauRounds, s.cfg.ScrollPause, s.logger)
}

// sessionPager adapts the live page to the pager interface used by the
// expansion loop.
type sessionPager struct {
	s *Session
}

func (p sessionPager) Measure(context.Context) (int, error) {
	var height int
	err := p.s.run(p.s.cfg.NavTimeout,
		chromedp.Evaluate(`document.body.scrollHeight`, &height),
	)
	return height, err
}

func (p sessionPager) Reveal(context.Context) error {
	return p.s.run(p.s.cfg.NavTimeout,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
	)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
