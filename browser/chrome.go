// Package browser drives a headless Chrome session for one scraping
// operation. A Session is a scoped resource: acquire it at the start of
// an operation and Close it on every exit path.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/rakibhsn/chaldal-agent/config"
)

// Session wraps a running browser context.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	logger *zap.Logger
}

// NewSession allocates a browser and verifies it starts. The session is
// bounded by the config's global timeout on top of the parent context.
func NewSession(parent context.Context, cfg *config.Config, logger *zap.Logger) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,

		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("window-size", "1920,1080"),

		// Keep the session from being trivially fingerprinted as automation.
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(cfg.UserAgent),

		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("ignore-certificate-errors", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	timeoutCtx, timeoutCancel := context.WithTimeout(browserCtx, cfg.GlobalTimeout)

	cancel := func() {
		timeoutCancel()
		browserCancel()
		allocCancel()
	}

	// Force the browser process to start so a broken environment fails
	// here instead of mid-scrape.
	if err := chromedp.Run(timeoutCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Session{
		ctx:    timeoutCtx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Close tears down the browser and all derived contexts.
func (s *Session) Close() {
	s.logger.Debug("closing browser session")
	s.cancel()
}

// run executes actions under an action-scoped timeout derived from the
// session context.
func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	if err := s.ctx.Err(); err != nil {
		return fmt.Errorf("browser session closed: %w", err)
	}
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}
