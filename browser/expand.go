package browser

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// pager abstracts the measurable, expandable page so the stopping rule
// can be exercised without a browser.
type pager interface {
	Measure(ctx context.Context) (int, error)
	Reveal(ctx context.Context) error
}

// expandAll repeatedly reveals more content and compares the page-size
// proxy before and after a settle delay. It stops after maxRounds total
// rounds, or earlier once plateauRounds consecutive rounds observe no
// change. A single stale read resets nothing: only the no-change streak
// counts toward the early stop, so normal network jitter is tolerated.
func expandAll(ctx context.Context, p pager, maxRounds, plateauRounds int, settle time.Duration, logger *zap.Logger) (int, error) {
	last, err := p.Measure(ctx)
	if err != nil {
		return 0, fmt.Errorf("initial measure: %w", err)
	}

	rounds := 0
	noChange := 0
	for rounds < maxRounds && noChange < plateauRounds {
		if err := p.Reveal(ctx); err != nil {
			return rounds, fmt.Errorf("reveal round %d: %w", rounds+1, err)
		}
		if err := sleepCtx(ctx, settle); err != nil {
			return rounds, err
		}

		current, err := p.Measure(ctx)
		if err != nil {
			return rounds, fmt.Errorf("measure round %d: %w", rounds+1, err)
		}

		if current == last {
			noChange++
		} else {
			noChange = 0
		}
		last = current
		rounds++

		if rounds%5 == 0 {
			logger.Debug("expansion progress",
				zap.Int("rounds", rounds),
				zap.Int("height", current),
			)
		}
	}

	logger.Info("expansion finished", zap.Int("rounds", rounds), zap.Int("height", last))
	return rounds, nil
}
