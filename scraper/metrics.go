package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraping pipeline.
type Metrics struct {
	Registry           *prometheus.Registry
	ScrapesTotal       *prometheus.CounterVec
	ScrapeDuration     prometheus.Histogram
	ProductsSavedTotal prometheus.Counter
	ScrollRounds       prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_scrapes_total",
			Help: "Total category scrape attempts by outcome status.",
		},
		[]string{"status"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agent_scrape_duration_seconds",
			Help:    "Wall-clock duration of one category scrape.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
	saved := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_products_saved_total",
			Help: "Total product rows written to the store.",
		},
	)
	rounds := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agent_scroll_rounds",
			Help:    "Scroll rounds needed to fully expand a category page.",
			Buckets: prometheus.LinearBuckets(0, 2, 11),
		},
	)

	registry.MustRegister(scrapes, duration, saved, rounds)

	return &Metrics{
		Registry:           registry,
		ScrapesTotal:       scrapes,
		ScrapeDuration:     duration,
		ProductsSavedTotal: saved,
		ScrollRounds:       rounds,
	}
}

// IncScrape counts one scrape attempt with its outcome status.
func (m *Metrics) IncScrape(status string) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(status).Inc()
}

// ObserveDuration records how long a category scrape took.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.ScrapeDuration.Observe(d.Seconds())
}

// AddSaved counts product rows written to the store.
func (m *Metrics) AddSaved(n int) {
	if m == nil {
		return
	}
	m.ProductsSavedTotal.Add(float64(n))
}

// ObserveRounds records the scroll rounds used for one page expansion.
func (m *Metrics) ObserveRounds(rounds int) {
	if m == nil {
		return
	}
	m.ScrollRounds.Observe(float64(rounds))
}
