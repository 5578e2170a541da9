package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CollectionSource exposes the state sampled on every scrape.
type CollectionSource interface {
	QuoteCount() int
	CategoryCount() int
}

// PostsSource exposes the posts poller state sampled on every scrape.
type PostsSource interface {
	PostCount() int
	LastFetch() time.Time
}

// RegisterCollectionGauges registers scrape-time gauges for the quote
// collection and, when posts is non-nil, the polled posts feed.
// Re-registering the same gauges on reg is not an error.
func RegisterCollectionGauges(reg prometheus.Registerer, quotes CollectionSource, posts PostsSource) error {
	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "quotebook",
			Name:      "quotes",
			Help:      "Number of quotes in the collection.",
		}, func() float64 { return float64(quotes.QuoteCount()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "quotebook",
			Name:      "categories",
			Help:      "Number of distinct quote categories.",
		}, func() float64 { return float64(quotes.CategoryCount()) }),
	}

	if posts != nil {
		collectors = append(collectors,
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "quotebook",
				Name:      "posts",
				Help:      "Number of posts from the last successful fetch.",
			}, func() float64 { return float64(posts.PostCount()) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "quotebook",
				Name:      "posts_last_fetch_timestamp_seconds",
				Help:      "Unix time of the last successful posts fetch, 0 if none.",
			}, func() float64 {
				at := posts.LastFetch()
				if at.IsZero() {
					return 0
				}

				return float64(at.Unix())
			}),
		)
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}

			return fmt.Errorf("registering collection gauge: %w", err)
		}
	}

	return nil
}
