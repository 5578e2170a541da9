package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jsamuelsen/quotebook/internal/domain"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

// DefaultPollInterval is how often the posts feed is fetched when no interval is configured.
const DefaultPollInterval = 10 * time.Second

// errNoFetchYet is reported by Check until the first fetch completes.
var errNoFetchYet = errors.New("posts not fetched yet")

// PostsPoller periodically refreshes the remote posts list.
// Fetch failures are logged and otherwise ignored; the last good list is kept.
type PostsPoller struct {
	client   ports.PostsClient
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.RWMutex
	posts     []domain.Post
	fetchedAt time.Time
	lastErr   error
}

// PostsPollerConfig contains configuration for the posts poller.
type PostsPollerConfig struct {
	Client   ports.PostsClient
	Interval time.Duration
	Logger   *slog.Logger
}

// PostsSnapshot is the latest successfully fetched posts list.
type PostsSnapshot struct {
	Posts     []domain.Post
	FetchedAt time.Time
}

// NewPostsPoller creates a poller. Panics if Client is nil.
func NewPostsPoller(cfg PostsPollerConfig) *PostsPoller {
	if cfg.Client == nil {
		panic("PostsPoller: Client is required")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PostsPoller{
		client:   cfg.Client,
		interval: interval,
		logger:   logger.With(slog.String("component", "app.PostsPoller")),
		now:      time.Now,
		lastErr:  errNoFetchYet,
	}
}

// Run fetches immediately and then once per interval until ctx is cancelled.
// It always returns nil so it can run inside an errgroup next to the server.
func (p *PostsPoller) Run(ctx context.Context) error {
	p.logger.InfoContext(ctx, "starting posts poller", slog.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.FetchOnce(ctx); err != nil && ctx.Err() == nil {
			p.logger.WarnContext(ctx, "fetching posts failed", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "posts poller stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// FetchOnce fetches the feed a single time and stores the result on success.
func (p *PostsPoller) FetchOnce(ctx context.Context) ([]domain.Post, error) {
	posts, err := p.client.ListPosts(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.lastErr = err
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	p.posts = posts
	p.fetchedAt = p.now()
	p.lastErr = nil

	p.logger.DebugContext(ctx, "fetched posts", slog.Int("count", len(posts)))

	return clonePosts(posts), nil
}

// Latest returns the last successfully fetched posts.
// FetchedAt is zero until the first success.
func (p *PostsPoller) Latest() PostsSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return PostsSnapshot{
		Posts:     clonePosts(p.posts),
		FetchedAt: p.fetchedAt,
	}
}

// PostCount returns the size of the last fetched list.
func (p *PostsPoller) PostCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.posts)
}

// LastFetch returns the time of the last successful fetch, zero if none.
func (p *PostsPoller) LastFetch() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.fetchedAt
}

// Name implements ports.HealthChecker.
func (p *PostsPoller) Name() string {
	return "posts"
}

// Check reports the outcome of the most recent fetch.
// Implements ports.HealthChecker.
func (p *PostsPoller) Check(context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.lastErr
}

func clonePosts(posts []domain.Post) []domain.Post {
	out := make([]domain.Post, len(posts))
	copy(out, posts)

	return out
}
