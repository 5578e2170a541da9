// Package app contains application services that orchestrate use cases.
// This is the application layer - it coordinates domain logic and
// infrastructure through ports.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen/quotebook/internal/domain"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

const instrumentationName = "github.com/jsamuelsen/quotebook/internal/app"

// QuoteService owns the quote collection.
// Every operation runs to completion under mu, so concurrent callers observe
// the same ordering a single event loop would give them.
type QuoteService struct {
	mu     sync.RWMutex
	quotes []domain.Quote

	store         ports.KeyValueStore
	rng           domain.Intner
	logger        *slog.Logger
	manualPersist bool

	mutations metric.Int64Counter
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	// Store receives a snapshot after every mutation. Required.
	Store ports.KeyValueStore

	// ManualPersist skips the best-effort write after Add and Import. The
	// caller writes with Persist and sees its error.
	ManualPersist bool

	// Rand picks random quotes. Defaults to the math/rand/v2 global source.
	Rand domain.Intner

	// Logger defaults to slog.Default() if nil.
	Logger *slog.Logger
}

// globalRand adapts the goroutine-safe top-level math/rand/v2 functions.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) } //nolint:gosec // Quote selection needs no crypto-grade randomness

// NewQuoteService creates a quote service holding the built-in seed quotes.
// Panics if Store is nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Store == nil {
		panic("QuoteService: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rng := cfg.Rand
	if rng == nil {
		rng = globalRand{}
	}

	mutations, err := otel.Meter(instrumentationName).Int64Counter(
		"quotebook.quotes.mutations",
		metric.WithDescription("Quotes appended to the collection, by operation"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return &QuoteService{
		quotes:    domain.Seed(),
		store:         cfg.Store,
		rng:           rng,
		logger:        logger.With(slog.String("component", "app.QuoteService")),
		manualPersist: cfg.ManualPersist,
		mutations:     mutations,
	}
}

// loggerFor prefers the request-scoped logger carried in ctx.
func (s *QuoteService) loggerFor(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

// Seed resets the collection to the built-in quotes without persisting.
func (s *QuoteService) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes = domain.Seed()
}

// Load replaces the collection with the persisted snapshot, if a valid one exists.
// A missing key, a storage error, invalid JSON or a non-array value leave the
// collection unchanged; Load never fails. Malformed entries inside a valid array
// are dropped. The resulting collection is returned.
func (s *QuoteService) Load(ctx context.Context) []domain.Quote {
	logger := s.loggerFor(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.store.Get(ctx, ports.QuotesKey)

	switch {
	case err != nil:
		logger.WarnContext(ctx, "reading snapshot failed, keeping current quotes", slog.Any("error", err))
	case !ok:
		logger.DebugContext(ctx, "no snapshot found, keeping current quotes")
	default:
		quotes, dropped, parseErr := domain.ParseQuotes("snapshot", raw)
		if parseErr != nil {
			logger.WarnContext(ctx, "ignoring unreadable snapshot", slog.Any("error", parseErr))
			break
		}

		if dropped > 0 {
			logger.WarnContext(ctx, "dropped malformed snapshot entries", slog.Int("dropped", dropped))
		}

		s.quotes = quotes

		logger.InfoContext(ctx, "loaded snapshot", slog.Int("count", len(quotes)))
	}

	return cloneQuotes(s.quotes)
}

// Add appends a quote built from the trimmed inputs and persists the collection.
// Returns a domain.ValidationError naming the first empty field.
func (s *QuoteService) Add(ctx context.Context, text, category string) (domain.Quote, error) {
	q, err := domain.NewQuote(text, category)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("adding quote: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes = append(s.quotes, q)
	s.recordMutation(ctx, "add", 1)
	s.persistLocked(ctx)

	s.loggerFor(ctx).InfoContext(ctx, "added quote",
		slog.String("category", q.Category),
		slog.Int("count", len(s.quotes)),
	)

	return q, nil
}

// Import appends every well-formed entry of a JSON array and persists once.
// Only an unparsable or non-array payload fails, with a domain.FormatError;
// malformed entries are skipped. Returns the number of quotes appended.
func (s *QuoteService) Import(ctx context.Context, raw string) (int, error) {
	logger := s.loggerFor(ctx)

	accepted, dropped, err := domain.ParseQuotes("import", raw)
	if err != nil {
		logger.WarnContext(ctx, "rejected import payload", slog.Any("error", err))
		return 0, fmt.Errorf("importing quotes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes = append(s.quotes, accepted...)
	s.recordMutation(ctx, "import", len(accepted))
	s.persistLocked(ctx)

	logger.InfoContext(ctx, "imported quotes",
		slog.Int("accepted", len(accepted)),
		slog.Int("dropped", dropped),
		slog.Int("count", len(s.quotes)),
	)

	return len(accepted), nil
}

// Random returns a uniformly chosen quote.
// Returns a domain.NotFoundError when the collection is empty.
func (s *QuoteService) Random(ctx context.Context) (domain.Quote, error) {
	return s.RandomInCategory(ctx, domain.CategoryAll)
}

// RandomInCategory returns a uniformly chosen quote from category.
// The empty string and domain.CategoryAll select from the whole collection.
// Returns a domain.NotFoundError when nothing matches.
func (s *QuoteService) RandomInCategory(ctx context.Context, category string) (domain.Quote, error) {
	anyCategory := category == "" || category == domain.CategoryAll

	s.mu.RLock()
	candidates := s.quotes
	if !anyCategory {
		candidates = domain.FilterByCategory(s.quotes, category)
	}

	q, ok := domain.PickRandom(candidates, s.rng)
	s.mu.RUnlock()

	if !ok {
		s.loggerFor(ctx).DebugContext(ctx, "no quotes to pick from", slog.String("category", category))

		if anyCategory {
			return domain.Quote{}, domain.NewNotFoundError("quote", "")
		}

		return domain.Quote{}, domain.NewNotFoundError("category", category)
	}

	return q, nil
}

// List returns a copy of the collection in insertion order.
func (s *QuoteService) List(context.Context) []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneQuotes(s.quotes)
}

// Filter returns the quotes in category, in insertion order. The match is
// exact; an empty category returns the whole collection.
func (s *QuoteService) Filter(_ context.Context, category string) []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if category == "" {
		return cloneQuotes(s.quotes)
	}

	return domain.FilterByCategory(s.quotes, category)
}

// Categories returns the sorted category index.
func (s *QuoteService) Categories(context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Categories(s.quotes)
}

// QuoteCount returns the collection size.
func (s *QuoteService) QuoteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.quotes)
}

// CategoryCount returns the size of the category index.
func (s *QuoteService) CategoryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(domain.Categories(s.quotes))
}

// Export renders the collection as two-space indented JSON.
func (s *QuoteService) Export(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.EncodeExport(s.quotes)
}

// Persist writes the current snapshot to the store.
func (s *QuoteService) Persist(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.writeSnapshot(ctx)
}

// persistLocked is the best-effort write that follows a mutation.
// Failures are logged; the in-memory mutation stands. Caller holds mu.
// The write is detached from ctx cancellation so an accepted mutation is not
// lost when the caller has already gone away.
func (s *QuoteService) persistLocked(ctx context.Context) {
	if s.manualPersist {
		return
	}

	if err := s.writeSnapshot(context.WithoutCancel(ctx)); err != nil {
		s.loggerFor(ctx).ErrorContext(ctx, "persisting snapshot failed", slog.Any("error", err))
	}
}

func (s *QuoteService) writeSnapshot(ctx context.Context) error {
	raw, err := domain.EncodeSnapshot(s.quotes)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := s.store.Set(ctx, ports.QuotesKey, raw); err != nil {
		return domain.NewUnavailableError("storage", err.Error())
	}

	return nil
}

func (s *QuoteService) recordMutation(ctx context.Context, op string, n int) {
	if s.mutations == nil || n == 0 {
		return
	}

	s.mutations.Add(ctx, int64(n), metric.WithAttributes(attribute.String("operation", op)))
}

func cloneQuotes(quotes []domain.Quote) []domain.Quote {
	out := make([]domain.Quote, len(quotes))
	copy(out, quotes)

	return out
}
