// Package main is the entry point for the quotebook HTTP service.
package main

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quotebook/internal/adapters/clients"
	"github.com/jsamuelsen/quotebook/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotebook/internal/adapters/http"
	"github.com/jsamuelsen/quotebook/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotebook/internal/adapters/storage"
	"github.com/jsamuelsen/quotebook/internal/app"
	"github.com/jsamuelsen/quotebook/internal/platform/config"
	"github.com/jsamuelsen/quotebook/internal/platform/logging"
	"github.com/jsamuelsen/quotebook/internal/platform/telemetry"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load and validate configuration (fail fast)
	cfg, err := config.Load(cmp.Or(os.Getenv("APP_ENVIRONMENT"), "local"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 2. Logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage", cfg.Storage.Backend),
	)

	// 3. Telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 4. Storage and the quote collection
	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("closing storage", slog.Any("error", closeErr))
		}
	}()

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Store:  store,
		Logger: logger,
	})
	quoteService.Load(ctx)

	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering storage health check: %w", err)
	}

	// 5. Posts poller (optional)
	poller, err := newPostsPoller(cfg, logger)
	if err != nil {
		return err
	}

	var (
		postsHandler *handlers.PostsHandler
		pollerRun    func(context.Context) error
		postsSource  telemetry.PostsSource
	)

	if poller != nil {
		if err := healthRegistry.RegisterOptional(poller); err != nil {
			return fmt.Errorf("registering posts health check: %w", err)
		}

		postsHandler = handlers.NewPostsHandler(poller)
		pollerRun = poller.Run
		postsSource = poller
	}

	if err := telemetry.RegisterCollectionGauges(prometheus.DefaultRegisterer, quoteService, postsSource); err != nil {
		return fmt.Errorf("registering collection metrics: %w", err)
	}

	// 6. HTTP server
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName: cfg.App.Name,
		Auth:        &cfg.Auth,
		Timeout:     http.DefaultRequestTimeout,
		Health:      handlers.NewHealthHandler(healthRegistry, buildInfo, prometheus.DefaultGatherer),
		Quotes:      handlers.NewQuoteHandler(quoteService),
		Posts:       postsHandler,
	})

	// 7. Run until a signal arrives or a component fails
	err = app.RunAll(ctx,
		app.Component{Name: "http server", Run: server.Run},
		app.Component{Name: "posts poller", Run: pollerRun},
	)
	if err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

// newPostsPoller builds the poller over the instrumented client and the posts
// adapter. Returns nil when polling is disabled.
func newPostsPoller(cfg *config.Config, logger *slog.Logger) (*app.PostsPoller, error) {
	if !cfg.Posts.Enabled {
		logger.Info("posts poller disabled")
		return nil, nil
	}

	client, err := clients.New(&clients.Config{
		BaseURL:     cfg.Posts.BaseURL,
		ServiceName: "posts",
		Timeout:     cmp.Or(cfg.Posts.Timeout, cfg.Client.Timeout),
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		UserAgent:   cfg.App.Name + "/" + Version,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating posts client: %w", err)
	}

	return app.NewPostsPoller(app.PostsPollerConfig{
		Client:   acl.NewPostsAdapter(client, logger),
		Interval: cfg.Posts.Interval,
		Logger:   logger,
	}), nil
}
