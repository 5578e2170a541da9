//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebook/internal/adapters/clients"
	"github.com/jsamuelsen/quotebook/internal/adapters/clients/acl"
	httpadapter "github.com/jsamuelsen/quotebook/internal/adapters/http"
	"github.com/jsamuelsen/quotebook/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotebook/internal/adapters/storage"
	"github.com/jsamuelsen/quotebook/internal/app"
	"github.com/jsamuelsen/quotebook/internal/platform/config"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testAppConfig selects the collaborators of an in-process service.
type testAppConfig struct {
	// Store defaults to a fresh memory store.
	Store storage.Store

	// PostsURL enables the posts route when non-empty. The feed is fetched
	// once before the app is returned.
	PostsURL string
}

// testApp is the service wired the way cmd/service wires it, minus the listener.
type testApp struct {
	Handler http.Handler
	Quotes  *app.QuoteService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(ctx context.Context, cfg testAppConfig) (*testApp, error) {
	logger := discardLogger()

	store := cfg.Store
	if store == nil {
		store = storage.NewMemory()
	}

	quotes := app.NewQuoteService(app.QuoteServiceConfig{Store: store, Logger: logger})
	quotes.Load(ctx)

	registry := ports.NewHealthRegistry()
	if err := registry.Register(store); err != nil {
		return nil, err
	}

	var postsHandler *handlers.PostsHandler

	if cfg.PostsURL != "" {
		client, err := clients.New(&clients.Config{
			BaseURL:     cfg.PostsURL,
			ServiceName: "posts",
			Timeout:     2 * time.Second,
			Circuit:     config.CircuitBreakerConfig{MaxFailures: 3, Timeout: time.Second, HalfOpenLimit: 1},
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}

		poller := app.NewPostsPoller(app.PostsPollerConfig{
			Client: acl.NewPostsAdapter(client, logger),
			Logger: logger,
		})
		if _, err := poller.FetchOnce(ctx); err != nil {
			return nil, err
		}

		if err := registry.RegisterOptional(poller); err != nil {
			return nil, err
		}

		postsHandler = handlers.NewPostsHandler(poller)
	}

	srv := httpadapter.New(&config.ServerConfig{
		Host:            "127.0.0.1",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxRequestSize:  config.DefaultMaxRequestSize,
	}, logger)

	httpadapter.SetupRouter(srv.Engine(), httpadapter.RouterConfig{
		ServiceName: "quotebook-integration",
		Timeout:     httpadapter.DefaultRequestTimeout,
		Health:      handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now"), nil),
		Quotes:      handlers.NewQuoteHandler(quotes),
		Posts:       postsHandler,
	})

	return &testApp{Handler: srv.Engine(), Quotes: quotes}, nil
}
