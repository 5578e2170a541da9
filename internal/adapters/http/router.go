package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebook/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotebook/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotebook/internal/platform/config"
	"github.com/jsamuelsen/quotebook/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig wires handlers and middleware settings into the engine.
// Nil handlers leave their routes unregistered.
type RouterConfig struct {
	ServiceName string
	Auth        *config.AuthConfig
	Timeout     time.Duration

	Health *handlers.HealthHandler
	Quotes *handlers.QuoteHandler
	Posts  *handlers.PostsHandler
}

// SetupRouter installs the middleware chain and all routes.
//
// Middleware order: recovery, request id, correlation id, tracing,
// server metrics, request logging. /-/ routes skip the API timeout.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Tracing(cfg.ServiceName),
		telemetry.ServerMetrics(),
		middleware.Logging(),
	)

	if cfg.Health != nil {
		cfg.Health.RegisterHealthRoutes(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.Quotes != nil {
		cfg.Quotes.RegisterQuoteRoutes(apiV1, middleware.RequireWrite(cfg.Auth))
	}

	if cfg.Posts != nil {
		cfg.Posts.RegisterPostsRoutes(apiV1)
	}
}
