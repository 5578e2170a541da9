package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebook/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebook/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotebook/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotebook/internal/adapters/storage"
	"github.com/jsamuelsen/quotebook/internal/app"
	"github.com/jsamuelsen/quotebook/internal/platform/config"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxRequestSize:  1 << 10,
	}
}

func newTestRouter(t *testing.T, auth *config.AuthConfig) *gin.Engine {
	t.Helper()

	svc := app.NewQuoteService(app.QuoteServiceConfig{Store: storage.NewMemory(), Logger: discardLogger()})
	registry := ports.NewHealthRegistry()

	srv := New(testServerConfig(), discardLogger())
	SetupRouter(srv.Engine(), RouterConfig{
		ServiceName: "quotebook-test",
		Auth:        auth,
		Timeout:     DefaultRequestTimeout,
		Health:      handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now"), nil),
		Quotes:      handlers.NewQuoteHandler(svc),
	})

	return srv.Engine()
}

func TestSetupRouter_Routes(t *testing.T) {
	engine := newTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/-/live", "", http.StatusOK},
		{http.MethodGet, "/-/ready", "", http.StatusOK},
		{http.MethodGet, "/-/build", "", http.StatusOK},
		{http.MethodGet, "/-/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/v1/quotes", "", http.StatusOK},
		{http.MethodGet, "/api/v1/quotes/random", "", http.StatusOK},
		{http.MethodGet, "/api/v1/quotes/export", "", http.StatusOK},
		{http.MethodGet, "/api/v1/categories", "", http.StatusOK},
		{http.MethodPost, "/api/v1/quotes", `{"text":"a","category":"b"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/quotes/import", `[]`, http.StatusOK},
		{http.MethodGet, "/api/v1/posts", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
		})
	}
}

func TestSetupRouter_AuthOnWrites(t *testing.T) {
	engine := newTestRouter(t, &config.AuthConfig{Enabled: true, WriteScope: "quotes:write"})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(`{"text":"a","category":"b"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(`{"text":"a","category":"b"}`))
	req.Header.Set("X-User-ID", "editor-7")
	req.Header.Set("X-User-Scopes", "quotes:write")

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/random", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code, "reads stay open")
}

func TestSetupRouter_RecoversPanics(t *testing.T) {
	engine := newTestRouter(t, nil)
	engine.GET("/api/v1/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/boom", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
}

func TestMaxBodySize(t *testing.T) {
	engine := newTestRouter(t, nil)

	big := `[{"text":"` + strings.Repeat("x", 2<<10) + `","category":"c"}]`

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/quotes/import", strings.NewReader(big)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "request body too large")
}

func TestServer_RunAndShutdown(t *testing.T) {
	srv := New(testServerConfig(), discardLogger())
	srv.Engine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	assert.Equal(t, "127.0.0.1:0", srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case <-srv.Ready():
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	require.NotEqual(t, "127.0.0.1:0", srv.Addr())

	resp, err := http.Get("http://" + srv.Addr() + "/ping") //nolint:noctx // test request
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	assert.Equal(t, "pong", string(body))

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_ListenError(t *testing.T) {
	cfg := testServerConfig()
	cfg.Host = "256.0.0.1"

	err := New(cfg, discardLogger()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}
