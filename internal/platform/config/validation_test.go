package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "quotebook",
			Version:     "1.0.0",
			Environment: "test",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  DefaultMaxRequestSize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 3,
			},
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Storage: StorageConfig{
			Backend: StorageSQLite,
			Path:    "/var/lib/quotebook/quotes.db",
		},
		Posts: PostsConfig{
			Enabled:  true,
			BaseURL:  DefaultPostsBaseURL,
			Interval: DefaultPostsInterval,
			Timeout:  5 * time.Second,
		},
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"baseline", func(*Config) {}},
		{"trace level", func(c *Config) { c.Log.Level = "trace" }},
		{"pretty format", func(c *Config) { c.Log.Format = "pretty" }},
		{"memory backend needs no path", func(c *Config) {
			c.Storage.Backend = StorageMemory
			c.Storage.Path = ""
		}},
		{"file backend", func(c *Config) {
			c.Storage.Backend = StorageFile
			c.Storage.Path = "./data"
		}},
		{"posts disabled needs no url", func(c *Config) {
			c.Posts = PostsConfig{Enabled: false}
		}},
		{"log file with path", func(c *Config) {
			c.Log.File = LogFileConfig{Enabled: true, Path: "/var/log/quotebook.log", MaxSizeMB: 10}
		}},
		{"telemetry with endpoint", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "http://collector:4317", ServiceName: "quotebook"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestConfig_Validate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"missing app name", func(c *Config) { c.App.Name = "" }, "app.name is required"},
		{"unknown environment", func(c *Config) { c.App.Environment = "staging" }, "app.environment must be one of"},
		{"port too high", func(c *Config) { c.Server.Port = 65536 }, "server.port must be at most 65535"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port is required"},
		{"uppercase level", func(c *Config) { c.Log.Level = "DEBUG" }, "log.level must be one of"},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, "log.format must be one of"},
		{"log file without path", func(c *Config) {
			c.Log.File = LogFileConfig{Enabled: true}
		}, "log.file.path is required when log.file.enabled is true"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend must be one of"},
		{"sqlite without path", func(c *Config) { c.Storage.Path = "" }, "storage.path is required unless storage.backend is memory"},
		{"posts without url", func(c *Config) { c.Posts.BaseURL = "" }, "posts.base_url is required when posts.enabled is true"},
		{"posts with bad url", func(c *Config) { c.Posts.BaseURL = "not a url" }, "posts.base_url must be a valid URL"},
		{"posts interval too short", func(c *Config) { c.Posts.Interval = 10 * time.Millisecond }, "posts.interval must be at least"},
		{"breaker without failures", func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 }, "client.circuit_breaker.max_failures is required"},
		{"telemetry without endpoint", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "quotebook"}
		}, "telemetry.endpoint is required when telemetry.enabled is true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestConfig_Validate_ReportsEveryField(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	cfg.Storage.Backend = "redis"
	cfg.Posts.BaseURL = ""

	err := cfg.Validate()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "app.name")
	assert.Contains(t, err.Error(), "storage.backend")
	assert.Contains(t, err.Error(), "posts.base_url")
}

func TestKeyOf(t *testing.T) {
	tests := map[string]string{
		"Config.server.port":                    "server.port",
		"Config.client.circuit_breaker.timeout": "client.circuit_breaker.timeout",
		"port":                                  "port",
	}

	for namespace, want := range tests {
		t.Run(namespace, func(t *testing.T) {
			assert.Equal(t, want, keyOf(namespace))
		})
	}
}

func TestCondition(t *testing.T) {
	assert.Equal(t, "posts.enabled is true", condition("posts.base_url", "Enabled true"))
	assert.Equal(t, "backend is memory", condition("path", "Backend memory"))
}
