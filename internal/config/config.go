package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgconfig "github.com/keremustuner/Case-Study/pkg/config"
)

// Session store backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort     int           `env:"STOREFRONT_HTTP_PORT" envDefault:"3000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`

	// Catalog API
	CatalogAPIURL       string        `env:"CATALOG_API_URL" envDefault:"http://127.0.0.1:5000"`
	CatalogProductsPath string        `env:"CATALOG_PRODUCTS_PATH" envDefault:"/api/products"`
	CatalogTimeout      time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`
	CatalogMaxRetries   int           `env:"CATALOG_MAX_RETRIES" envDefault:"0"`

	// Initial selectedColor: "yellow" or "preferred".
	DefaultColorPolicy string `env:"DEFAULT_COLOR_POLICY" envDefault:"yellow"`

	// View sessions
	SessionStore      string        `env:"SESSION_STORE" envDefault:"memory"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"storefront_session"`
	SessionSweepEvery time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	// Redis (SESSION_STORE=redis)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Reload throttling per session; RPS 0 disables it.
	ReloadRateLimitRPS   float64 `env:"RELOAD_RATE_LIMIT_RPS" envDefault:"1"`
	ReloadRateLimitBurst int     `env:"RELOAD_RATE_LIMIT_BURST" envDefault:"5"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	PprofAllowedCIDRs   []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`
	MetricsAllowedCIDRs []string `env:"METRICS_ALLOWED_CIDRS" envDefault:"0.0.0.0/0,::/0" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CatalogProductsURL joins the catalog base URL and the products path.
func (c *Config) CatalogProductsURL() string {
	return strings.TrimRight(c.CatalogAPIURL, "/") + "/" + strings.TrimLeft(c.CatalogProductsPath, "/")
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	u, err := url.Parse(c.CatalogAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid CATALOG_API_URL: %q", c.CatalogAPIURL)
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT must be positive, got %s", c.CatalogTimeout)
	}
	if c.CatalogMaxRetries < 0 {
		return fmt.Errorf("CATALOG_MAX_RETRIES must not be negative, got %d", c.CatalogMaxRetries)
	}
	switch c.DefaultColorPolicy {
	case "yellow", "preferred":
	default:
		return fmt.Errorf("invalid DEFAULT_COLOR_POLICY: %q (want yellow or preferred)", c.DefaultColorPolicy)
	}
	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("invalid SESSION_STORE: %q (want memory or redis)", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.SessionSweepEvery <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", c.SessionSweepEvery)
	}
	if c.ReloadRateLimitRPS < 0 {
		return fmt.Errorf("RELOAD_RATE_LIMIT_RPS must not be negative, got %v", c.ReloadRateLimitRPS)
	}
	if c.ReloadRateLimitRPS > 0 && c.ReloadRateLimitBurst < 1 {
		return fmt.Errorf("RELOAD_RATE_LIMIT_BURST must be at least 1, got %d", c.ReloadRateLimitBurst)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be within [0,1], got %v", c.OTELSampleRate)
	}
	return nil
}
