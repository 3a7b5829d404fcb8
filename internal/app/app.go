package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/keremustuner/Case-Study/internal/catalog"
	"github.com/keremustuner/Case-Study/internal/config"
	"github.com/keremustuner/Case-Study/internal/domain"
	handler "github.com/keremustuner/Case-Study/internal/handler/http"
	"github.com/keremustuner/Case-Study/internal/service"
	"github.com/keremustuner/Case-Study/internal/session"
	"github.com/keremustuner/Case-Study/internal/session/memory"
	sessionredis "github.com/keremustuner/Case-Study/internal/session/redis"
	"github.com/keremustuner/Case-Study/internal/view"
	"github.com/keremustuner/Case-Study/pkg/database"
	"github.com/keremustuner/Case-Study/pkg/health"
	"github.com/keremustuner/Case-Study/pkg/httpclient"
)

const (
	serviceName     = "storefront"
	shutdownTimeout = 10 * time.Second
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	service    *service.StorefrontService
	sweeper    session.Sweeper
	redis      *redis.Client
	httpServer *http.Server
}

// Option customizes NewApp.
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
}

// WithRegisterer registers the service collectors with reg instead of the
// default Prometheus registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	o := options{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&o)
	}

	policy, err := domain.ParseColorPolicy(cfg.DefaultColorPolicy)
	if err != nil {
		return nil, fmt.Errorf("init storefront: %w", err)
	}

	healthHandler := health.NewHandler()
	a := &App{cfg: cfg, logger: logger}

	// Initialize the session store based on configuration.
	var store session.Store
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPassword
		redisCfg.DB = cfg.RedisDB

		a.redis, err = database.NewRedisClient(ctx, redisCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("init redis session store: %w", err)
		}
		if err := database.RegisterPoolMetrics(o.registerer, a.redis, serviceName); err != nil {
			_ = a.redis.Close()
			return nil, fmt.Errorf("register redis pool metrics: %w", err)
		}
		healthHandler.RegisterCritical("redis", database.RedisChecker(a.redis))
		store = sessionredis.New(a.redis, cfg.SessionTTL)
		logger.Info("redis session store initialized", slog.String("addr", cfg.RedisAddr))
	default:
		mem := memory.New(cfg.SessionTTL)
		store = mem
		a.sweeper = mem
		logger.Info("in-memory session store initialized")
	}

	// Catalog client: one attempt per load unless retries are configured.
	httpClient := httpclient.New(httpclient.Config{
		Timeout:         cfg.CatalogTimeout,
		MaxRetries:      cfg.CatalogMaxRetries,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 32,
		UserAgent:       serviceName + "/1.0",
	})
	breaker := httpclient.NewCircuitBreakerClient(httpClient, httpclient.DefaultCircuitBreakerConfig("catalog"), logger)
	catalogClient := catalog.NewClient(breaker, cfg.CatalogProductsURL(), logger)
	healthHandler.RegisterNonCritical("catalog", catalogClient.Check)

	a.service = service.NewStorefrontService(store, catalogClient, policy, service.NewMetrics(o.registerer), logger)

	renderer, err := view.NewRenderer()
	if err != nil {
		_ = a.closeRedis()
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler.NewRouter(cfg, a.service, renderer, healthHandler, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("catalog client initialized",
		slog.String("url", catalogClient.URL()),
		slog.Duration("timeout", cfg.CatalogTimeout),
		slog.Int("max_retries", cfg.CatalogMaxRetries),
		slog.String("color_policy", string(policy)),
	)

	return a, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and the session sweeper, blocking until the
// context is canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.sweeper != nil {
		g.Go(func() error {
			a.sweep(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutdown signal received")
		return a.Shutdown()
	})

	return g.Wait()
}

// sweep evicts expired sessions until ctx ends.
func (a *App) sweep(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.SessionSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := a.sweeper.Sweep(ctx)
			if err != nil {
				a.logger.Warn("session sweep failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				a.logger.Debug("expired sessions evicted", slog.Int("count", removed))
			}
		}
	}
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Loads are cancelled only after in-flight requests have drained.
	if err := a.service.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("storefront service shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.closeRedis(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeRedis() error {
	if a.redis == nil {
		return nil
	}
	err := a.redis.Close()
	a.redis = nil
	return err
}
