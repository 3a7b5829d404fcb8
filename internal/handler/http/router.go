package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keremustuner/Case-Study/internal/config"
	"github.com/keremustuner/Case-Study/internal/domain"
	"github.com/keremustuner/Case-Study/internal/service"
	"github.com/keremustuner/Case-Study/internal/view"
	"github.com/keremustuner/Case-Study/pkg/health"
	"github.com/keremustuner/Case-Study/pkg/middleware"
)

const serviceName = "storefront"

// carouselMaxAge is the client cache lifetime of the carousel settings.
const carouselMaxAge = 300

// NewRouter creates a chi router with the storefront pages, the JSON view API
// and the operational endpoints.
func NewRouter(
	cfg *config.Config,
	svc *service.StorefrontService,
	renderer *view.Renderer,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5, "text/html", "application/json"))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		ExposedHeaders:   []string{middleware.CorrelationHeader, middleware.SessionHeader},
		AllowCredentials: true,
		Environment:      cfg.Environment,
	}))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	r.With(middleware.IPAllowlist(cfg.MetricsAllowedCIDRs, logger)).
		Handle("/metrics", promhttp.Handler())

	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	settings := domain.DefaultCarouselSettings()
	pages := NewPageHandler(svc, renderer, settings, logger)
	api := NewAPIHandler(svc, settings, logger)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(middleware.SessionConfig{
			CookieName: cfg.SessionCookieName,
			TTL:        cfg.SessionTTL,
			Secure:     cfg.Environment == "production",
		}))
		r.Use(middleware.RequestLogger(logger))
		r.Use(middleware.NoStore())

		throttle := middleware.RateLimit(middleware.RateLimitConfig{
			RPS:   cfg.ReloadRateLimitRPS,
			Burst: cfg.ReloadRateLimitBurst,
		}, logger)

		r.Get("/", pages.Index)
		r.Post("/products/{key}/color", pages.SelectColor)
		r.With(throttle).Post("/reload", pages.Reload)

		r.Route("/api/v1/view", func(r chi.Router) {
			r.Get("/", api.View)
			r.Delete("/", api.Unmount)
			r.With(throttle).Post("/reload", api.Reload)
			r.With(ContentTypeJSON).Put("/products/{key}/color", api.SelectColor)
		})
	})

	r.With(middleware.CacheControl(carouselMaxAge)).Get("/api/v1/carousel", api.Carousel)

	return r
}
