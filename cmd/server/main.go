package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keremustuner/Case-Study/internal/app"
	"github.com/keremustuner/Case-Study/internal/config"
	pkgconfig "github.com/keremustuner/Case-Study/pkg/config"
	"github.com/keremustuner/Case-Study/pkg/logger"
	"github.com/keremustuner/Case-Study/pkg/tracing"
)

func main() {
	// Pick up a local .env before reading the environment.
	loaded, err := pkgconfig.LoadDotenv()
	if err != nil {
		slog.Error("failed to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("storefront", cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("starting storefront",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
		slog.String("session_store", cfg.SessionStore),
		slog.Any("dotenv", loaded),
	)

	// Create a context that is cancelled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracingCfg := tracing.DefaultConfig("storefront")
	tracingCfg.Environment = cfg.Environment
	tracingCfg.Enabled = cfg.OTELEnabled
	tracingCfg.OTLPEndpoint = cfg.OTELEndpoint
	tracingCfg.SampleRate = cfg.OTELSampleRate
	shutdownTracer, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracer(flushCtx); err != nil {
			log.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}()

	application, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Run the application. This blocks until shutdown.
	if err := application.Run(ctx); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}

	log.Info("storefront stopped")
}
