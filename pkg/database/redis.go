package database

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ConnectAttempts bounds the startup ping retries. Zero means one attempt.
	ConnectAttempts int
	// RetryBaseWait is the first backoff; later waits double, with ±25% jitter.
	RetryBaseWait time.Duration
	// SlowCommandThreshold enables warn logs for commands at least this slow.
	SlowCommandThreshold time.Duration
}

// DefaultRedisConfig returns sensible defaults for a local Redis.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:                 "localhost:6379",
		DialTimeout:          5 * time.Second,
		ReadTimeout:          3 * time.Second,
		WriteTimeout:         3 * time.Second,
		ConnectAttempts:      3,
		RetryBaseWait:        time.Second,
		SlowCommandThreshold: 100 * time.Millisecond,
	}
}

const retryJitterFraction = 0.25

// retryBackoff returns the wait before the next attempt (0-indexed) with
// ±25% jitter around base<<attempt.
func retryBackoff(base time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	wait := base << attempt
	jitter := time.Duration(float64(wait) * retryJitterFraction * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter
	return wait + jitter
}

// NewRedisClient creates a Redis client with tracing and slow-command logging
// hooks and verifies the connection, retrying the ping with backoff.
func NewRedisClient(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	client.AddHook(NewCommandHook(cfg.SlowCommandThreshold, logger))

	attempts := max(cfg.ConnectAttempts, 1)
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		if attempt == attempts-1 {
			break
		}
		wait := retryBackoff(cfg.RetryBaseWait, attempt)
		if logger != nil {
			logger.Warn("redis ping failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", attempts),
				slog.Duration("backoff", wait),
				slog.String("error", lastErr.Error()),
			)
		}
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: context canceled during retry: %w", ctx.Err())
		case <-time.After(wait):
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("ping redis after %d attempts: %w", attempts, lastErr)
}

// RedisChecker returns a readiness check that pings the client.
func RedisChecker(client redis.UniversalClient) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
