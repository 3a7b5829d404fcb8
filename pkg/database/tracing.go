package database

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/keremustuner/Case-Study/pkg/database"

// CommandHook is a go-redis hook that wraps every command and pipeline in a
// client span and logs commands slower than a threshold.
type CommandHook struct {
	threshold time.Duration
	logger    *slog.Logger
	tracer    trace.Tracer
}

var _ redis.Hook = (*CommandHook)(nil)

// NewCommandHook creates a CommandHook. A zero threshold or nil logger
// disables slow-command logging.
func NewCommandHook(threshold time.Duration, logger *slog.Logger) *CommandHook {
	return &CommandHook{
		threshold: threshold,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
}

func (h *CommandHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *CommandHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		end := h.start(ctx, cmd.Name(), 1)
		err := next(ctx, cmd)
		end(ctx, err)
		return err
	}
}

func (h *CommandHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		end := h.start(ctx, "pipeline", len(cmds))
		err := next(ctx, cmds)
		end(ctx, err)
		return err
	}
}

func (h *CommandHook) start(ctx context.Context, operation string, size int) func(context.Context, error) {
	begin := time.Now()
	_, span := h.tracer.Start(ctx, "redis."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.Int("db.redis.num_cmd", size),
		),
	)

	return func(ctx context.Context, err error) {
		// A missing key is a normal outcome, not a failure.
		if err != nil && !errors.Is(err, redis.Nil) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if h.threshold <= 0 || h.logger == nil {
			return
		}
		if elapsed := time.Since(begin); elapsed >= h.threshold {
			attrs := []any{
				slog.String("operation", operation),
				slog.Duration("duration", elapsed),
			}
			if err != nil && !errors.Is(err, redis.Nil) {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			h.logger.WarnContext(ctx, "slow redis command", attrs...)
		}
	}
}
