package middleware

import (
	"log/slog"
	"net/http"

	"github.com/keremustuner/Case-Study/pkg/logger"
)

// RequestLogger builds a request-scoped logger carrying correlation_id,
// session_id, trace_id and span_id, and stores it in the context for
// logger.FromContext.
//
// Mount it after RequestLogging, Tracing and Session so those fields exist.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
