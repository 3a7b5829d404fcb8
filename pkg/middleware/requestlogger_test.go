package middleware

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/keremustuner/Case-Study/pkg/logger"
)

const testSessionID = "0b6c2f0e-7d8e-4c43-9a55-3f1e1b0a9e21"

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	return lines
}

func sampledContext() context.Context {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestRequestLogger_ContextFields(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		want    map[string]string
		missing []string
	}{
		{
			name:    "correlation id",
			ctx:     logger.WithCorrelationID(context.Background(), "corr-test-123"),
			want:    map[string]string{"correlation_id": "corr-test-123"},
			missing: []string{"session_id", "trace_id"},
		},
		{
			name: "session id",
			ctx:  logger.WithSessionID(context.Background(), testSessionID),
			want: map[string]string{"session_id": testSessionID},
		},
		{
			name: "trace and span",
			ctx:  sampledContext(),
			want: map[string]string{"trace_id": "4bf92f3577b34da6a3ce929d0e0e4736", "span_id": "00f067aa0ba902b7"},
		},
		{
			name:    "bare request",
			ctx:     context.Background(),
			want:    map[string]string{"service": "storefront"},
			missing: []string{"correlation_id", "session_id", "trace_id", "span_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := RequestLogger(logger.NewWithWriter("storefront", "info", &buf))(
				http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
					logger.FromContext(r.Context()).Info("rendering page")
				}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tt.ctx))

			lines := logLines(t, &buf)
			require.Len(t, lines, 1)
			for k, v := range tt.want {
				assert.Equal(t, v, lines[0][k], k)
			}
			for _, k := range tt.missing {
				assert.NotContains(t, lines[0], k)
			}
		})
	}
}

func TestRequestLogger_AfterSessionMiddleware(t *testing.T) {
	var buf bytes.Buffer
	inner := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("mounted")
	})
	h := Session(SessionConfig{CookieName: "sid"})(RequestLogger(logger.NewWithWriter("storefront", "info", &buf))(inner))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, rec.Header().Get(SessionHeader), lines[0]["session_id"])
}

func TestRequestLogging_AccessLine(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogging(logger.NewWithWriter("storefront", "info", &buf))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "corr-abc", logger.CorrelationIDFromContext(r.Context()))
			w.WriteHeader(http.StatusSeeOther)
			_, _ = w.Write([]byte("see /"))
		}))

	req := httptest.NewRequest(http.MethodPost, "/products/engagement-ring-1/color", nil)
	req.Header.Set(CorrelationHeader, "corr-abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "corr-abc", rec.Header().Get(CorrelationHeader))
	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, "http request", line["msg"])
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "POST", line["method"])
	assert.Equal(t, "/products/engagement-ring-1/color", line["path"])
	assert.EqualValues(t, http.StatusSeeOther, line["status"])
	assert.EqualValues(t, len("see /"), line["bytes"])
	assert.Equal(t, "corr-abc", line["correlation_id"])
}

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogging(logger.NewWithWriter("storefront", "info", &buf))(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rec.Header().Get(CorrelationHeader)
	assert.Len(t, id, 36)
	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, id, lines[0]["correlation_id"])
	assert.EqualValues(t, http.StatusNotFound, lines[0]["status"])
}

func TestRequestLogging_ProbesAtDebug(t *testing.T) {
	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		var buf bytes.Buffer
		h := RequestLogging(slog.New(slog.NewJSONHandler(&buf, nil)))(http.NotFoundHandler())
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		assert.Empty(t, buf.String(), path)
	}
}
