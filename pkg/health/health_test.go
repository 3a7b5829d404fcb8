package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func up(context.Context) error { return nil }

func down(msg string) Checker {
	return func(context.Context) error { return errors.New(msg) }
}

func serve(t *testing.T, hf http.HandlerFunc, path string) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	hf.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestLiveness(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("redis", down("connection refused"))

	code, resp := serve(t, h.LivenessHandler(), "/health/live")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
	assert.Empty(t, resp.Checks, "liveness never runs dependency checks")
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name        string
		critical    map[string]Checker
		nonCritical map[string]Checker
		wantCode    int
		wantStatus  Status
		wantChecks  map[string]Status
	}{
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: StatusUp,
		},
		{
			name:        "memory store with healthy catalog",
			nonCritical: map[string]Checker{"catalog": up},
			wantCode:    http.StatusOK,
			wantStatus:  StatusUp,
			wantChecks:  map[string]Status{"catalog": StatusUp},
		},
		{
			name:        "catalog breaker open degrades",
			critical:    map[string]Checker{"redis": up},
			nonCritical: map[string]Checker{"catalog": down("catalog: circuit breaker is open")},
			wantCode:    http.StatusOK,
			wantStatus:  StatusDegraded,
			wantChecks:  map[string]Status{"redis": StatusUp, "catalog": StatusDown},
		},
		{
			name:        "redis down is unready",
			critical:    map[string]Checker{"redis": down("connection refused")},
			nonCritical: map[string]Checker{"catalog": up},
			wantCode:    http.StatusServiceUnavailable,
			wantStatus:  StatusDown,
			wantChecks:  map[string]Status{"redis": StatusDown, "catalog": StatusUp},
		},
		{
			name:        "critical outranks degraded",
			critical:    map[string]Checker{"redis": down("connection refused")},
			nonCritical: map[string]Checker{"catalog": down("catalog: circuit breaker is open")},
			wantCode:    http.StatusServiceUnavailable,
			wantStatus:  StatusDown,
			wantChecks:  map[string]Status{"redis": StatusDown, "catalog": StatusDown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler()
			for name, c := range tt.critical {
				h.RegisterCritical(name, c)
			}
			for name, c := range tt.nonCritical {
				h.RegisterNonCritical(name, c)
			}

			code, resp := serve(t, h.ReadinessHandler(), "/health/ready")

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			require.Len(t, resp.Checks, len(tt.wantChecks))
			for name, want := range tt.wantChecks {
				got := resp.Checks[name]
				assert.Equal(t, want, got.Status, name)
				_, critical := tt.critical[name]
				assert.Equal(t, critical, got.Critical, name)
				if want == StatusDown {
					assert.NotEmpty(t, got.Error, name)
				}
			}
		})
	}
}

func TestReadiness_ReRegisterReplaces(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("redis", down("connection refused"))
	h.RegisterNonCritical("redis", down("connection refused"))

	code, resp := serve(t, h.ReadinessHandler(), "/health/ready")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.False(t, resp.Checks["redis"].Critical)
}

func TestReadiness_ChecksShareDeadline(t *testing.T) {
	h := NewHandler()
	h.timeout = 20 * time.Millisecond
	h.RegisterCritical("redis", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	start := time.Now()
	code, resp := serve(t, h.ReadinessHandler(), "/health/ready")

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, context.DeadlineExceeded.Error(), resp.Checks["redis"].Error)
	assert.Positive(t, resp.Checks["redis"].DurationMS)
}
