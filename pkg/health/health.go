package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/keremustuner/Case-Study/pkg/httputil"
)

// Checker probes one dependency.
type Checker func(ctx context.Context) error

// Status is the health of a component or of the whole service.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Response is the body of both health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Status     Status  `json:"status"`
	Critical   bool    `json:"critical"`
	DurationMS float64 `json:"duration_ms"`
	Error      string  `json:"error,omitempty"`
}

type check struct {
	fn       Checker
	critical bool
}

// Handler serves liveness and readiness.
//
// A failing critical check makes the service unready (503). A failing
// non-critical check only degrades it; readiness still answers 200.
type Handler struct {
	mu      sync.RWMutex
	checks  map[string]check
	timeout time.Duration
	now     func() time.Time
}

// NewHandler returns a Handler whose probes share a 5s deadline.
func NewHandler() *Handler {
	return &Handler{
		checks:  make(map[string]check),
		timeout: 5 * time.Second,
		now:     time.Now,
	}
}

// RegisterCritical adds a checker whose failure marks the service down.
// Registering a name twice replaces the previous checker.
func (h *Handler) RegisterCritical(name string, checker Checker) {
	h.register(name, checker, true)
}

// RegisterNonCritical adds a checker whose failure marks the service degraded.
func (h *Handler) RegisterNonCritical(name string, checker Checker) {
	h.register(name, checker, false)
}

func (h *Handler) register(name string, checker Checker, critical bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check{fn: checker, critical: critical}
}

// LivenessHandler answers 200 while the process is serving.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, Response{Status: StatusUp, Timestamp: h.now().UTC()})
	}
}

// ReadinessHandler runs every registered check concurrently and reports the
// aggregate status.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := h.run(r.Context())

		code := http.StatusOK
		overall := aggregate(results)
		if overall == StatusDown {
			code = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, code, Response{
			Status:    overall,
			Timestamp: h.now().UTC(),
			Checks:    results,
		})
	}
}

func (h *Handler) run(ctx context.Context) map[string]CheckResult {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	h.mu.RLock()
	checks := make(map[string]check, len(h.checks))
	for k, v := range h.checks {
		checks[k] = v
	}
	h.mu.RUnlock()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]CheckResult, len(checks))
	)
	for name, c := range checks {
		g.Go(func() error {
			start := h.now()
			res := CheckResult{Status: StatusUp, Critical: c.critical}
			if err := c.fn(ctx); err != nil {
				res.Status = StatusDown
				res.Error = err.Error()
			}
			res.DurationMS = float64(h.now().Sub(start).Microseconds()) / 1000

			mu.Lock()
			results[name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func aggregate(results map[string]CheckResult) Status {
	overall := StatusUp
	for _, res := range results {
		if res.Status != StatusDown {
			continue
		}
		if res.Critical {
			return StatusDown
		}
		overall = StatusDegraded
	}
	return overall
}
