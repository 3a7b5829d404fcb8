package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/keremustuner/Case-Study/pkg/httputil"
	"github.com/keremustuner/Case-Study/pkg/logger"
)

// RateLimitConfig configures RateLimit. A non-positive RPS disables it.
type RateLimitConfig struct {
	RPS   float64
	Burst int
	// IdleTTL evicts limiters not used for this long; 0 means ten minutes.
	IdleTTL time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet holds one token bucket per client key. Idle buckets are evicted
// lazily, at most once per ttl, on the request path.
type limiterSet struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newLimiterSet(cfg RateLimitConfig) *limiterSet {
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &limiterSet{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(cfg.RPS),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.ttl {
		for k, b := range s.buckets {
			if now.Sub(b.lastSeen) >= s.ttl {
				delete(s.buckets, k)
			}
		}
		s.lastSweep = now
	}

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (s *limiterSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// addrFactor scales the per-address bucket over the per-session one, so the
// sessions of one NATed network share a larger allowance.
const addrFactor = 10

// RateLimit throttles a route per client address and, for callers presenting
// an existing session, per view session as well. IDs minted on this request
// get no session bucket, so rotating or dropping the ID only leaves the
// address limit. Rejected requests get 429 and the standard error envelope.
func RateLimit(cfg RateLimitConfig, l *slog.Logger) func(http.Handler) http.Handler {
	if cfg.RPS <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	sessions := newLimiterSet(cfg)
	addrs := newLimiterSet(RateLimitConfig{
		RPS:     cfg.RPS * addrFactor,
		Burst:   max(cfg.Burst, 1) * addrFactor,
		IdleTTL: cfg.IdleTTL,
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			addr := clientAddr(r)
			allowed := addrs.allow(addr)
			if sid := SessionIDFromContext(ctx); allowed && sid != "" && !IsNewSession(ctx) {
				allowed = sessions.allow(sid)
			}
			if !allowed {
				l.WarnContext(ctx, "rate limit exceeded",
					slog.String("client", addr),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", "1")
				httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:      "RATE_LIMITED",
						Message:   "too many requests",
						RequestID: logger.CorrelationIDFromContext(ctx),
					},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	if addr, ok := remoteAddr(r.RemoteAddr); ok {
		return addr.Unmap().String()
	}
	return r.RemoteAddr
}
