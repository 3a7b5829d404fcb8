package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists origins that are echoed back. "*" allows any
	// origin, as does Environment "development".
	AllowedOrigins []string

	// AllowedMethods defaults to GET, POST, PUT, DELETE, OPTIONS.
	AllowedMethods []string

	// AllowedHeaders defaults to Accept, Content-Type and the correlation and
	// session headers.
	AllowedHeaders []string

	// ExposedHeaders lists response headers readable by scripts.
	ExposedHeaders []string

	// MaxAge is the preflight cache lifetime in seconds; 0 means one hour.
	MaxAge int

	// AllowCredentials lets listed origins send the session cookie. It is
	// never granted to wildcard matches.
	AllowCredentials bool

	Environment string
}

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Accept", "Content-Type", CorrelationHeader, SessionHeader}
)

type corsPolicy struct {
	origins     map[string]struct{}
	any         bool
	credentials bool
	headers     map[string]string
}

func newCORSPolicy(cfg CORSConfig) corsPolicy {
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	allowed := cfg.AllowedHeaders
	if len(allowed) == 0 {
		allowed = defaultCORSHeaders
	}
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 3600
	}

	p := corsPolicy{
		origins:     make(map[string]struct{}, len(cfg.AllowedOrigins)),
		any:         cfg.Environment == "development",
		credentials: cfg.AllowCredentials,
		headers: map[string]string{
			"Access-Control-Allow-Methods": strings.Join(methods, ", "),
			"Access-Control-Allow-Headers": strings.Join(allowed, ", "),
			"Access-Control-Max-Age":       strconv.Itoa(maxAge),
		},
	}
	if len(cfg.ExposedHeaders) > 0 {
		p.headers["Access-Control-Expose-Headers"] = strings.Join(cfg.ExposedHeaders, ", ")
	}
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			p.any = true
			continue
		}
		p.origins[o] = struct{}{}
	}
	return p
}

// apply writes the CORS headers for origin and reports whether the origin
// was accepted.
func (p corsPolicy) apply(h http.Header, origin string) bool {
	h.Add("Vary", "Origin")
	if _, listed := p.origins[origin]; listed && origin != "" {
		h.Set("Access-Control-Allow-Origin", origin)
		if p.credentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
	} else if p.any {
		h.Set("Access-Control-Allow-Origin", "*")
	} else {
		return false
	}
	for k, v := range p.headers {
		h.Set(k, v)
	}
	return true
}

// CORS returns middleware that answers preflight requests with 204 and
// decorates other responses with the configured CORS headers.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	policy := newCORSPolicy(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy.apply(w.Header(), r.Header.Get("Origin"))

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
