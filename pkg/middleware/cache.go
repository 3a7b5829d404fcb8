package middleware

import (
	"fmt"
	"net/http"
)

// CacheControl sets a public max-age Cache-Control header on GET responses.
func CacheControl(maxAge int) func(http.Handler) http.Handler {
	return cacheHeader(fmt.Sprintf("public, max-age=%d", maxAge))
}

// NoStore marks responses as uncacheable. Pages that render per-session state
// must never be served from a shared cache.
func NoStore() func(http.Handler) http.Handler {
	return cacheHeader("no-store")
}

func cacheHeader(value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				w.Header().Set("Cache-Control", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
