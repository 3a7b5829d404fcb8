package middleware

import (
	"log/slog"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
)

// RegisterPprof mounts the runtime profiling endpoints under /debug/pprof,
// reachable only from allowedCIDRs.
func RegisterPprof(r chi.Router, allowedCIDRs []string, l *slog.Logger) {
	r.Route("/debug/pprof", func(r chi.Router) {
		r.Use(IPAllowlist(allowedCIDRs, l))
		r.HandleFunc("/cmdline", pprof.Cmdline)
		r.HandleFunc("/profile", pprof.Profile)
		r.HandleFunc("/symbol", pprof.Symbol)
		r.HandleFunc("/trace", pprof.Trace)
		r.HandleFunc("/*", pprof.Index)
	})
}
