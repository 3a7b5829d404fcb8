package middleware

import (
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/keremustuner/Case-Study/pkg/httputil"
	"github.com/keremustuner/Case-Study/pkg/logger"
)

// IPAllowlist restricts a route to clients whose address falls within one of
// cidrs. Malformed entries are logged and skipped; an empty list denies all.
func IPAllowlist(cidrs []string, l *slog.Logger) func(http.Handler) http.Handler {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, cidr := range cidrs {
		p, err := netip.ParsePrefix(cidr)
		if err != nil {
			l.Warn("invalid allowlist CIDR, skipping",
				slog.String("cidr", cidr),
				slog.String("error", err.Error()),
			)
			continue
		}
		prefixes = append(prefixes, p.Masked())
	}

	allowed := func(addr netip.Addr) bool {
		addr = addr.Unmap()
		for _, p := range prefixes {
			if p.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr, ok := remoteAddr(r.RemoteAddr)
			if !ok || !allowed(addr) {
				l.Warn("access denied by IP allowlist",
					slog.String("ip", r.RemoteAddr),
					slog.String("path", r.URL.Path),
				)
				httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:      "FORBIDDEN",
						Message:   "access restricted by IP allowlist",
						RequestID: logger.CorrelationIDFromContext(r.Context()),
					},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// remoteAddr parses "host:port" or a bare host.
func remoteAddr(s string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap.Addr(), true
	}
	addr, err := netip.ParseAddr(s)
	return addr, err == nil
}
