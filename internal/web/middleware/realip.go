package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// ProxyList is the set of networks whose forwarding headers are believed.
type ProxyList []*net.IPNet

// ParseProxies reads CIDRs or bare addresses ("10.0.0.0/8", "127.0.0.1").
// Invalid entries are logged and skipped.
func ParseProxies(entries []string) ProxyList {
	var proxies ProxyList
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if _, network, err := net.ParseCIDR(entry); err == nil {
			proxies = append(proxies, network)
			continue
		}

		ip := net.ParseIP(entry)
		if ip == nil {
			slog.Warn("realip: ignoring invalid trusted proxy", "entry", entry)
			continue
		}
		bits := 128
		if ip.To4() != nil {
			ip, bits = ip.To4(), 32
		}
		proxies = append(proxies, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return proxies
}

// Trusts reports whether ip falls inside one of the proxy networks.
func (p ProxyList) Trusts(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, network := range p {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// TrustedRealIP replaces RemoteAddr with the address named by X-Real-IP, or
// the first X-Forwarded-For entry, when the connection comes from a trusted
// proxy. Requests from anywhere else keep their socket address, so clients
// cannot choose the IP the import rate limiter and request log see.
func TrustedRealIP(trustedCIDRs []string) func(http.Handler) http.Handler {
	proxies := ParseProxies(trustedCIDRs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if proxies.Trusts(net.ParseIP(ClientIP(r))) {
				if ip := forwardedIP(r.Header); ip != nil {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// forwardedIP returns the client named by the proxy headers, or nil when
// neither header holds a valid address.
func forwardedIP(h http.Header) net.IP {
	if rip := strings.TrimSpace(h.Get("X-Real-IP")); rip != "" {
		return net.ParseIP(rip)
	}
	xff := h.Get("X-Forwarded-For")
	if xff == "" {
		return nil
	}
	first, _, _ := strings.Cut(xff, ",")
	return net.ParseIP(strings.TrimSpace(first))
}

// ClientIP returns the address part of r.RemoteAddr. After TrustedRealIP has
// run this is the real client behind any trusted proxy.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
