package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIPResolver identifies the caller for per-client limits and replay
// scoping. With no trusted proxies only the socket peer counts. Otherwise the
// X-Forwarded-For entry appended by the outermost trusted proxy is used, since
// anything left of it came from the client.
type ClientIPResolver struct {
	trustedHops int
}

func NewClientIPResolver(trustedProxyHops int) ClientIPResolver {
	if trustedProxyHops < 0 {
		trustedProxyHops = 0
	}
	return ClientIPResolver{trustedHops: trustedProxyHops}
}

func (c ClientIPResolver) ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	peer := remoteHost(r.RemoteAddr)
	if c.trustedHops == 0 {
		return peer
	}

	hops := forwardedHops(r.Header.Values("X-Forwarded-For"))
	if len(hops) < c.trustedHops {
		return peer
	}
	return hops[len(hops)-c.trustedHops]
}

func forwardedHops(headers []string) []string {
	var hops []string
	for _, header := range headers {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				hops = append(hops, ip)
			}
		}
	}
	return hops
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(addr)
}
