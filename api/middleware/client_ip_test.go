package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIPResolver(t *testing.T) {
	tests := []struct {
		name      string
		hops      int
		remote    string
		forwarded []string
		want      string
	}{
		{"peer only", 0, "203.0.113.7:4000", nil, "203.0.113.7"},
		{"header ignored without trusted proxies", 0, "203.0.113.7:4000", []string{"1.1.1.1"}, "203.0.113.7"},
		{"one proxy takes last hop", 1, "10.0.0.1:80", []string{"6.6.6.6, 198.51.100.4"}, "198.51.100.4"},
		{"two proxies", 2, "10.0.0.1:80", []string{"6.6.6.6, 198.51.100.4, 10.0.0.9"}, "198.51.100.4"},
		{"repeated headers joined", 1, "10.0.0.1:80", []string{"6.6.6.6", "198.51.100.4"}, "198.51.100.4"},
		{"short chain falls back to peer", 2, "10.0.0.1:80", []string{"198.51.100.4"}, "10.0.0.1"},
		{"missing header falls back to peer", 1, "10.0.0.1:80", nil, "10.0.0.1"},
		{"remote without port", 0, "203.0.113.7", nil, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/messages", nil)
			req.RemoteAddr = tt.remote
			for _, v := range tt.forwarded {
				req.Header.Add("X-Forwarded-For", v)
			}
			if got := NewClientIPResolver(tt.hops).ClientIP(req); got != tt.want {
				t.Fatalf("expected %q got %q", tt.want, got)
			}
		})
	}
}

func TestNewClientIPResolverClampsNegativeHops(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "203.0.113.7:1"
	req.Header.Set("X-Forwarded-For", "1.1.1.1")
	if got := NewClientIPResolver(-3).ClientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected peer address, got %q", got)
	}
}
