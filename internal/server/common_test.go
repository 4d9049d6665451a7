package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{"remote addr with port", "192.168.1.10:5000", "", "", "192.168.1.10"},
		{"forwarded single", "10.0.0.1:80", "203.0.113.5", "", "203.0.113.5"},
		{"forwarded chain takes leftmost", "10.0.0.1:80", "203.0.113.5, 70.41.3.18, 150.172.238.178", "", "203.0.113.5"},
		{"invalid forwarded falls back to real ip", "10.0.0.1:80", "not-an-ip", "198.51.100.7", "198.51.100.7"},
		{"invalid headers fall back to remote", "10.0.0.1:80", "bogus", "also-bogus", "10.0.0.1"},
		{"ipv6 remote", "[2001:db8::1]:443", "", "", "2001:db8::1"},
		{"garbage remote", "garbage", "", "", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSecurityHeadersWithCSP(t *testing.T) {
	handler := SecurityHeadersWithCSP(APICSPConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("X-Content-Type-Options missing")
	}
	csp := rec.Header().Get("Content-Security-Policy")
	if csp == "" {
		t.Fatal("Content-Security-Policy missing")
	}
	if want := "default-src 'none'"; csp[:len(want)] != want {
		t.Errorf("CSP = %q, want prefix %q", csp, want)
	}
}
