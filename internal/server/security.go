package server

import (
	"net/http"
	"strings"
)

// CSPConfig holds Content-Security-Policy configuration.
type CSPConfig struct {
	DefaultSrc     []string
	FrameAncestors []string
	BaseURI        []string
	FormAction     []string
}

// APICSPConfig returns a strict CSP configuration for REST API endpoints.
// APIs don't load resources, so everything is denied.
func APICSPConfig() CSPConfig {
	return CSPConfig{
		DefaultSrc:     []string{"'none'"},
		FrameAncestors: []string{"'none'"},
		BaseURI:        []string{"'none'"},
		FormAction:     []string{"'none'"},
	}
}

// BuildCSPHeader builds a Content-Security-Policy header value from config.
func (cfg CSPConfig) BuildCSPHeader() string {
	var directives []string

	if len(cfg.DefaultSrc) > 0 {
		directives = append(directives, "default-src "+strings.Join(cfg.DefaultSrc, " "))
	}
	if len(cfg.FrameAncestors) > 0 {
		directives = append(directives, "frame-ancestors "+strings.Join(cfg.FrameAncestors, " "))
	}
	if len(cfg.BaseURI) > 0 {
		directives = append(directives, "base-uri "+strings.Join(cfg.BaseURI, " "))
	}
	if len(cfg.FormAction) > 0 {
		directives = append(directives, "form-action "+strings.Join(cfg.FormAction, " "))
	}

	return strings.Join(directives, "; ")
}

// SecurityHeadersWithCSP adds standard security headers plus the given CSP.
func SecurityHeadersWithCSP(cfg CSPConfig, next http.Handler) http.Handler {
	cspHeader := cfg.BuildCSPHeader()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if cspHeader != "" {
			w.Header().Set("Content-Security-Policy", cspHeader)
		}

		next.ServeHTTP(w, r)
	})
}
