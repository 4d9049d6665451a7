package api

import "github.com/ekurt/qurancorpus/core/ratelimit"

// Config holds server configuration.
type Config struct {
	Port           int
	RateLimit      ratelimit.Config
	AllowedOrigins []string  // CORS allowed origins (empty = allow all)
	TLS            TLSConfig // TLS configuration
}

// TLSConfig holds TLS/HTTPS configuration.
type TLSConfig struct {
	Enabled  bool   // Enable HTTPS
	CertFile string // Path to TLS certificate file
	KeyFile  string // Path to TLS private key file
}
