// Package api provides the Quran corpus REST API server.
package api

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/rs/cors"

	"github.com/ekurt/qurancorpus/core/engine"
	"github.com/ekurt/qurancorpus/internal/logging"
	"github.com/ekurt/qurancorpus/internal/server"
)

// Version is the API version reported by health and info endpoints.
const Version = "2.0.0"

// Server serves the REST API over one query engine.
type Server struct {
	engine *engine.Engine
	cfg    Config
}

// NewServer wires an engine into an API server.
func NewServer(eng *engine.Engine, cfg Config) *Server {
	return &Server{engine: eng, cfg: cfg}
}

// Start runs the server until the listener fails.
func (s *Server) Start() error {
	// Validate TLS configuration if enabled
	if s.cfg.TLS.Enabled {
		if s.cfg.TLS.CertFile == "" || s.cfg.TLS.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert or key file not specified")
		}
		if _, err := os.Stat(s.cfg.TLS.CertFile); err != nil {
			return fmt.Errorf("TLS cert file not found: %w", err)
		}
		if _, err := os.Stat(s.cfg.TLS.KeyFile); err != nil {
			return fmt.Errorf("TLS key file not found: %w", err)
		}
	}

	handler := s.Handler()

	protocol := "http"
	if s.cfg.TLS.Enabled {
		protocol = "https"
		logging.Info("TLS enabled", "cert_file", server.AbsPath(s.cfg.TLS.CertFile))
	} else {
		logging.Warn("TLS disabled - using plain HTTP",
			"recommendation", "consider using TLS or reverse proxy for production")
	}
	logging.ServerStartup("rest_api", protocol, s.cfg.Port,
		"rate_limit_enabled", s.cfg.RateLimit.Enabled)

	if limiter := s.engine.Limiter(); limiter.Enabled() {
		limiter.StartSweeper()
		defer limiter.Stop()
	}

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	if s.cfg.TLS.Enabled {
		return http.ListenAndServeTLS(addr, s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile, handler)
	}
	return http.ListenAndServe(addr, handler)
}

// Handler builds the full middleware chain around the route mux.
func (s *Server) Handler() http.Handler {
	mux := s.setupRoutes()

	cspConfig := server.APICSPConfig()
	var handler http.Handler = server.SecurityHeadersWithCSP(cspConfig, mux)

	if s.cfg.RateLimit.Enabled {
		handler = s.rateLimitMiddleware(handler)
		logging.Info("rate limiting enabled",
			"max_requests", s.cfg.RateLimit.MaxRequests,
			"window", s.cfg.RateLimit.Window.String())
	} else {
		logging.SecurityEvent("rate_limit_configured", "api",
			"enabled", false,
			"note", "all requests allowed")
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	})
	handler = corsHandler.Handler(handler)
	if len(s.cfg.AllowedOrigins) > 0 {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "restricted",
			"allowed_origins_count", len(s.cfg.AllowedOrigins))
	} else {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "permissive",
			"note", "allowing all origins (*) - consider restricting for production")
	}

	return logging.CombinedMiddleware(handler)
}

func (s *Server) allowedOrigins() []string {
	if len(s.cfg.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.AllowedOrigins
}

// rateLimitMiddleware rejects clients over the sliding-window budget.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := server.ClientIP(r)
		if !s.engine.Admit(clientID) {
			logging.RateLimitRejected(clientID, r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(int(s.cfg.RateLimit.Window.Seconds())))
			respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				fmt.Sprintf("Rate limit exceeded. Maximum %d requests per hour.", s.cfg.RateLimit.MaxRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/info", s.handleInfo)
	mux.HandleFunc("/api/verses/", s.handleVerses)
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/api/morphology/search", s.handleMorphologySearch)
	mux.HandleFunc("/api/morphology/", s.handleMorphology)
	mux.HandleFunc("/api/roots", s.handleRoots)
	mux.HandleFunc("/api/roots/", s.handleRoots)
	mux.HandleFunc("/api/translations/", s.handleTranslations)
	mux.HandleFunc("/api/wordbyword/", s.handleWordByWord)
	mux.HandleFunc("/api/frequency", s.handleFrequency)
	mux.HandleFunc("/api/export/json", s.handleExportJSON)
	mux.HandleFunc("/api/statistics", s.handleStatistics)
	mux.HandleFunc("/api/analytics/", s.handleAnalytics)

	return mux
}
