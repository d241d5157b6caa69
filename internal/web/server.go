// Package web provides the HTTP server and handlers for the bulk import API.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dentalops/import-service/internal/config"
	"github.com/dentalops/import-service/internal/importer"
	webmw "github.com/dentalops/import-service/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Pinger reports backend connectivity, used by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP server for the import service.
type Server struct {
	cfg      *config.Config
	service  *importer.Service
	db       Pinger
	router   *chi.Mux
	server   *http.Server
	limiters []*rateLimiter
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, service *importer.Service, db Pinger) *Server {
	s := &Server{
		cfg:     cfg,
		service: service,
		db:      db,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(webmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(webmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Import.Timeout))

	// The API is consumed by browser clients on other origins; credentials
	// ride in the Authorization header, not cookies.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := s.newLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// newLimiter creates a rate limiter and registers it for shutdown.
func (s *Server) newLimiter(rate int, window time.Duration) *rateLimiter {
	rl := newRateLimiter(rate, window)
	s.limiters = append(s.limiters, rl)
	return rl
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Liveness probe, outside auth.
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(webmw.BearerAuth(s.cfg.Auth.JWTSecret, s.cfg.Auth.Issuer))

		// The import endpoint gets a stricter per-IP limit than the
		// read-only routes.
		importGroup := r
		if s.cfg.Rate.Enabled {
			importLimiter := s.newLimiter(s.cfg.Rate.ImportLimit, time.Minute)
			importGroup = r.With(importLimiter.middleware)
		}
		importGroup.Post("/import", s.handleImport)

		r.Post("/import/preview", s.handlePreview)
		r.Get("/import/{jobID}", s.handleJob)
		r.Get("/imports", s.handleListJobs)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its rate limiter cleanup
// goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{} // closed when the cleanup goroutine exits
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	// Start cleanup goroutine
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every minute until stopped.
func (rl *rateLimiter) cleanup() {
	defer close(rl.doneCh)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastReset) > rl.window*2 {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// stop ends the cleanup goroutine. Safe to call more than once.
func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1, // consume one token
			lastReset: time.Now(),
		}
		return true
	}

	// Reset tokens if window has passed
	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	if v.tokens <= 0 {
		return false
	}

	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by IP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// RemoteAddr is already resolved by the TrustedRealIP middleware.
		if !rl.allow(r.RemoteAddr) {
			w.Header().Set("Retry-After", "60")
			writeErrorCode(w, http.StatusTooManyRequests, "rate limit exceeded", "RATE_LIMITED")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
