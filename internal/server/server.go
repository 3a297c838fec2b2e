// Package server provides the HTTP API for requesting and previewing site builds.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonathan/site-builder/internal/build"
	"github.com/jonathan/site-builder/internal/logging"
	"github.com/jonathan/site-builder/internal/server/ratelimit"
	"github.com/jonathan/site-builder/internal/types"
)

const (
	serviceName     = "site-builder"
	shutdownTimeout = 30 * time.Second
	maxBodyBytes    = 1 << 20
)

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// VersionService lists and activates published site versions
type VersionService interface {
	ListSiteVersions(ctx context.Context, userID uuid.UUID) ([]types.SiteVersion, error)
	ActivateVersion(ctx context.Context, userID, versionID uuid.UUID) (bool, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	builder        *build.Builder
	tracker        build.Tracker
	versions       VersionService
	health         HealthChecker
	rateLimiter    *ratelimit.Limiter
	logger         *log.Logger
	allowedOrigins []string
	pollInterval   time.Duration
	onShutdown     func()

	// background builds outlive the request that queued them
	baseCtx    context.Context
	cancelRuns context.CancelFunc
	runs       sync.WaitGroup
}

// Config holds server configuration
type Config struct {
	Port           int
	Builder        *build.Builder
	Versions       VersionService
	Health         HealthChecker
	Metrics        http.Handler
	FilesDir       string
	AllowedOrigins []string
	RateLimit      *ratelimit.Config
	Logger         *log.Logger

	// PollInterval is how often status streams re-read the build record.
	PollInterval time.Duration

	// OnShutdown runs after the listener has stopped, e.g. to close the database.
	OnShutdown func()
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Builder == nil {
		return nil, errors.New("server requires a builder")
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		builder:        cfg.Builder,
		tracker:        cfg.Builder.Tracker(),
		versions:       cfg.Versions,
		health:         cfg.Health,
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit),
		logger:         logging.OrDiscard(cfg.Logger),
		allowedOrigins: cfg.AllowedOrigins,
		pollInterval:   cfg.PollInterval,
		onShutdown:     cfg.OnShutdown,
		baseCtx:        baseCtx,
		cancelRuns:     cancel,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /build-site", s.handleBuildSite)
	mux.HandleFunc("POST /build-site/stream", s.handleBuildSiteStream)
	mux.HandleFunc("GET /build-status/{id}", s.handleBuildStatus)
	mux.HandleFunc("GET /build-status/{id}/stream", s.handleBuildStatusStream)
	mux.HandleFunc("GET /preview/{id}", s.handlePreview)
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.versions != nil {
		mux.HandleFunc("GET /users/{id}/versions", s.handleListVersions)
		mux.HandleFunc("POST /users/{id}/versions/{version_id}/activate", s.handleActivateVersion)
	}
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	if cfg.FilesDir != "" {
		mux.Handle("GET /files/", http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.FilesDir))))
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // streams stay open for a whole build
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.ListenAndServe(ctx)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.cleanup()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.cleanup()
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if !s.waitForRuns(shutdownCtx) {
		s.logger.Warn("abandoning in-flight builds")
	}
	s.cleanup()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) cleanup() {
	s.cancelRuns()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.onShutdown != nil {
		s.onShutdown()
	}
}

// waitForRuns blocks until background builds finish or ctx is done
func (s *Server) waitForRuns(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		s.runs.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

// withCORS adds CORS headers. An empty allow list permits every origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(s.allowedOrigins) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.allowedOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// statusRecorder captures the response status while still allowing streaming
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", "err", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code and writes it
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// Only RemoteAddr is trusted; forwarded headers are ignored.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.logger.Warn("rate limit exceeded",
		"client", s.extractClientID(r),
		"path", r.URL.Path,
		"limit", info.Limit,
		"reset", info.ResetTime.Format(time.RFC3339),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
