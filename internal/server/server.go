// Package server provides the HTTP API for the chat-driven resume builder.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-chat/internal/chat"
	"github.com/jonathan/resume-chat/internal/export"
	"github.com/jonathan/resume-chat/internal/observability"
	"github.com/jonathan/resume-chat/internal/payments"
	"github.com/jonathan/resume-chat/internal/server/middleware"
	"github.com/jonathan/resume-chat/internal/server/ratelimit"
	"github.com/jonathan/resume-chat/internal/types"
)

const shutdownTimeout = 30 * time.Second

// Sessions hands out the per-user chat session
type Sessions interface {
	Get(userID uuid.UUID) *chat.Session
	Delete(userID uuid.UUID)
}

// Payments runs the one-time payment flow
type Payments interface {
	CreatePayment(ctx context.Context, user payments.User) (*payments.CreateResult, error)
	VerifyPayment(ctx context.Context, userID uuid.UUID, req types.VerifyPaymentRequest) (*payments.VerifyResult, error)
	HasPaid(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Config holds server configuration
type Config struct {
	Port           int
	RequirePayment bool
	CORSOrigins    []string
	ExportTimeout  time.Duration
	RateLimit      *ratelimit.Config
}

// Deps are the services the server routes to
type Deps struct {
	Sessions Sessions
	Payments Payments
	Exporter export.Exporter
	Tokens   middleware.TokenValidator
	Logger   *logrus.Entry
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	handler        http.Handler
	sessions       Sessions
	payments       Payments
	exporter       export.Exporter
	rateLimiter    *ratelimit.Limiter
	cors           map[string]bool
	exportLimit    time.Duration
	// requirePayment reports whether session routes sit behind the payment wall.
	requirePayment bool
	logger         *logrus.Entry
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Sessions == nil {
		return nil, fmt.Errorf("server requires a session store")
	}
	if deps.Tokens == nil {
		return nil, fmt.Errorf("server requires a token validator")
	}
	if cfg.RequirePayment && deps.Payments == nil {
		return nil, fmt.Errorf("payment wall enabled without a payment service")
	}
	logger := deps.Logger
	if logger == nil {
		logger = observability.Component(nil, "server")
	}

	s := &Server{
		sessions:       deps.Sessions,
		payments:       deps.Payments,
		exporter:       deps.Exporter,
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit),
		cors:           make(map[string]bool),
		exportLimit:    cfg.ExportTimeout,
		requirePayment: cfg.RequirePayment,
		logger:         logger,
	}
	for _, origin := range cfg.CORSOrigins {
		s.cors[strings.TrimRight(origin, "/")] = true
	}

	auth := middleware.AuthMiddleware(deps.Tokens)
	paid := auth
	if cfg.RequirePayment {
		wall := middleware.RequirePayment(deps.Payments)
		paid = func(next http.Handler) http.Handler { return auth(wall(next)) }
	}
	authed := func(h http.HandlerFunc) http.Handler { return auth(h) }
	gated := func(h http.HandlerFunc) http.Handler { return paid(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /templates", s.handleTemplates)

	// Payment flow
	mux.Handle("POST /payments/create", authed(s.handleCreatePayment))
	mux.Handle("POST /payments/verify", authed(s.handleVerifyPayment))
	mux.Handle("GET /payments/status", authed(s.handlePaymentStatus))

	// Chat session
	mux.Handle("GET /session", gated(s.handleSnapshot))
	mux.Handle("DELETE /session", authed(s.handleLogout))
	mux.Handle("POST /session/greet", gated(s.handleGreet))
	mux.Handle("POST /session/messages", gated(s.handleSendMessage))
	mux.Handle("POST /session/import", gated(s.handleImport))
	mux.Handle("POST /session/image", gated(s.handleImage))
	mux.Handle("PUT /session/template", gated(s.handleSelectTemplate))
	mux.Handle("GET /session/preview", gated(s.handlePreview))
	mux.Handle("GET /session/export", gated(s.handleExport))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      180 * time.Second, // model calls and PDF export
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.logger.Info("server stopped")
	return err
}

// withCORS adds CORS headers. With no configured origins every origin is allowed.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(s.cors) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case s.cors[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Page-Count")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
			"remote":   clientID(r),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request completed")
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID extracts the client identifier (IP address) from the request.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	}
	if info.RetryAfter > 0 {
		seconds := max(int(info.RetryAfter.Seconds()), 1)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.WithFields(logrus.Fields{
		"limit":    info.Limit,
		"reset_at": info.ResetTime.Format(time.RFC3339),
	}).Warn("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": errorCode(status), "message": message})
}

// writeError maps err to a status and writes it. Server-side failures are logged and
// their details withheld.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		message = http.StatusText(status)
	}
	s.errorResponse(w, status, message)
}
