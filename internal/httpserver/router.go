// Package httpserver assembles the HTTP surface: health, metrics, auth
// flows, and the authenticated JSON API.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/saramagdits/landscaping-saas/internal/api"
	"github.com/saramagdits/landscaping-saas/internal/auth"
	"github.com/saramagdits/landscaping-saas/internal/config"
	"github.com/saramagdits/landscaping-saas/internal/http/csrf"
	"github.com/saramagdits/landscaping-saas/internal/http/ratelimit"
	"github.com/saramagdits/landscaping-saas/internal/metrics"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

// NewRouter wires all HTTP routes.
func NewRouter(cfg *config.Config, st *store.Store, authService *auth.Service, handlers *api.Handlers, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Auth endpoints: 5 requests per second, burst of 10
	authRateLimiter := ratelimit.NewIPRateLimiter(rate.Limit(5), 10, 5*time.Minute, cfg.TrustedProxies)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := st.HealthCheck(ctx); err != nil {
			http.Error(w, "unready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	r.Route("/auth", func(r chi.Router) {
		r.Use(authRateLimiter.Middleware())
		r.Get("/login", authService.BeginOAuth)
		r.Get("/callback", authService.HandleOAuthCallback)
	})

	r.With(authService.RequireSession, csrf.Middleware(cfg)).Post("/auth/logout", authService.Logout)
	r.With(authService.RequireSession, csrf.Middleware(cfg)).Post("/auth/calendar", authService.BeginCalendarConsent)

	r.Route("/api", func(r chi.Router) {
		r.Use(authService.RequireSession)
		r.Use(csrf.Middleware(cfg))
		r.Mount("/", handlers.Routes())
	})

	return r
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("remote", r.RemoteAddr).
				Msg("request")
		})
	}
}
