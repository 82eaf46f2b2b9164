package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"booksapi/internal/book"
	"booksapi/internal/config"
	"booksapi/internal/httpx"
	"booksapi/internal/platform/database"
)

type routerDeps struct {
	cfg      *config.Config
	logger   zerolog.Logger
	conn     *database.Conn
	registry *prometheus.Registry
}

// newRouter builds the full handler tree. ctx bounds background work such
// as the rate limiter's janitor.
func newRouter(ctx context.Context, deps routerDeps) http.Handler {
	cfg := deps.cfg

	repo := book.NewRepository(deps.conn, cfg.DBTimeout)
	service := book.NewService(repo, book.NewValidator())
	bookHandler := book.NewHTTPHandler(service, book.NewMetrics(deps.registry))

	httpMetrics := httpx.NewHTTPMetrics(deps.registry)
	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httplog.RequestLogger(deps.logger))
	r.Use(httpMetrics.Middleware)
	r.Use(httpx.SecurityHeadersMiddleware(cfg.EnableHSTS))
	r.Use(httpx.CORSMiddleware(cfg.CORSAllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.Text(w, http.StatusOK, "ok")
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := deps.conn.Ping(ctx); err != nil {
			httpx.Text(w, http.StatusServiceUnavailable, "db not ready")
			return
		}
		httpx.Text(w, http.StatusOK, "ready")
	})
	r.Handle("/metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{Registry: deps.registry}))

	r.Group(func(r chi.Router) {
		r.Use(rateLimiter.Middleware)
		r.Use(httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes))
		bookHandler.RegisterRoutes(r)
	})

	return r
}
