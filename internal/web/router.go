package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jusunglee/hypua/internal/db"
	"github.com/jusunglee/hypua/internal/web/handlers"
	"github.com/jusunglee/hypua/internal/web/middleware"
)

// maxBodyBytes bounds conversion and archive request bodies.
const maxBodyBytes = 1 << 20

type Router struct {
	repo    db.Repository
	log     *slog.Logger
	apiKey  string
	origins []string
	limiter *middleware.IPRateLimiter
}

func NewRouter(repo db.Repository, log *slog.Logger, apiKey string, origins []string) *Router {
	return &Router{
		repo:    repo,
		log:     log,
		apiKey:  apiKey,
		origins: origins,
		limiter: middleware.NewRateLimiter(30, time.Minute),
	}
}

// Close stops the rate limiter's background cleanup.
func (r *Router) Close() {
	r.limiter.Close()
}

func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	convertHandler := handlers.NewConvertHandler(r.log)
	documentHandler := handlers.NewDocumentHandler(r.repo, r.log)

	read := func(h http.HandlerFunc, cache string) http.Handler {
		return middleware.Chain(h,
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.CacheControl(cache),
		)
	}
	write := func(h http.HandlerFunc, extra ...middleware.Middleware) http.Handler {
		chain := append([]middleware.Middleware{
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.RateLimit(r.limiter),
			middleware.MaxBody(maxBodyBytes),
		}, extra...)
		return middleware.Chain(h, chain...)
	}

	mux.Handle("POST /api/v1/convert", write(convertHandler.Convert))

	// The table is compiled in, so lookups never change for a given build.
	mux.Handle("GET /api/v1/codepoints/{cp}", read(handlers.Codepoint, "public, max-age=86400"))
	mux.Handle("GET /api/v1/table", read(handlers.Table, "public, max-age=86400"))

	mux.Handle("POST /api/v1/documents", write(documentHandler.Create))
	mux.Handle("GET /api/v1/documents", read(documentHandler.List, "public, s-maxage=5, max-age=0"))
	mux.Handle("GET /api/v1/documents/{id}", read(documentHandler.Get, "public, s-maxage=60, max-age=0"))
	mux.Handle("DELETE /api/v1/documents/{id}", write(documentHandler.Delete, middleware.APIKeyAuth(r.apiKey)))

	return middleware.CORS(r.origins)(mux)
}
