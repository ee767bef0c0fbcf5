// Package httpapi exposes record enrichment over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cory-johannsen/umaroster/internal/enrich"
	"github.com/cory-johannsen/umaroster/internal/reftable"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes = 32 << 20

// Options configures the router.
type Options struct {
	// MaxBodyBytes caps the enrichment request body; 0 uses DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// HealthCheck, when set, must succeed for GET /healthz to report ok.
	HealthCheck func(context.Context) error
}

// NewRouter returns the HTTP handler serving POST /v1/enrich and GET /healthz.
//
// Precondition: enricher, store and logger must be non-nil.
func NewRouter(enricher *enrich.Enricher, store *reftable.Store, logger *zap.Logger, opts Options) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	h := &handler{
		enricher: enricher,
		store:    store,
		logger:   logger,
		maxBody:  opts.MaxBodyBytes,
		check:    opts.HealthCheck,
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/enrich", h.enrich)
	})
	return r
}

// requestLogger logs one line per request with its chi request ID.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}
