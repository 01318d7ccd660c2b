package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Limiter decides whether a caller may make another request.
type Limiter interface {
	Allow(ctx context.Context, caller string) (bool, error)
}

// RateLimitMiddleware rejects callers over their limit. Limiter failures let the
// request through.
func RateLimitMiddleware(limiter Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			caller := r.Header.Get("X-Key-ID")
			allowed, err := limiter.Allow(r.Context(), caller)
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.String("caller", caller), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
