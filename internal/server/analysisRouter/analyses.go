package analysisRouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"clauseguard/guardian"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Analyses looks up and removes stored risk analyses.
type Analyses interface {
	Lookup(ctx context.Context, id string) (guardian.Response, error)
	Forget(ctx context.Context, id string) error
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, guardian.ErrAnalysisNotFound):
		return http.StatusNotFound
	case errors.Is(err, guardian.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func AnalysisRouter(analyses Analyses, logger *zap.Logger) chi.Router {

	router := chi.NewRouter()

	router.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		response, err := analyses.Lookup(r.Context(), id)
		if err != nil {
			logger.Debug("analysis lookup failed", zap.String("id", id), zap.Error(err))
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	})

	router.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := analyses.Forget(r.Context(), id); err != nil {
			logger.Debug("analysis delete failed", zap.String("id", id), zap.Error(err))
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		w.WriteHeader(http.StatusAccepted)
	})

	return router
}
