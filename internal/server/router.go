package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"clauseguard/guardian"
	"clauseguard/ingest"
	"clauseguard/internal/server/analysisRouter"
	"clauseguard/personas"
	"clauseguard/scoring"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// maxUploadBodyBytes leaves room for multipart framing around the largest document.
const maxUploadBodyBytes = ingest.MaxUploadBytes + 1<<20

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Key-ID", "X-Timestamp", "X-Signature"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Group for routes requiring auth
	r.Group(func(protected chi.Router) {
		protected.Use(AuthMiddleware(s.authKeys, s.skew))
		protected.Post("/score", s.ScoreHandler)
		protected.With(RateLimitMiddleware(s.limiter, s.logger)).Post("/analyze", s.AnalyzeHandler)
		protected.Post("/upload", s.UploadHandler)
		protected.Get("/personas", s.PersonasHandler)

		protected.Mount("/analyses", analysisRouter.AnalysisRouter(s.guardian, s.logger))
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ScoreHandler scores a JSON array of risk records.
func (s *Server) ScoreHandler(w http.ResponseWriter, r *http.Request) {
	var records []scoring.Record
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		http.Error(w, "Invalid JSON: expected an array of risk records", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, scoring.Score(records))
}

// PersonasHandler lists the expert personas a client may request by key.
func (s *Server) PersonasHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, personas.All())
}

func (s *Server) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req guardian.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.PersonaMode != "" && !personas.IsAllowedMode(req.PersonaMode) {
		http.Error(w, "Invalid persona", http.StatusBadRequest)
		return
	}

	response, err := s.guardian.Analyze(r.Context(), req)
	if errors.Is(err, guardian.ErrGeneratorUnavailable) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		s.logger.Error("analysis failed", zap.Error(err))
		http.Error(w, "analysis failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodyBytes)
	if err := r.ParseMultipartForm(maxUploadBodyBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, ingest.ErrDocumentTooLarge.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid multipart upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	doc, err := ingest.FromUpload(header.Filename, header.Header.Get("Content-Type"), file)
	switch {
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	case errors.Is(err, ingest.ErrDocumentTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	case errors.Is(err, ingest.ErrUnreadableDocument):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		s.logger.Error("upload failed", zap.Error(err))
		http.Error(w, "parsing error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}
