package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/rgummadi/vidscribe/internal/api/middleware"
	"github.com/rgummadi/vidscribe/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler       http.HandlerFunc
	ProcessHandler      http.HandlerFunc
	StatusHandler       http.HandlerFunc
	TranscribeHandler   http.HandlerFunc
	QueryHandler        http.HandlerFunc
	VoiceSessionHandler http.HandlerFunc
	EvaluateHandler     http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public liveness check, outside the rate-limited API prefix
	r.Get("/health", orNotImplemented(deps.HealthHandler))

	r.Route("/api/v1", func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}
		r.Use(mw.ValidateVideoURL)

		r.Post("/process", orNotImplemented(deps.ProcessHandler))
		r.Get("/process/{jobID}", orNotImplemented(deps.StatusHandler))

		r.Post("/transcript/transcribe", orNotImplemented(deps.TranscribeHandler))
		r.Post("/transcript/query/{jobID}", orNotImplemented(deps.QueryHandler))

		r.Post("/voice/session/{jobID}", orNotImplemented(deps.VoiceSessionHandler))
		r.Post("/voice/evaluate", orNotImplemented(deps.EvaluateHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "Endpoint not yet implemented")
	}
}
