package handler

import (
	"net/http"
	"time"

	"github.com/rgummadi/vidscribe/internal/api/response"
)

// NewHealthHandler returns the liveness handler for GET /health.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
