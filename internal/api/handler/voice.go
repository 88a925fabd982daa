package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rgummadi/vidscribe/internal/api/response"
	"github.com/rgummadi/vidscribe/internal/store"
	"github.com/rgummadi/vidscribe/internal/voice"
	"github.com/rgummadi/vidscribe/pkg/models"
)

// VoiceService is the voice adapter surface the handlers depend on.
type VoiceService interface {
	CreateSession(ctx context.Context, jobID uuid.UUID) (*voice.Session, error)
	EvaluateBatch(ctx context.Context, jobID uuid.UUID, answers []models.AnswerSubmission) ([]*models.Evaluation, error)
}

// NewVoiceSessionHandler returns an http.HandlerFunc for
// POST /api/v1/voice/session/{jobID}.
func NewVoiceSessionHandler(svc VoiceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusNotFound, "Processing job not found")
			return
		}

		session, err := svc.CreateSession(r.Context(), jobID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "Processing job not found")
				return
			}
			slog.Error("creating voice session failed", "job_id", jobID, "error", err)
			response.Error(w, http.StatusInternalServerError, "Failed to start voice session")
			return
		}

		response.JSON(w, session)
	}
}

// NewEvaluateHandler returns an http.HandlerFunc for
// POST /api/v1/voice/evaluate. The batch is all-or-nothing: any single
// evaluation failure fails the whole request with no partial results.
func NewEvaluateHandler(svc VoiceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JobID   string                    `json:"jobId"`
			Answers []models.AnswerSubmission `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.JobID == "" {
			response.Error(w, http.StatusBadRequest, "jobId is required")
			return
		}
		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "jobId must be a valid job identifier")
			return
		}
		if len(req.Answers) == 0 {
			response.Error(w, http.StatusBadRequest, "answers must not be empty")
			return
		}

		evaluations, err := svc.EvaluateBatch(r.Context(), jobID, req.Answers)
		if err != nil {
			slog.Error("batch evaluation failed", "job_id", jobID, "error", err)
			response.Error(w, http.StatusInternalServerError, "Failed to evaluate answers in batch")
			return
		}

		response.JSON(w, map[string]any{"evaluations": evaluations})
	}
}
