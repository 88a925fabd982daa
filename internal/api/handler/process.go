// Package handler contains the HTTP handlers. Each handler declares the
// narrow interface it depends on so tests can substitute doubles.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rgummadi/vidscribe/internal/api/response"
	"github.com/rgummadi/vidscribe/internal/pipeline"
	"github.com/rgummadi/vidscribe/internal/store"
	"github.com/rgummadi/vidscribe/pkg/models"
)

// Pipeline is the orchestrator surface the process handlers depend on.
type Pipeline interface {
	Submit(ctx context.Context, videoURL string) (*models.Job, error)
	GetStatus(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
}

// NewProcessHandler returns an http.HandlerFunc for POST /api/v1/process.
func NewProcessHandler(p Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			VideoURL string `json:"videoUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.VideoURL == "" {
			response.Error(w, http.StatusBadRequest, "Video URL is required")
			return
		}

		job, err := p.Submit(r.Context(), req.VideoURL)
		if err != nil {
			if errors.Is(err, pipeline.ErrInvalidURL) {
				response.Error(w, http.StatusBadRequest, "Invalid video URL format")
				return
			}
			slog.Error("submit failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Failed to start processing")
			return
		}

		response.Accepted(w, map[string]any{
			"message": "Processing started",
			"jobId":   job.ID,
			"status":  job.Status,
		})
	}
}

type statusResponse struct {
	JobID         uuid.UUID         `json:"jobId"`
	Status        string            `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	Error         *string           `json:"error,omitempty"`
	Transcription string            `json:"transcription,omitempty"`
	Summary       string            `json:"summary,omitempty"`
	Questions     []models.Question `json:"questions,omitempty"`
	CompletedAt   *time.Time        `json:"completedAt,omitempty"`
}

// NewStatusHandler returns an http.HandlerFunc for GET /api/v1/process/{jobID}.
// Transcription, summary, questions, and completedAt appear only once the job
// is completed; error appears whenever present.
func NewStatusHandler(p Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusNotFound, "Processing job not found")
			return
		}

		job, err := p.GetStatus(r.Context(), jobID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "Processing job not found")
				return
			}
			slog.Error("fetching job status failed", "job_id", jobID, "error", err)
			response.Error(w, http.StatusInternalServerError, "Failed to fetch processing status")
			return
		}

		resp := statusResponse{
			JobID:     job.ID,
			Status:    job.Status,
			CreatedAt: job.CreatedAt,
			Error:     job.ErrorMessage,
		}
		if job.Status == models.JobStatusCompleted {
			resp.Transcription = job.Transcription
			resp.Summary = job.Summary
			resp.Questions = job.Questions
			resp.CompletedAt = job.CompletedAt
		}

		response.JSON(w, resp)
	}
}
