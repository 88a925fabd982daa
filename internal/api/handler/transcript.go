package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rgummadi/vidscribe/internal/api/response"
	"github.com/rgummadi/vidscribe/internal/store"
	"github.com/rgummadi/vidscribe/internal/transcribe"
)

// FileTranscriber transcribes an uploaded audio file.
type FileTranscriber interface {
	TranscribeFile(ctx context.Context, audioPath string) (string, error)
}

// Queryer answers a user question against a job's summary.
type Queryer interface {
	Answer(ctx context.Context, summary, userQuery string) (string, error)
}

// NewTranscribeHandler returns an http.HandlerFunc for
// POST /api/v1/transcript/transcribe. The uploaded file is validated, written
// to a temporary location, and deleted after processing regardless of outcome.
func NewTranscribeHandler(ft FileTranscriber, uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("audio")
		if err != nil {
			response.Error(w, http.StatusBadRequest, "No audio file provided")
			return
		}
		defer file.Close()

		if err := transcribe.ValidateAudio(header.Header.Get("Content-Type"), header.Size); err != nil {
			switch {
			case errors.Is(err, transcribe.ErrInvalidFileType):
				response.Error(w, http.StatusBadRequest, "Invalid file type")
			case errors.Is(err, transcribe.ErrFileTooLarge):
				response.Error(w, http.StatusBadRequest, "File too large (max 25MB)")
			default:
				response.Error(w, http.StatusBadRequest, "Invalid audio file")
			}
			return
		}

		tmp, err := os.CreateTemp(uploadDir, "audio-*"+filepath.Ext(header.Filename))
		if err != nil {
			slog.Error("creating temp upload file failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Server error during transcription")
			return
		}
		tmpPath := tmp.Name()
		defer os.Remove(tmpPath)

		_, err = io.Copy(tmp, file)
		tmp.Close()
		if err != nil {
			slog.Error("saving upload failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Server error during transcription")
			return
		}

		text, err := ft.TranscribeFile(r.Context(), tmpPath)
		if err != nil {
			slog.Error("file transcription failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Server error during transcription")
			return
		}

		response.JSON(w, map[string]string{"text": text})
	}
}

// NewQueryHandler returns an http.HandlerFunc for
// POST /api/v1/transcript/query/{jobID}.
func NewQueryHandler(p Pipeline, svc Queryer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusNotFound, "Processing job not found")
			return
		}

		var req struct {
			UserQuery string `json:"userQuery"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.UserQuery == "" {
			response.Error(w, http.StatusBadRequest, "userQuery is required")
			return
		}

		job, err := p.GetStatus(r.Context(), jobID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "Processing job not found")
				return
			}
			slog.Error("fetching job for query failed", "job_id", jobID, "error", err)
			response.Error(w, http.StatusInternalServerError, "Failed to answer query")
			return
		}
		if job.Summary == "" {
			response.Error(w, http.StatusNotFound, "No summary available for this job")
			return
		}

		answer, err := svc.Answer(r.Context(), job.Summary, req.UserQuery)
		if err != nil {
			slog.Error("query failed", "job_id", jobID, "error", err)
			response.Error(w, http.StatusInternalServerError, "Failed to answer query")
			return
		}

		response.JSON(w, map[string]string{"answer": answer})
	}
}
