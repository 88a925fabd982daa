// Package models contains shared data models used across the VidScribe codebase.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Job statuses form a strict forward path; failed is terminal and reachable
// from any non-terminal state.
const (
	JobStatusPending            = "pending"
	JobStatusTranscribing       = "transcribing"
	JobStatusTranscribed        = "transcribed"
	JobStatusSummarizing        = "summarizing"
	JobStatusQuestionGenerating = "questionGenerating"
	JobStatusCompleted          = "completed"
	JobStatusFailed             = "failed"
)

// Job tracks one submitted video through the processing pipeline. The API
// returns a jobId on POST /api/v1/process; the client polls
// GET /api/v1/process/{jobId} until status is completed or failed.
type Job struct {
	ID            uuid.UUID  `db:"id"            json:"jobId"`
	VideoURL      string     `db:"video_url"     json:"videoUrl"`
	Status        string     `db:"status"        json:"status"`
	Transcription string     `db:"transcription" json:"transcription,omitempty"`
	Summary       string     `db:"summary"       json:"summary,omitempty"`
	Questions     []Question `db:"questions"     json:"questions,omitempty"`
	ErrorMessage  *string    `db:"error_message" json:"error,omitempty"`
	CreatedAt     time.Time  `db:"created_at"    json:"createdAt"`
	CompletedAt   *time.Time `db:"completed_at"  json:"completedAt,omitempty"`
	UpdatedAt     time.Time  `db:"updated_at"    json:"-"`
}

// Terminal reports whether the job can no longer change state.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Question is one comprehension question with its expected answer, generated
// from a job's summary.
type Question struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
