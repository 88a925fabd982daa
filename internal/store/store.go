package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rgummadi/vidscribe/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status string, opts ...JobUpdateOption) error

	CreateEvaluations(ctx context.Context, evals []*models.Evaluation) error
	ListEvaluations(ctx context.Context, jobID uuid.UUID) ([]*models.Evaluation, error)
}

// JobUpdate holds the optional fields of a status transition. Nil fields are
// left untouched by the UPDATE.
type JobUpdate struct {
	Transcription *string
	Summary       *string
	Questions     []models.Question
	ErrorMessage  *string
	CompletedAt   *time.Time
}

type JobUpdateOption func(*JobUpdate)

// ResolveJobUpdate folds a list of options into a single JobUpdate.
func ResolveJobUpdate(opts ...JobUpdateOption) JobUpdate {
	var u JobUpdate
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

func WithTranscription(text string) JobUpdateOption {
	return func(u *JobUpdate) {
		u.Transcription = &text
	}
}

func WithSummary(text string) JobUpdateOption {
	return func(u *JobUpdate) {
		u.Summary = &text
	}
}

func WithQuestions(questions []models.Question) JobUpdateOption {
	return func(u *JobUpdate) {
		u.Questions = questions
	}
}

func WithErrorMessage(msg string) JobUpdateOption {
	return func(u *JobUpdate) {
		u.ErrorMessage = &msg
	}
}

func WithCompletedAt(t time.Time) JobUpdateOption {
	return func(u *JobUpdate) {
		u.CompletedAt = &t
	}
}
