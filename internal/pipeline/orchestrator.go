// Package pipeline drives a submitted video through transcription,
// summarization, and question generation, persisting every status transition
// so clients can poll by job id.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/rgummadi/vidscribe/internal/cache"
	"github.com/rgummadi/vidscribe/internal/store"
	"github.com/rgummadi/vidscribe/pkg/models"
)

// ErrInvalidURL is returned by Submit when the video URL is not syntactically
// well-formed. No job is created in that case.
var ErrInvalidURL = errors.New("invalid video URL format")

const statusCacheTTL = 30 * time.Minute

// Transcriber converts a remote media URL into plain text.
type Transcriber interface {
	TranscribeURL(ctx context.Context, mediaURL string) (string, error)
}

// Summarizer turns a transcript into a summary and a summary into questions.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
	GenerateQuestions(ctx context.Context, summary string) ([]models.Question, error)
}

// Orchestrator owns the job state machine. Dependencies are injected at
// construction so tests can substitute doubles.
type Orchestrator struct {
	store        store.Store
	cache        cache.Cache
	transcriber  Transcriber
	summarizer   Summarizer
	runner       *Runner
	stageTimeout time.Duration
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(st store.Store, ca cache.Cache, tr Transcriber, su Summarizer, stageTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		store:        st,
		cache:        ca,
		transcriber:  tr,
		summarizer:   su,
		runner:       NewRunner(),
		stageTimeout: stageTimeout,
	}
}

// Submit validates the URL, persists a new job, and spawns its background
// run. It returns as soon as the job record is durable; the caller never
// waits for pipeline work.
func (o *Orchestrator) Submit(ctx context.Context, videoURL string) (*models.Job, error) {
	if !validURL(videoURL) {
		return nil, ErrInvalidURL
	}

	job := &models.Job{
		ID:        uuid.New(),
		VideoURL:  videoURL,
		Status:    models.JobStatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := o.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	if err := o.store.UpdateJobStatus(ctx, job.ID, models.JobStatusTranscribing); err != nil {
		return nil, fmt.Errorf("marking job transcribing: %w", err)
	}
	job.Status = models.JobStatusTranscribing
	_ = o.cache.SetJobStatus(ctx, job.ID, models.JobStatusTranscribing, statusCacheTTL)

	if err := o.runner.Spawn(job.ID, func() { o.run(job.ID, videoURL) }); err != nil {
		return nil, err
	}

	return job, nil
}

// GetStatus returns the job record for polling. Fails with store.ErrNotFound
// for unknown ids.
func (o *Orchestrator) GetStatus(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	return o.store.GetJob(ctx, jobID)
}

// Wait blocks until all in-flight background runs finish. Used by shutdown
// and tests.
func (o *Orchestrator) Wait() {
	o.runner.Wait()
}

// run drives one job's stages in order. Each stage's result is persisted
// before the next stage starts; any failure marks the job failed and stops
// the sequence. A failure here never affects other jobs.
func (o *Orchestrator) run(jobID uuid.UUID, videoURL string) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in pipeline run", "error", r, "job_id", jobID)
			o.markFailed(ctx, jobID, fmt.Sprintf("panic: %v", r))
		}
	}()

	slog.Info("starting transcription", "job_id", jobID)
	transcription, err := o.transcriber.TranscribeURL(ctx, videoURL)
	if err != nil {
		slog.Error("transcription failed", "job_id", jobID, "error", err)
		o.markFailed(ctx, jobID, err.Error())
		return
	}

	// Checkpoint the transcript before summarization starts; transcribed is
	// a transient state, not a resting one.
	if err := o.store.UpdateJobStatus(ctx, jobID, models.JobStatusTranscribed,
		store.WithTranscription(transcription)); err != nil {
		slog.Error("persisting transcription failed", "job_id", jobID, "error", err)
		o.markFailed(ctx, jobID, fmt.Sprintf("storing transcription: %v", err))
		return
	}
	o.setStatus(ctx, jobID, models.JobStatusSummarizing)

	slog.Info("starting summarization", "job_id", jobID)
	summaryCtx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	summary, err := o.summarizer.Summarize(summaryCtx, transcription)
	cancel()
	if err != nil {
		slog.Error("summarization failed", "job_id", jobID, "error", err)
		o.markFailed(ctx, jobID, err.Error())
		return
	}

	if err := o.store.UpdateJobStatus(ctx, jobID, models.JobStatusQuestionGenerating,
		store.WithSummary(summary)); err != nil {
		slog.Error("persisting summary failed", "job_id", jobID, "error", err)
		o.markFailed(ctx, jobID, fmt.Sprintf("storing summary: %v", err))
		return
	}
	_ = o.cache.SetJobStatus(ctx, jobID, models.JobStatusQuestionGenerating, statusCacheTTL)

	slog.Info("starting question generation", "job_id", jobID)
	questionsCtx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	questions, err := o.summarizer.GenerateQuestions(questionsCtx, summary)
	cancel()
	if err != nil {
		slog.Error("question generation failed", "job_id", jobID, "error", err)
		o.markFailed(ctx, jobID, err.Error())
		return
	}

	completedAt := time.Now().UTC()
	if err := o.store.UpdateJobStatus(ctx, jobID, models.JobStatusCompleted,
		store.WithQuestions(questions),
		store.WithCompletedAt(completedAt)); err != nil {
		slog.Error("persisting completion failed", "job_id", jobID, "error", err)
		o.markFailed(ctx, jobID, fmt.Sprintf("storing completion: %v", err))
		return
	}
	_ = o.cache.SetJobStatus(ctx, jobID, models.JobStatusCompleted, statusCacheTTL)

	slog.Info("job completed", "job_id", jobID)
}

func (o *Orchestrator) setStatus(ctx context.Context, jobID uuid.UUID, status string) {
	if err := o.store.UpdateJobStatus(ctx, jobID, status); err != nil {
		slog.Error("updating job status failed", "job_id", jobID, "status", status, "error", err)
	}
	_ = o.cache.SetJobStatus(ctx, jobID, status, statusCacheTTL)
}

func (o *Orchestrator) markFailed(ctx context.Context, jobID uuid.UUID, msg string) {
	if err := o.store.UpdateJobStatus(ctx, jobID, models.JobStatusFailed,
		store.WithErrorMessage(msg)); err != nil {
		slog.Error("marking job failed failed", "job_id", jobID, "error", err)
	}
	_ = o.cache.SetJobStatus(ctx, jobID, models.JobStatusFailed, statusCacheTTL)
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
