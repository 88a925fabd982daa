package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rgummadi/vidscribe/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Jobs ---

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	questions, err := json.Marshal(job.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO jobs (id, video_url, status, transcription, summary, questions, error_message, created_at, completed_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		job.ID, job.VideoURL, job.Status, job.Transcription, job.Summary, questions,
		job.ErrorMessage, job.CreatedAt, job.CompletedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var (
		j         models.Job
		questions []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, video_url, status, transcription, summary, questions, error_message, created_at, completed_at, updated_at
		 FROM jobs WHERE id = $1`, id,
	).Scan(&j.ID, &j.VideoURL, &j.Status, &j.Transcription, &j.Summary, &questions,
		&j.ErrorMessage, &j.CreatedAt, &j.CompletedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &j.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions: %w", err)
		}
	}
	return &j, nil
}

// UpdateJobStatus sets the job's status plus any optional fields in a single
// UPDATE, so each transition is written atomically.
func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status string, opts ...JobUpdateOption) error {
	params := ResolveJobUpdate(opts...)

	sets := []string{"status = $2", "updated_at = NOW()"}
	args := []any{id, status}

	if params.Transcription != nil {
		args = append(args, *params.Transcription)
		sets = append(sets, fmt.Sprintf("transcription = $%d", len(args)))
	}
	if params.Summary != nil {
		args = append(args, *params.Summary)
		sets = append(sets, fmt.Sprintf("summary = $%d", len(args)))
	}
	if params.Questions != nil {
		questions, err := json.Marshal(params.Questions)
		if err != nil {
			return fmt.Errorf("marshal questions: %w", err)
		}
		args = append(args, questions)
		sets = append(sets, fmt.Sprintf("questions = $%d", len(args)))
	}
	if params.ErrorMessage != nil {
		args = append(args, *params.ErrorMessage)
		sets = append(sets, fmt.Sprintf("error_message = $%d", len(args)))
	}
	if params.CompletedAt != nil {
		args = append(args, *params.CompletedAt)
		sets = append(sets, fmt.Sprintf("completed_at = $%d", len(args)))
	}

	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE jobs SET %s WHERE id = $1`, strings.Join(sets, ", ")), args...)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Evaluations ---

func (s *PostgresStore) CreateEvaluations(ctx context.Context, evals []*models.Evaluation) error {
	if len(evals) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range evals {
		batch.Queue(
			`INSERT INTO evaluations (id, job_id, question_id, user_answer, correct_answer, confidence_score, feedback, is_correct, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.ID, e.JobID, e.QuestionID, e.UserAnswer, e.CorrectAnswer,
			e.ConfidenceScore, e.Feedback, e.IsCorrect, e.CreatedAt)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range evals {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("create evaluation: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) ListEvaluations(ctx context.Context, jobID uuid.UUID) ([]*models.Evaluation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, job_id, question_id, user_answer, correct_answer, confidence_score, feedback, is_correct, created_at
		 FROM evaluations WHERE job_id = $1 ORDER BY created_at`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var evals []*models.Evaluation
	for rows.Next() {
		var e models.Evaluation
		if err := rows.Scan(&e.ID, &e.JobID, &e.QuestionID, &e.UserAnswer, &e.CorrectAnswer,
			&e.ConfidenceScore, &e.Feedback, &e.IsCorrect, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		evals = append(evals, &e)
	}
	return evals, rows.Err()
}

var _ Store = (*PostgresStore)(nil)
