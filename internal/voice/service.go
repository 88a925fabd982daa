// Package voice issues real-time session credentials for a job's Q&A room and
// judges spoken answers against their expected answers.
package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rgummadi/vidscribe/internal/ai"
	"github.com/rgummadi/vidscribe/internal/config"
	"github.com/rgummadi/vidscribe/internal/store"
	"github.com/rgummadi/vidscribe/pkg/models"
)

const evaluateSystemPrompt = "You are a helpful assistant that evaluates answers for correctness " +
	"and provides feedback. Return only a JSON object with the following fields: userAnswer (string), " +
	"confidenceScore (number between 0 and 1), feedback (string), isCorrect (boolean), and " +
	"correctAnswer (string)."

// Session is the descriptor a client needs to join a job's voice room and
// drive the Q&A flow without a second fetch.
type Session struct {
	Token     string            `json:"token"`
	RoomName  string            `json:"roomName"`
	Questions []models.Question `json:"questions"`
}

// Service implements voice session issuance and answer evaluation.
type Service struct {
	store    store.Store
	provider models.ChatProvider
	cfg      config.LiveKitConfig
}

// NewService creates a voice Service.
func NewService(st store.Store, provider models.ChatProvider, cfg config.LiveKitConfig) *Service {
	return &Service{store: st, provider: provider, cfg: cfg}
}

// CreateSession issues an access token for the job's room, named
// deterministically from the job id, and returns the stored questions.
// Returns store.ErrNotFound if the job does not exist.
func (s *Service) CreateSession(ctx context.Context, jobID uuid.UUID) (*Session, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	roomName := fmt.Sprintf("voice-session-%s", jobID)
	token, err := signRoomToken(s.cfg.APIKey, s.cfg.APISecret, roomName, jobID.String(), s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		RoomName:  roomName,
		Questions: job.Questions,
	}, nil
}

// evaluationResponse is the judge model's expected structure. Pointer fields
// distinguish missing keys from zero values so the strict-schema parse can
// reject incomplete output.
type evaluationResponse struct {
	UserAnswer      *string  `json:"userAnswer"`
	CorrectAnswer   *string  `json:"correctAnswer"`
	ConfidenceScore *float64 `json:"confidenceScore"`
	Feedback        *string  `json:"feedback"`
	IsCorrect       *bool    `json:"isCorrect"`
}

// EvaluateAnswer asks the judge model to score one answer and parses its
// response with a strict schema: malformed output is a hard error, not a
// best-effort partial result.
func (s *Service) EvaluateAnswer(ctx context.Context, jobID uuid.UUID, answer models.AnswerSubmission) (*models.Evaluation, error) {
	user := fmt.Sprintf("Evaluate the following answer:\n\nUser Answer: %q\nCorrect Answer: %q",
		answer.UserAnswer, answer.CorrectAnswer)

	content, err := s.provider.Complete(ctx, models.ChatRequest{
		System:   evaluateSystemPrompt,
		User:     user,
		JSONMode: true,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluation provider %s: %w", s.provider.Name(), err)
	}

	var parsed evaluationResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrInvalidResponse, err)
	}
	if parsed.ConfidenceScore == nil || parsed.Feedback == nil || parsed.IsCorrect == nil {
		return nil, fmt.Errorf("%w: evaluation response missing required fields", ai.ErrInvalidResponse)
	}

	confidence := *parsed.ConfidenceScore
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	eval := &models.Evaluation{
		ID:              uuid.New(),
		JobID:           jobID,
		QuestionID:      answer.QuestionID,
		UserAnswer:      answer.UserAnswer,
		CorrectAnswer:   answer.CorrectAnswer,
		ConfidenceScore: confidence,
		Feedback:        *parsed.Feedback,
		IsCorrect:       *parsed.IsCorrect,
		CreatedAt:       time.Now().UTC(),
	}
	if parsed.UserAnswer != nil && *parsed.UserAnswer != "" {
		eval.UserAnswer = *parsed.UserAnswer
	}
	if parsed.CorrectAnswer != nil && *parsed.CorrectAnswer != "" {
		eval.CorrectAnswer = *parsed.CorrectAnswer
	}
	return eval, nil
}

// EvaluateBatch evaluates every answer concurrently. All-or-nothing: the
// first failure cancels the remaining evaluations and fails the whole batch.
// On success the evaluations are persisted and returned in submission order.
func (s *Service) EvaluateBatch(ctx context.Context, jobID uuid.UUID, answers []models.AnswerSubmission) ([]*models.Evaluation, error) {
	evals := make([]*models.Evaluation, len(answers))

	g, gctx := errgroup.WithContext(ctx)
	for i, answer := range answers {
		g.Go(func() error {
			eval, err := s.EvaluateAnswer(gctx, jobID, answer)
			if err != nil {
				return err
			}
			evals[i] = eval
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.store.CreateEvaluations(ctx, evals); err != nil {
		return nil, fmt.Errorf("persist evaluations: %w", err)
	}
	return evals, nil
}
