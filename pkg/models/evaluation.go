package models

import (
	"time"

	"github.com/google/uuid"
)

// AnswerSubmission is one spoken answer to be judged against its expected
// answer.
type AnswerSubmission struct {
	QuestionID    string `json:"questionId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
}

// Evaluation is the model judge's verdict on a single answer.
type Evaluation struct {
	ID              uuid.UUID `db:"id"               json:"-"`
	JobID           uuid.UUID `db:"job_id"           json:"-"`
	QuestionID      string    `db:"question_id"      json:"questionId"`
	UserAnswer      string    `db:"user_answer"      json:"userAnswer"`
	CorrectAnswer   string    `db:"correct_answer"   json:"correctAnswer"`
	ConfidenceScore float64   `db:"confidence_score" json:"confidenceScore"`
	Feedback        string    `db:"feedback"         json:"feedback"`
	IsCorrect       bool      `db:"is_correct"       json:"isCorrect"`
	CreatedAt       time.Time `db:"created_at"       json:"-"`
}
