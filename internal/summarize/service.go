// Package summarize turns transcripts into prose summaries and comprehension
// question/answer pairs, using a primary chat provider with an automatic
// single retry against a fallback provider.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rgummadi/vidscribe/internal/ai"
	"github.com/rgummadi/vidscribe/pkg/models"
)

const (
	// defaultChunkSize bounds the text sent in one summarization call.
	defaultChunkSize = 4000
	// maxQuestions caps how many question/answer pairs a job gets.
	maxQuestions = 3
)

const summarySystemPrompt = "You are a precise summarizer. Create a detailed summary that captures " +
	"the main points and key details from the provided text. The summary should be well-structured " +
	"and maintain the logical flow of information."

const questionsSystemPrompt = "You are an educational assistant that generates concise comprehension " +
	"questions and answers based on a provided summary. Write each question on its own line followed " +
	"by its answer on the next line, without numbering or prefixes. Generate a maximum of 3 questions " +
	"with answers."

// Service implements summarization and question generation with a
// primary/fallback provider strategy. The fallback may be nil.
type Service struct {
	primary   models.ChatProvider
	fallback  models.ChatProvider
	chunkSize int
}

// NewService creates a summarization Service.
func NewService(primary, fallback models.ChatProvider) *Service {
	return &Service{
		primary:   primary,
		fallback:  fallback,
		chunkSize: defaultChunkSize,
	}
}

// Summarize condenses text into prose. Inputs longer than the chunk bound are
// split at sentence boundaries, summarized chunk by chunk, and joined in
// order with a blank line between chunk summaries.
func (s *Service) Summarize(ctx context.Context, text string) (string, error) {
	chunks := SplitChunks(text, s.chunkSize)
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: empty input text", ai.ErrInvalidResponse)
	}

	summaries := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		summary, err := s.complete(ctx, models.ChatRequest{
			System:      summarySystemPrompt,
			User:        "Please summarize the following text:\n\n" + chunk,
			MaxTokens:   1000,
			Temperature: 0.5,
		})
		if err != nil {
			return "", err
		}
		summaries = append(summaries, strings.TrimSpace(summary))
	}

	return strings.Join(summaries, "\n\n"), nil
}

// GenerateQuestions produces at most 3 question/answer pairs from a summary.
// The provider's free-text response is parsed leniently: consecutive
// non-blank lines pair up, and a trailing unpaired line is dropped.
func (s *Service) GenerateQuestions(ctx context.Context, summary string) ([]models.Question, error) {
	content, err := s.complete(ctx, models.ChatRequest{
		System:      questionsSystemPrompt,
		User:        "Based on the following summary, generate some comprehension questions with expected answers:\n\n" + summary,
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	return parseQuestionPairs(content, maxQuestions), nil
}

// complete calls the primary provider and retries once against the fallback
// on any failure. Both failing surfaces the fallback's error.
func (s *Service) complete(ctx context.Context, req models.ChatRequest) (string, error) {
	result, err := s.primary.Complete(ctx, req)
	if err == nil {
		return result, nil
	}

	if s.fallback == nil {
		return "", fmt.Errorf("provider %s failed: %w", s.primary.Name(), err)
	}

	slog.Warn("primary provider failed, trying fallback",
		"primary", s.primary.Name(),
		"fallback", s.fallback.Name(),
		"error", err,
	)

	result, fbErr := s.fallback.Complete(ctx, req)
	if fbErr != nil {
		return "", fmt.Errorf("both providers failed (%s: %v): %w", s.primary.Name(), err, fbErr)
	}
	return result, nil
}
