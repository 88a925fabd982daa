// Package query answers free-form follow-up questions against a job's
// summary. A single provider call: no retry and no fallback, unlike the
// summarization path.
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgummadi/vidscribe/pkg/models"
)

// Service answers user questions grounded on a summary.
type Service struct {
	provider models.ChatProvider
}

// NewService creates a query Service.
func NewService(provider models.ChatProvider) *Service {
	return &Service{provider: provider}
}

// Answer asks the conversational model the user's question, with the summary
// as grounding context.
func (s *Service) Answer(ctx context.Context, summary, userQuery string) (string, error) {
	system := fmt.Sprintf("You are an AI tutor. Use the following summary to answer questions "+
		"or clarify doubts concisely and accurately: %q", summary)

	answer, err := s.provider.Complete(ctx, models.ChatRequest{
		System: system,
		User:   userQuery,
	})
	if err != nil {
		return "", fmt.Errorf("query provider %s: %w", s.provider.Name(), err)
	}
	return strings.TrimSpace(answer), nil
}
