package summarize

import (
	"strings"

	"github.com/rgummadi/vidscribe/pkg/models"
)

// parseQuestionPairs applies the best-effort line-pairing policy: non-blank
// lines are paired in order (question, then answer), a trailing unpaired line
// is silently dropped, and at most max pairs are returned. Malformed output
// never fails the operation.
func parseQuestionPairs(content string, max int) []models.Question {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	questions := make([]models.Question, 0, max)
	for i := 0; i+1 < len(lines) && len(questions) < max; i += 2 {
		questions = append(questions, models.Question{
			Question: lines[i],
			Answer:   lines[i+1],
		})
	}
	return questions
}
