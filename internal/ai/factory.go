// Package ai holds the language-model provider contract and its
// implementations. The pipeline, query, and voice services only ever see
// models.ChatProvider.
package ai

import (
	"github.com/rgummadi/vidscribe/internal/ai/groq"
	"github.com/rgummadi/vidscribe/internal/ai/openai"
	"github.com/rgummadi/vidscribe/internal/config"
	"github.com/rgummadi/vidscribe/pkg/models"
)

// NewProviders constructs the primary and fallback chat providers from config.
// Called once at server startup. The fallback is nil when no Groq key is
// configured; callers must tolerate that.
func NewProviders(cfg config.AIConfig) (primary, fallback models.ChatProvider) {
	primary = openai.NewProvider(cfg.OpenAI)
	if cfg.Groq.APIKey != "" {
		fallback = groq.NewProvider(cfg.Groq)
	}
	return primary, fallback
}
