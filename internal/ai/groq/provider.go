// Package groq implements the chat provider against Groq's OpenAI-compatible
// endpoint, so it reuses the go-openai client with a custom base URL.
package groq

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/rgummadi/vidscribe/internal/ai/aierrors"
	"github.com/rgummadi/vidscribe/internal/config"
	"github.com/rgummadi/vidscribe/pkg/models"
)

// Provider implements models.ChatProvider using Groq.
type Provider struct {
	cli   *goopenai.Client
	model string
}

func NewProvider(cfg config.GroqConfig) *Provider {
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	return &Provider{
		cli:   goopenai.NewClientWithConfig(clientCfg),
		model: cfg.Model,
	}
}

func (p *Provider) Name() string { return "groq" }

func (p *Provider) Complete(ctx context.Context, req models.ChatRequest) (string, error) {
	chatReq := goopenai.ChatCompletionRequest{
		Model: p.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.System},
			{Role: goopenai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.cli.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", aierrors.ErrInferenceTimeout, err)
		}
		return "", fmt.Errorf("%w: groq: %v", aierrors.ErrProviderUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: groq returned no choices", aierrors.ErrInvalidResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

var _ models.ChatProvider = (*Provider)(nil)
