package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/rgummadi/vidscribe/internal/ai/aierrors"
	"github.com/rgummadi/vidscribe/internal/config"
	"github.com/rgummadi/vidscribe/pkg/models"
)

// Provider implements models.ChatProvider using the OpenAI chat API.
type Provider struct {
	cli   *goopenai.Client
	model string
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	return &Provider{
		cli:   goopenai.NewClient(cfg.APIKey),
		model: cfg.Model,
	}
}

func (p *Provider) Name() string { return "openai" }

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
		return "", fmt.Errorf("%w: openai: %v", aierrors.ErrProviderUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", aierrors.ErrInvalidResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

var _ models.ChatProvider = (*Provider)(nil)
