package transcribe

import (
	"context"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/rgummadi/vidscribe/internal/config"
)

// FileTranscriber transcribes a local audio file.
type FileTranscriber interface {
	TranscribeFile(ctx context.Context, audioPath string) (string, error)
}

// WhisperClient transcribes audio files synchronously through OpenAI's
// whisper-1 model. Callers validate inputs with ValidateAudio first and are
// responsible for deleting the file afterwards.
type WhisperClient struct {
	cli *goopenai.Client
}

func NewWhisperClient(cfg config.OpenAIConfig) *WhisperClient {
	return &WhisperClient{cli: goopenai.NewClient(cfg.APIKey)}
}

func (w *WhisperClient) TranscribeFile(ctx context.Context, audioPath string) (string, error) {
	resp, err := w.cli.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:       goopenai.Whisper1,
		FilePath:    audioPath,
		Language:    "en",
		Format:      goopenai.AudioResponseFormatJSON,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("%w: whisper: %v", ErrTranscriptionFailed, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty transcription result", ErrTranscriptionFailed)
	}
	return text, nil
}

var _ FileTranscriber = (*WhisperClient)(nil)
