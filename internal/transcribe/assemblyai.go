// Package transcribe converts video URLs and uploaded audio files into plain
// text. URL inputs go through AssemblyAI's asynchronous transcript jobs; local
// audio files are validated and sent to Whisper synchronously.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rgummadi/vidscribe/internal/config"
)

// Sentinel errors for transcription failures.
var (
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrPollDeadline        = errors.New("transcription polling deadline exceeded")
)

// URLTranscriber transcribes a remote media URL.
type URLTranscriber interface {
	TranscribeURL(ctx context.Context, mediaURL string) (string, error)
}

// AssemblyAIClient drives AssemblyAI's async transcript API: submit a URL,
// then poll the transcript resource until it completes or errors.
type AssemblyAIClient struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewAssemblyAIClient creates a new AssemblyAI client.
func NewAssemblyAIClient(cfg config.AssemblyAIConfig) *AssemblyAIClient {
	return &AssemblyAIClient{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		client:       &http.Client{Timeout: 30 * time.Second},
		pollInterval: cfg.PollInterval,
		pollTimeout:  cfg.PollTimeout,
	}
}

type submitRequest struct {
	AudioURL          string `json:"audio_url"`
	LanguageDetection bool   `json:"language_detection"`
	Punctuate         bool   `json:"punctuate"`
	FormatText        bool   `json:"format_text"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// TranscribeURL submits mediaURL for transcription and polls at a fixed
// interval until the provider reports completion, reports an error, or the
// poll deadline passes.
func (c *AssemblyAIClient) TranscribeURL(ctx context.Context, mediaURL string) (string, error) {
	transcriptID, err := c.submit(ctx, mediaURL)
	if err != nil {
		return "", err
	}

	deadline := time.Now().Add(c.pollTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		tr, err := c.get(ctx, transcriptID)
		if err != nil {
			return "", err
		}

		switch tr.Status {
		case "completed":
			return tr.Text, nil
		case "error":
			return "", fmt.Errorf("%w: %s", ErrTranscriptionFailed, tr.Error)
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("%w: no result after %s", ErrPollDeadline, c.pollTimeout)
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *AssemblyAIClient) submit(ctx context.Context, mediaURL string) (string, error) {
	body, err := json.Marshal(submitRequest{
		AudioURL:          mediaURL,
		LanguageDetection: true,
		Punctuate:         true,
		FormatText:        true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal transcript request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: submit: %v", ErrTranscriptionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: submit returned status %d", ErrTranscriptionFailed, resp.StatusCode)
	}

	var tr transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding transcript response: %w", err)
	}
	if tr.ID == "" {
		return "", fmt.Errorf("%w: submit returned no transcript id", ErrTranscriptionFailed)
	}
	return tr.ID, nil
}

func (c *AssemblyAIClient) get(ctx context.Context, transcriptID string) (*transcriptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript/"+transcriptID, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: poll: %v", ErrTranscriptionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: poll returned status %d", ErrTranscriptionFailed, resp.StatusCode)
	}

	var tr transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decoding transcript response: %w", err)
	}
	return &tr, nil
}

func (c *AssemblyAIClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

var _ URLTranscriber = (*AssemblyAIClient)(nil)
