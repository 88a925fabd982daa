package models

import "context"

// ChatProvider is the interface every language-model integration implements.
// Never call a specific vendor client directly — always inject this interface.
type ChatProvider interface {
	// Complete sends one system+user exchange and returns the model's text.
	Complete(ctx context.Context, req ChatRequest) (string, error)
	// Name returns the provider identifier (e.g., "openai", "groq").
	Name() string
}

// ChatRequest is the input to a single chat completion.
type ChatRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
	// JSONMode forces the provider to emit a JSON object. Used by the
	// answer evaluator, which parses the response with a strict schema.
	JSONMode bool
}
