package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any LLM backend.
type Provider interface {
	// Generate sends a single prompt to the model and returns the full
	// response text.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// GenerateStream sends a single prompt and returns a channel of text
	// fragments as the model produces them. The channel is closed when
	// the model finishes or the context is cancelled; the provider owns
	// releasing the underlying connection in both cases.
	GenerateStream(ctx context.Context, prompt string, options ...Option) (<-chan string, error)
}
