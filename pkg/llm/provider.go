package llm

import (
	"context"
)

// Message is a chat turn in a provider-agnostic shape.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option carries optional generation parameters.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
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

// Provider is the contract for any LLM backend. ChatStream is the long-lived
// call used for answer generation; Chat and Generate return complete text and
// back the judge and titling calls.
type Provider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// ChatStream relays the token stream through onChunk as chunks arrive.
	// Returning an error from onChunk aborts the stream. ChatStream returns
	// once the backend signals completion or the context is cancelled.
	ChatStream(ctx context.Context, history []Message, onChunk func(chunk string) error, options ...Option) error
}
