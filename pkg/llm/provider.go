package llm

import "context"

// Message is a chat turn in a provider-agnostic format.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
}

// Option carries optional generation parameters.
type Option func(*Options)

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

// LLMProvider is the contract for any model backend. The intake pipeline
// treats it as optional: callers must degrade to rule-based output when the
// provider is nil or errors.
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
