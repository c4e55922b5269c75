package llm

import (
	"context"
	"errors"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrPromptTooLarge is returned by adapters when the backend rejects the
// request because the prompt exceeds the model context.
var ErrPromptTooLarge = errors.New("llm: prompt too large")

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
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

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// Apply builds Options from defaults and overrides.
func Apply(defaults Options, options ...Option) Options {
	for _, o := range options {
		o(&defaults)
	}
	return defaults
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// MergeSystemIntoFirstUser folds system messages into the first user message
// for backends without a system role. Order of the remaining turns is kept.
func MergeSystemIntoFirstUser(messages []Message) []Message {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			if strings.TrimSpace(m.Content) != "" {
				system = append(system, m.Content)
			}
			continue
		}
		rest = append(rest, m)
	}
	if len(system) == 0 {
		return rest
	}

	prefix := strings.Join(system, "\n\n")
	for i, m := range rest {
		if m.Role == RoleUser {
			rest[i].Content = prefix + "\n\n" + m.Content
			return rest
		}
	}
	// No user turn at all: the system text becomes the user turn.
	return append([]Message{{Role: RoleUser, Content: prefix}}, rest...)
}

// IsContextOverflow recognizes the usual "context too long" wording of
// OpenAI-compatible backends.
func IsContextOverflow(body string) bool {
	lower := strings.ToLower(body)
	for _, marker := range []string{"context length", "context_length", "maximum context", "too many tokens", "prompt is too long", "request too large", "maximum number of tokens"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
