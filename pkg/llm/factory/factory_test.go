package factory

import (
	"context"
	"errors"
	"testing"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type nopProvider struct{}

func (nopProvider) Chat(context.Context, []llm.Message, ...llm.Option) (string, error) {
	return "ok", nil
}

func (nopProvider) Generate(context.Context, string, ...llm.Option) (string, error) {
	return "ok", nil
}

func TestRegisterAll_SkipsProviderThatFailsToBuild(t *testing.T) {
	gw := llm.NewGateway(logger.NewNopLogger())
	build := func(_ context.Context, name string, _ Credentials) (llm.LLMProvider, error) {
		switch name {
		case "gemini":
			return nil, errors.New("invalid api key")
		case "huggingface":
			return nil, nil
		}
		return nopProvider{}, nil
	}

	registered := registerAll(context.Background(), gw, Credentials{}, logger.NewNopLogger(), build)

	assert.Equal(t, []string{"openrouter", "groq", "ollama"}, registered)
	assert.True(t, gw.Has("ollama"), "providers after a failed one are still registered")
	assert.False(t, gw.Has("gemini"))
}

func TestRegisterAll_NoCredentials(t *testing.T) {
	gw := llm.NewGateway(logger.NewNopLogger())
	assert.Empty(t, RegisterAll(context.Background(), gw, Credentials{}, logger.NewNopLogger()))
}

func TestNewLLMProvider_Unsupported(t *testing.T) {
	_, err := NewLLMProvider(context.Background(), "bard", Credentials{})
	assert.Error(t, err)
}
