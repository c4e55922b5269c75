package factory

import (
	"context"
	"fmt"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/llm"
	"portfolio-be/pkg/llm/gemini"
	"portfolio-be/pkg/llm/ollama"
	"portfolio-be/pkg/llm/openai"
)

// Credentials carries the per-vendor settings used to build providers.
type Credentials struct {
	OpenRouterKey  string
	GroqKey        string
	HuggingFaceKey string
	GeminiKey      string
	OllamaBaseURL  string
	OllamaModel    string
	SiteURL        string
}

// NewLLMProvider builds one provider by name. It returns (nil, nil) when the
// provider's credentials are absent so callers can skip it.
func NewLLMProvider(ctx context.Context, providerType string, c Credentials) (llm.LLMProvider, error) {
	switch providerType {
	case "openrouter":
		if c.OpenRouterKey == "" {
			return nil, nil
		}
		return openai.NewOpenRouter(c.OpenRouterKey, c.SiteURL), nil
	case "groq":
		if c.GroqKey == "" {
			return nil, nil
		}
		return openai.NewGroq(c.GroqKey), nil
	case "huggingface":
		if c.HuggingFaceKey == "" {
			return nil, nil
		}
		return openai.NewHuggingFace(c.HuggingFaceKey), nil
	case "gemini":
		if c.GeminiKey == "" {
			return nil, nil
		}
		client, err := gemini.NewClient(ctx, c.GeminiKey)
		if err != nil {
			return nil, err
		}
		return gemini.NewProvider(client, ""), nil
	case "ollama":
		if c.OllamaModel == "" {
			return nil, nil
		}
		return ollama.NewOllamaProvider(c.OllamaBaseURL, c.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

// Providers lists every provider name NewLLMProvider understands.
var Providers = []string{"openrouter", "groq", "huggingface", "gemini", "ollama"}

type builder func(ctx context.Context, providerType string, c Credentials) (llm.LLMProvider, error)

// RegisterAll builds every provider with credentials into gw and returns the
// registered names. A provider that fails to build is logged and skipped.
func RegisterAll(ctx context.Context, gw *llm.Gateway, c Credentials, log logger.ILogger) []string {
	return registerAll(ctx, gw, c, log, NewLLMProvider)
}

func registerAll(ctx context.Context, gw *llm.Gateway, c Credentials, log logger.ILogger, build builder) []string {
	var registered []string
	for _, name := range Providers {
		p, err := build(ctx, name, c)
		if err != nil {
			log.Warn(logger.ModuleLLM, "LLM provider failed to initialize, skipping", map[string]interface{}{
				"provider": name,
				"error":    err.Error(),
			})
			continue
		}
		if p == nil {
			continue
		}
		gw.Register(name, p)
		registered = append(registered, name)
	}
	return registered
}
