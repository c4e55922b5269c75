// Package openai talks to any OpenAI-compatible chat completions endpoint:
// the OpenRouter free router, Groq and the Hugging Face router.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"portfolio-be/pkg/llm"
)

const (
	OpenRouterBaseURL  = "https://openrouter.ai/api/v1"
	GroqBaseURL        = "https://api.groq.com/openai/v1"
	HuggingFaceBaseURL = "https://router.huggingface.co/v1"
)

type Provider struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	headers map[string]string
	client  *http.Client
}

var _ llm.LLMProvider = (*Provider)(nil)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewProvider(name, apiKey, baseURL, model string) *Provider {
	return &Provider{
		name:    name,
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		headers: map[string]string{},
		client:  &http.Client{},
	}
}

func NewOpenRouter(apiKey, siteURL string) *Provider {
	p := NewProvider("openrouter", apiKey, OpenRouterBaseURL, "")
	if siteURL != "" {
		p.headers["HTTP-Referer"] = siteURL
		p.headers["X-Title"] = "Portfolio Assistant"
	}
	return p
}

func NewGroq(apiKey string) *Provider {
	return NewProvider("groq", apiKey, GroqBaseURL, "")
}

func NewHuggingFace(apiKey string) *Provider {
	return NewProvider("huggingface", apiKey, HuggingFaceBaseURL, "")
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Apply(llm.Options{Model: p.model, MaxTokens: 500}, options...)
	if opts.Model == "" {
		return "", fmt.Errorf("%s: no model specified", p.name)
	}

	temperature := opts.Temperature
	jsonData, err := json.Marshal(chatRequest{
		Model:       opts.Model,
		Messages:    history,
		MaxTokens:   opts.MaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))
	}
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusRequestEntityTooLarge ||
		(resp.StatusCode == http.StatusBadRequest && llm.IsContextOverflow(string(bodyBytes))) {
		return "", fmt.Errorf("%s: %w", p.name, llm.ErrPromptTooLarge)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s api error (status %d): %s", p.name, resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if chatResp.Error != nil {
		if llm.IsContextOverflow(chatResp.Error.Message) {
			return "", fmt.Errorf("%s: %w", p.name, llm.ErrPromptTooLarge)
		}
		return "", fmt.Errorf("%s api returned error: %s", p.name, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty choices from %s api", p.name)
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

// WithBaseURL overrides the endpoint. Used by tests.
func (p *Provider) WithBaseURL(url string) *Provider {
	p.baseURL = url
	return p
}
