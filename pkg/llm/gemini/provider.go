// Package gemini adapts Google's Gemini models. The API has no system role
// inside contents, so system text is folded into the first user turn.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"portfolio-be/pkg/llm"

	"google.golang.org/genai"
)

type Provider struct {
	client *genai.Client
	model  string
}

var _ llm.LLMProvider = (*Provider)(nil)

// NewClient builds a Gemini API client for the given key.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client, nil
}

func NewProvider(client *genai.Client, model string) *Provider {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Provider{client: client, model: model}
}

// ToContents converts neutral messages into Gemini contents.
func ToContents(messages []llm.Message) []*genai.Content {
	merged := llm.MergeSystemIntoFirstUser(messages)
	contents := make([]*genai.Content, 0, len(merged))
	for _, m := range merged {
		role := genai.RoleUser
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.Role(role)))
	}
	return contents
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("gemini client not configured")
	}
	opts := llm.Apply(llm.Options{Model: p.model, MaxTokens: 500, Temperature: 0.6}, options...)

	temperature := float32(opts.Temperature)
	resp, err := p.client.Models.GenerateContent(ctx, opts.Model, ToContents(history), &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(opts.MaxTokens),
	})
	if err != nil {
		if llm.IsContextOverflow(err.Error()) {
			return "", fmt.Errorf("gemini: %w", llm.ErrPromptTooLarge)
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}
