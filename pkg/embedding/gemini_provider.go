package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiEmbeddingModel = "text-embedding-004"

// GeminiProvider is the remote query-time embedder.
type GeminiProvider struct {
	client *genai.Client
	model  string
	dim    int
}

func NewGeminiProvider(client *genai.Client, model string, dim int) *GeminiProvider {
	if model == "" {
		model = defaultGeminiEmbeddingModel
	}
	return &GeminiProvider{client: client, model: model, dim: dim}
}

func (p *GeminiProvider) Name() string   { return "gemini:" + p.model }
func (p *GeminiProvider) Dimension() int { return p.dim }

func (p *GeminiProvider) Generate(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if p.client == nil {
		return nil, fmt.Errorf("gemini client not configured")
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	dim := int32(p.dim)
	resp, err := p.client.Models.EmbedContent(ctx, p.model, contents, &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embed content: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		out[i] = normalizeVector(e.Values)
	}
	return out, nil
}
