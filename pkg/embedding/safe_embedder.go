package embedding

import (
	"context"
	"time"

	"portfolio-be/internal/pkg/logger"
)

const defaultEmbedTimeout = 10 * time.Second

// SafeEmbedder degrades to zero vectors when the provider fails so that
// ingestion and retrieval keep going with poor results instead of errors.
type SafeEmbedder struct {
	provider EmbeddingProvider
	taskType string
	timeout  time.Duration
	logger   logger.ILogger
}

func NewSafeEmbedder(provider EmbeddingProvider, taskType string, log logger.ILogger) *SafeEmbedder {
	return &SafeEmbedder{
		provider: provider,
		taskType: taskType,
		timeout:  defaultEmbedTimeout,
		logger:   log,
	}
}

func (e *SafeEmbedder) Dimension() int {
	return e.provider.Dimension()
}

func (e *SafeEmbedder) Embed(ctx context.Context, texts []string) [][]float32 {
	if len(texts) == 0 {
		return [][]float32{}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vectors, err := e.provider.Generate(ctx, texts, e.taskType)
	if err == nil && len(vectors) == len(texts) {
		return vectors
	}

	details := map[string]interface{}{
		"provider": e.provider.Name(),
		"inputs":   len(texts),
	}
	if err != nil {
		details["error"] = err.Error()
	} else {
		details["returned"] = len(vectors)
	}
	e.logger.Error(logger.ModuleEmbed, "Embedding failed, returning zero vectors", details)

	return ZeroVectors(len(texts), e.provider.Dimension())
}

// ZeroVectors returns n zero vectors of length dim.
func ZeroVectors(n, dim int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, dim)
	}
	return out
}
