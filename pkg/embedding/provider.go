package embedding

import (
	"context"
	"math"
)

// Task types understood by remote providers. Local providers ignore them.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// EmbeddingProvider is a raw backend. It may fail; callers that must never
// fail wrap it in a SafeEmbedder.
type EmbeddingProvider interface {
	Generate(ctx context.Context, texts []string, taskType string) ([][]float32, error)
	Dimension() int
	Name() string
}

// Embedder maps texts to fixed-dimension vectors and never returns an error.
type Embedder interface {
	Embed(ctx context.Context, texts []string) [][]float32
	Dimension() int
}

// normalizeVector scales vec to unit length. Cosine distance in pgvector
// assumes magnitude 1.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}

// CosineSimilarity returns 0 when either vector has zero magnitude.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
