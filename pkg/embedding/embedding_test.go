package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingProvider struct{ dim int }

func (f failingProvider) Generate(context.Context, []string, string) ([][]float32, error) {
	return nil, errors.New("provider down")
}
func (f failingProvider) Dimension() int { return f.dim }
func (f failingProvider) Name() string   { return "failing" }

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestSafeEmbedder_ZeroVectorsOnError(t *testing.T) {
	e := NewSafeEmbedder(failingProvider{dim: 8}, TaskRetrievalQuery, logger.NewNopLogger())

	out := e.Embed(context.Background(), []string{"a", "b", "c"})
	require.Len(t, out, 3)
	for _, v := range out {
		assert.Len(t, v, 8)
		assert.Zero(t, magnitude(v))
	}
	assert.Equal(t, 8, e.Dimension())
	assert.Empty(t, e.Embed(context.Background(), nil))
}

func TestHashProvider_DeterministicAndNormalized(t *testing.T) {
	p := NewHashProvider(64)

	a, err := p.Generate(context.Background(), []string{"Terraform on AWS", "Terraform on AWS"}, "")
	require.NoError(t, err)
	assert.Equal(t, a[0], a[1])
	assert.InDelta(t, 1.0, magnitude(a[0]), 1e-5)

	b, _ := p.Generate(context.Background(), []string{"terraform aws", "baking sourdough bread"}, "")
	assert.Greater(t, CosineSimilarity(a[0], b[0]), CosineSimilarity(a[0], b[1]))

	empty, _ := p.Generate(context.Background(), []string{""}, "")
	assert.Zero(t, magnitude(empty[0]))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Zero(t, CosineSimilarity([]float32{1}, []float32{1, 1}))
}

func TestOllamaProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"embedding": []float64{3, 4}})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "nomic-embed-text", 2)
	out, err := p.Generate(context.Background(), []string{"x", "y"}, "")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.InDelta(t, 0.6, out[0][0], 1e-6)
	assert.InDelta(t, 0.8, out[0][1], 1e-6)

	wrongDim := NewOllamaProvider(srv.URL, "nomic-embed-text", 3)
	_, err = wrongDim.Generate(context.Background(), []string{"x"}, "")
	assert.Error(t, err)
}
