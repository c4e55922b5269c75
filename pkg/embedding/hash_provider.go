package embedding

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"
)

var hashTokenPattern = regexp.MustCompile(`\p{L}+|\p{N}+`)

// HashProvider is a deterministic local embedder using signed feature
// hashing of lowercased word unigrams and bigrams. It needs no model files,
// so sync jobs and tests can run fully offline.
type HashProvider struct {
	dim int
}

func NewHashProvider(dim int) *HashProvider {
	if dim <= 0 {
		dim = 384
	}
	return &HashProvider{dim: dim}
}

func (p *HashProvider) Name() string   { return "hash" }
func (p *HashProvider) Dimension() int { return p.dim }

func (p *HashProvider) Generate(_ context.Context, texts []string, _ string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = p.embed(text)
	}
	return out, nil
}

func (p *HashProvider) embed(text string) []float32 {
	vec := make([]float32, p.dim)
	tokens := hashTokenPattern.FindAllString(strings.ToLower(text), -1)
	for i, tok := range tokens {
		p.add(vec, tok, 1)
		if i > 0 {
			p.add(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}
	return normalizeVector(vec)
}

func (p *HashProvider) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(p.dim))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}
