package rag

import (
	"context"
	"fmt"
	"strings"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/embedding"
	"portfolio-be/pkg/vectorstore"
)

// DefaultBudget is the total character budget for the knowledge block.
const DefaultBudget = 12000

// Result is the outcome of one retrieval.
type Result struct {
	Intent  Intent
	Route   Route
	Context string
	Blocks  int
}

// Retriever is the only component that reads vector collections on the
// chat path.
type Retriever struct {
	vectors    *vectorstore.Client
	embedder   embedding.Embedder
	summarizer Summarizer
	logger     logger.ILogger
}

// NewRetriever uses embedder for query vectors. summarizer may be nil.
func NewRetriever(vectors *vectorstore.Client, embedder embedding.Embedder, summarizer Summarizer, log logger.ILogger) *Retriever {
	return &Retriever{vectors: vectors, embedder: embedder, summarizer: summarizer, logger: log}
}

// BuildContext classifies the query, queries the routed collection and
// joins the compressed documents. Retrieval errors yield an empty context.
func (r *Retriever) BuildContext(ctx context.Context, query string) Result {
	intent := ClassifyIntent(query)
	route := RouteFor(intent)
	res := Result{Intent: intent, Route: route}

	col := r.vectors.Lookup(route.Collection)
	vectors := r.embedder.Embed(ctx, []string{route.QueryPrefix + query})
	matches, err := col.Query(ctx, nil, vectors, route.N, nil)
	if err != nil {
		r.logger.Warn(logger.ModuleRAG, "Retrieval failed, continuing without context", map[string]interface{}{
			"intent":     string(intent),
			"collection": route.Collection,
			"error":      err.Error(),
		})
		return res
	}

	var blocks []string
	for _, group := range matches {
		for _, m := range group {
			if strings.TrimSpace(m.Document) == "" {
				continue
			}
			blocks = append(blocks, fmt.Sprintf("[Source: %s]\n%s", route.Collection, Compress(r.summarizer, m.Document)))
		}
	}
	res.Blocks = len(blocks)
	res.Context = strings.Join(blocks, "\n\n")

	r.logger.Debug(logger.ModuleRAG, "Context assembled", map[string]interface{}{
		"intent":     string(intent),
		"collection": route.Collection,
		"blocks":     len(blocks),
		"chars":      len(res.Context),
	})
	return res
}

// TruncateToBudget cuts text to budget characters and marks the cut.
func TruncateToBudget(text string, budget int) string {
	if budget <= 0 || len(text) <= budget {
		return text
	}
	return logger.Truncate(text, budget)
}
