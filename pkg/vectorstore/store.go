// Package vectorstore holds the named embedding collections used for retrieval.
// Results are ordered by cosine similarity; ties keep insertion order.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	CollectionPortfolio = "portfolio"
	CollectionProjects  = "projects"
	CollectionBlogs     = "blogs"
)

var (
	ErrLengthMismatch = errors.New("vectorstore: ids, documents and metadatas must have equal length")
	ErrNoEmbedder     = errors.New("vectorstore: collection has no embedder and no embeddings were given")
)

// Entry is one stored record. Seq is assigned on first insert and never
// changes on overwrite, so it doubles as the similarity tie-breaker.
type Entry struct {
	ID        string
	Document  string
	Metadata  map[string]interface{}
	Embedding []float32
	Seq       int64
}

type Match struct {
	Entry
	Score float64
}

// Where is an equality filter on metadata keys. An empty Where matches all.
// Values compare by their printed form so JSON-decoded numbers still match.
type Where map[string]interface{}

func (w Where) Matches(metadata map[string]interface{}) bool {
	for k, v := range w {
		got, ok := metadata[k]
		if !ok || fmt.Sprint(got) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

// Store is the persistence backend behind every collection.
type Store interface {
	Upsert(ctx context.Context, collection string, entries []Entry) error
	Query(ctx context.Context, collection string, embedding []float32, n int, where Where) ([]Match, error)
	Get(ctx context.Context, collection string, ids []string, where Where) ([]Entry, error)
	Delete(ctx context.Context, collection string, ids []string, where Where) error
	Count(ctx context.Context, collection string) (int64, error)
	DeleteCollection(ctx context.Context, collection string) error
}

// CanonicalName maps legacy collection names to the ones used here.
func CanonicalName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "projects_data", "projects":
		return CollectionProjects
	case "blogs_data", "blogs":
		return CollectionBlogs
	case "portfolio", "portfolio_data":
		return CollectionPortfolio
	}
	return name
}
