package vectorstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"portfolio-be/pkg/embedding"
)

const defaultQueryTimeout = 10 * time.Second

// Collection binds a store namespace to the embedder that produced its vectors.
type Collection struct {
	name    string
	store   Store
	timeout time.Duration

	mu       sync.RWMutex
	embedder embedding.Embedder
}

func (c *Collection) Name() string { return c.name }

func (c *Collection) documentEmbedder() embedding.Embedder {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.embedder
}

// bind sets the embedder once. A bound embedder is never replaced.
func (c *Collection) bind(embedder embedding.Embedder) {
	if embedder == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.embedder == nil {
		c.embedder = embedder
	}
}

// Upsert writes entries by id. When embeddings is nil the documents are
// embedded with the collection's embedder.
func (c *Collection) Upsert(ctx context.Context, ids, documents []string, metadatas []map[string]interface{}, embeddings [][]float32) error {
	if len(ids) != len(documents) || (metadatas != nil && len(metadatas) != len(ids)) {
		return ErrLengthMismatch
	}
	if len(ids) == 0 {
		return nil
	}
	if embeddings == nil {
		embedder := c.documentEmbedder()
		if embedder == nil {
			return ErrNoEmbedder
		}
		embeddings = embedder.Embed(ctx, documents)
	}
	if len(embeddings) != len(ids) {
		return fmt.Errorf("vectorstore: %d embeddings for %d ids", len(embeddings), len(ids))
	}

	entries := make([]Entry, len(ids))
	for i := range ids {
		var meta map[string]interface{}
		if metadatas != nil {
			meta = metadatas[i]
		}
		entries[i] = Entry{ID: ids[i], Document: documents[i], Metadata: meta, Embedding: embeddings[i]}
	}
	return c.store.Upsert(ctx, c.name, entries)
}

// Query runs one similarity search per input. Pass either texts or embeddings.
func (c *Collection) Query(ctx context.Context, texts []string, embeddings [][]float32, n int, where Where) ([][]Match, error) {
	if embeddings == nil {
		embedder := c.documentEmbedder()
		if embedder == nil {
			return nil, ErrNoEmbedder
		}
		embeddings = embedder.Embed(ctx, texts)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out := make([][]Match, 0, len(embeddings))
	for _, emb := range embeddings {
		matches, err := c.store.Query(ctx, c.name, emb, n, where)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", c.name, err)
		}
		out = append(out, matches)
	}
	return out, nil
}

func (c *Collection) Get(ctx context.Context, ids []string, where Where) ([]Entry, error) {
	return c.store.Get(ctx, c.name, ids, where)
}

func (c *Collection) Delete(ctx context.Context, ids []string, where Where) error {
	return c.store.Delete(ctx, c.name, ids, where)
}

func (c *Collection) Count(ctx context.Context) (int64, error) {
	return c.store.Count(ctx, c.name)
}

// Client hands out collections over a single store.
type Client struct {
	store Store

	mu          sync.Mutex
	collections map[string]*Collection
}

func NewClient(store Store) *Client {
	return &Client{store: store, collections: make(map[string]*Collection)}
}

// GetOrCreate returns the named collection. The first non-nil embedder
// becomes the collection's document embedder for good; later embedders are
// ignored so every stored vector shares one embedding space.
func (cl *Client) GetOrCreate(name string, embedder embedding.Embedder) *Collection {
	name = CanonicalName(name)

	cl.mu.Lock()
	c, ok := cl.collections[name]
	if !ok {
		c = &Collection{name: name, store: cl.store, timeout: defaultQueryTimeout}
		cl.collections[name] = c
	}
	cl.mu.Unlock()

	c.bind(embedder)
	return c
}

// Lookup returns the named collection without binding an embedder. Readers
// that embed their own query vectors use it.
func (cl *Client) Lookup(name string) *Collection {
	return cl.GetOrCreate(name, nil)
}

// Reset drops every entry of a collection. Sync jobs call it before a rebuild.
func (cl *Client) Reset(ctx context.Context, name string) error {
	return cl.store.DeleteCollection(ctx, CanonicalName(name))
}

func (cl *Client) Store() Store { return cl.store }
