package vectorstore

import (
	"context"
	"sort"
	"sync"

	"portfolio-be/pkg/embedding"
)

// MemoryStore keeps collections in process memory. It backs tests and runs
// without a Postgres DSN.
type MemoryStore struct {
	mu          sync.RWMutex
	seq         int64
	collections map[string]map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Entry)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Upsert(_ context.Context, collection string, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collection]
	if !ok {
		col = make(map[string]Entry)
		s.collections[collection] = col
	}
	for _, e := range entries {
		if existing, ok := col[e.ID]; ok {
			e.Seq = existing.Seq
		} else {
			s.seq++
			e.Seq = s.seq
		}
		e.Metadata = copyMetadata(e.Metadata)
		col[e.ID] = e
	}
	return nil
}

func (s *MemoryStore) Query(_ context.Context, collection string, emb []float32, n int, where Where) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []Match
	for _, e := range s.collections[collection] {
		if !where.Matches(e.Metadata) {
			continue
		}
		matches = append(matches, Match{Entry: e, Score: embedding.CosineSimilarity(emb, e.Embedding)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Seq < matches[j].Seq
	})
	if n > 0 && len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}

func (s *MemoryStore) Get(_ context.Context, collection string, ids []string, where Where) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col := s.collections[collection]
	var out []Entry
	if len(ids) > 0 {
		for _, id := range ids {
			if e, ok := col[id]; ok && where.Matches(e.Metadata) {
				out = append(out, e)
			}
		}
		return out, nil
	}
	for _, e := range col {
		if where.Matches(e.Metadata) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, collection string, ids []string, where Where) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collections[collection]
	if len(ids) > 0 {
		for _, id := range ids {
			if e, ok := col[id]; ok && where.Matches(e.Metadata) {
				delete(col, id)
			}
		}
		return nil
	}
	if len(where) == 0 {
		// Refuse the ambiguous "delete nothing specified" call; Reset exists for wipes.
		return nil
	}
	for id, e := range col {
		if where.Matches(e.Metadata) {
			delete(col, id)
		}
	}
	return nil
}

func (s *MemoryStore) Count(_ context.Context, collection string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.collections[collection])), nil
}

func (s *MemoryStore) DeleteCollection(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collection)
	return nil
}

func copyMetadata(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
