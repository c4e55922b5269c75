package memory

import (
	"sync"
	"time"

	"portfolio-be/pkg/llm"
	"portfolio-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps conversation memory in process. Idle sessions
// expire after an hour so abandoned ids do not accumulate.
type SessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

// Get returns a snapshot of the session.
func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	s := x.(*store.Session)
	return &store.Session{ID: s.ID, Messages: s.History(), UpdatedAt: s.UpdatedAt}, true
}

// Append adds messages in call order and trims to max.
func (r *SessionRepository) Append(sessionID string, max int, messages ...llm.Message) *store.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s *store.Session
	if x, found := r.cache.Get(sessionID); found {
		s = x.(*store.Session)
	} else {
		s = &store.Session{ID: sessionID}
	}
	s.Messages = append(s.Messages, messages...)
	s.Trim(max)
	s.UpdatedAt = time.Now()
	r.cache.Set(sessionID, s, cache.DefaultExpiration)

	return &store.Session{ID: s.ID, Messages: s.History(), UpdatedAt: s.UpdatedAt}
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
