package blogger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RotationState is persisted to scheduler_state.json.
type RotationState struct {
	LastIndex int    `json:"last_index"`
	LastRun   string `json:"last_run"`
}

// Rotation round-robins over the category list, remembering its position
// across restarts.
type Rotation struct {
	mu         sync.Mutex
	path       string
	categories []string
	clock      Clock
}

func NewRotation(path string, categories []string, clock Clock) *Rotation {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Rotation{path: path, categories: categories, clock: clock}
}

func (r *Rotation) load() RotationState {
	st := RotationState{LastIndex: -1}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return st
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return RotationState{LastIndex: -1}
	}
	return st
}

// Peek returns the category the next call to Next will yield.
func (r *Rotation) Peek() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.categories) == 0 {
		return "", errors.New("rotation: no categories configured")
	}
	return r.categories[r.nextIndex(r.load())], nil
}

// Next advances the rotation and saves the new position.
func (r *Rotation) Next() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.categories) == 0 {
		return "", errors.New("rotation: no categories configured")
	}

	idx := r.nextIndex(r.load())
	st := RotationState{LastIndex: idx, LastRun: r.clock.Now().Format(time.RFC3339)}
	if err := r.save(st); err != nil {
		return "", err
	}
	return r.categories[idx], nil
}

func (r *Rotation) nextIndex(st RotationState) int {
	if st.LastIndex < 0 {
		return 0
	}
	return (st.LastIndex + 1) % len(r.categories)
}

func (r *Rotation) save(st RotationState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("rotation state dir: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write rotation state: %w", err)
	}
	return os.Rename(tmp, r.path)
}

// PendingSlot holds at most one accepted draft between generate and publish.
type PendingSlot struct {
	mu    sync.Mutex
	draft *Draft
}

// Put replaces whatever was pending.
func (s *PendingSlot) Put(d *Draft) {
	s.mu.Lock()
	s.draft = d
	s.mu.Unlock()
}

// Take empties the slot.
func (s *PendingSlot) Take() *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	s.draft = nil
	return d
}

func (s *PendingSlot) Peek() *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}
