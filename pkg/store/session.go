package store

import (
	"time"

	"portfolio-be/pkg/llm"
)

// MaxSessionMessages bounds conversation memory to the last two turns.
const MaxSessionMessages = 4

// Session is the process-local conversation memory for one session id.
type Session struct {
	ID        string        `json:"id"`
	Messages  []llm.Message `json:"messages"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// History returns a copy of the stored messages.
func (s *Session) History() []llm.Message {
	if s == nil {
		return nil
	}
	out := make([]llm.Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}

// Trim keeps only the newest max messages.
func (s *Session) Trim(max int) {
	if max > 0 && len(s.Messages) > max {
		s.Messages = append([]llm.Message(nil), s.Messages[len(s.Messages)-max:]...)
	}
}
