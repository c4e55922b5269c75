// Package blogger researches, drafts, critiques and publishes blog posts,
// and sweeps old ones away.
package blogger

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"portfolio-be/pkg/llm"
)

const (
	MaxIterations = 3
	PassScore     = 92
	AcceptScore   = 90
	MinDraftChars = 1000
)

var (
	ErrCriticRejected = errors.New("critic rejected draft")
	ErrNoWriterOutput = errors.New("writer: every tier failed to produce a draft")
	ErrNoPending      = errors.New("no pending draft")
)

//go:embed templates/blog_template.md
var DefaultTemplate string

//go:embed templates/feedback.md
var DefaultFeedback string

// Generator is the LLM gateway as seen by the writer and critic.
type Generator interface {
	Call(ctx context.Context, req llm.Request) (string, error)
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Draft is a generated article before publication.
type Draft struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Research    *Research `json:"research_used,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	ModelUsed   string    `json:"model_used"`
	Status      string    `json:"status"`
	Score       int       `json:"score"`
	Iterations  int       `json:"iterations"`
}

const (
	StatusDraft    = "draft"
	StatusRevised  = "revised"
	StatusAccepted = "accepted"
)
