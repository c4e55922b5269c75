package blogger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/llm"
	"portfolio-be/pkg/metrics"
)

const (
	criticMaxTokens   = 800
	criticTemperature = 0.1
	criticTimeout     = 60 * time.Second
	criticMaxChars    = 24000
)

var errNoJSON = errors.New("critic reply contains no JSON object")

// Critique is the critic's verdict on one draft.
type Critique struct {
	Score               int            `json:"score"`
	Passed              bool           `json:"passed"`
	Feedback            map[string]int `json:"feedback"`
	KnifeSentencesFound []string       `json:"knife_sentences_found"`
	RequiredEdits       []string       `json:"required_edits"`
	Error               string         `json:"error,omitempty"`
}

// Reviewer scores drafts. It never fails; broken output is a score of 0.
type Reviewer interface {
	Evaluate(ctx context.Context, draft *Draft) Critique
}

// Passes reports whether score clears the hard bar.
func Passes(score int) bool { return score >= PassScore }

type LLMCritic struct {
	gateway   Generator
	model     string
	checklist string
	logger    logger.ILogger
}

func NewLLMCritic(gateway Generator, model, checklist string, log logger.ILogger) *LLMCritic {
	if checklist == "" {
		checklist = DefaultFeedback
	}
	return &LLMCritic{gateway: gateway, model: model, checklist: checklist, logger: log}
}

const criticSystemPrompt = `You are a strict blog editor. You reply with one JSON object and nothing else.`

func (c *LLMCritic) Evaluate(ctx context.Context, draft *Draft) Critique {
	var prompt strings.Builder
	prompt.WriteString("Score the article against the checklist. Reply with strict JSON:\n")
	prompt.WriteString(`{"score": 0-100, "passed": bool, "feedback": {"hook": 0-10, "clarity": 0-10, "depth": 0-10, "specificity": 0-10, "style": 0-10}, "knife_sentences_found": [string], "required_edits": [string]}`)
	prompt.WriteString("\n\n## Checklist\n")
	prompt.WriteString(c.checklist)
	prompt.WriteString("\n\n## Article\n")
	prompt.WriteString(logger.Truncate(draft.Content, criticMaxChars))

	out, err := c.gateway.Call(ctx, llm.Request{
		Model: c.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: criticSystemPrompt},
			{Role: llm.RoleUser, Content: prompt.String()},
		},
		MaxTokens:   criticMaxTokens,
		Temperature: criticTemperature,
		Timeout:     criticTimeout,
	})
	if err != nil {
		c.logger.Warn(logger.ModuleBlogger, "Critic call failed", map[string]interface{}{"error": err.Error()})
		return failedCritique(err)
	}

	critique, err := ParseCritique(out)
	if err != nil {
		c.logger.Warn(logger.ModuleBlogger, "Critic reply was not valid JSON", map[string]interface{}{
			"error": err.Error(),
			"reply": out,
		})
		return critique
	}
	metrics.CriticScores.Observe(float64(critique.Score))
	return critique
}

type rawCritique struct {
	Score               float64            `json:"score"`
	Feedback            map[string]float64 `json:"feedback"`
	KnifeSentencesFound []string           `json:"knife_sentences_found"`
	RequiredEdits       []string           `json:"required_edits"`
}

// ParseCritique reads the first JSON object in reply. The model's own
// "passed" field is ignored; it is recomputed from the clamped score.
func ParseCritique(reply string) (Critique, error) {
	start := strings.IndexByte(reply, '{')
	end := strings.LastIndexByte(reply, '}')
	if start < 0 || end <= start {
		return failedCritique(errNoJSON), errNoJSON
	}

	var raw rawCritique
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		err = fmt.Errorf("decode critique: %w", err)
		return failedCritique(err), err
	}

	score := clamp(int(math.Round(raw.Score)), 0, 100)
	feedback := make(map[string]int, len(raw.Feedback))
	for k, v := range raw.Feedback {
		feedback[k] = clamp(int(math.Round(v)), 0, 10)
	}
	return Critique{
		Score:               score,
		Passed:              Passes(score),
		Feedback:            feedback,
		KnifeSentencesFound: nonNil(raw.KnifeSentencesFound),
		RequiredEdits:       nonNil(raw.RequiredEdits),
	}, nil
}

func failedCritique(err error) Critique {
	return Critique{
		Score:               0,
		Passed:              false,
		Feedback:            map[string]int{},
		KnifeSentencesFound: []string{},
		RequiredEdits:       []string{},
		Error:               err.Error(),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
