package blogger

import (
	"context"
	"fmt"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/events"
)

// Pipeline runs research, drafting and the critique/revise loop for one
// category. It does not publish.
type Pipeline struct {
	researcher Researcher
	writer     DraftWriter
	critic     Reviewer
	notifier   events.Notifier
	logger     logger.ILogger
}

func NewPipeline(researcher Researcher, writer DraftWriter, critic Reviewer, notifier events.Notifier, log logger.ILogger) *Pipeline {
	return &Pipeline{
		researcher: researcher,
		writer:     writer,
		critic:     critic,
		notifier:   notifier,
		logger:     log,
	}
}

// Run returns the accepted draft, or ErrCriticRejected when the best score
// after MaxIterations critiques is below AcceptScore.
func (p *Pipeline) Run(ctx context.Context, category, focus string) (*Draft, error) {
	research := p.researcher.Research(ctx, category, focus)

	draft, err := p.writer.Write(ctx, research)
	if err != nil {
		return nil, fmt.Errorf("write %s draft: %w", category, err)
	}

	var best *Draft
	for i := 1; i <= MaxIterations; i++ {
		critique := p.critic.Evaluate(ctx, draft)
		draft.Score = critique.Score
		draft.Iterations = i
		if best == nil || draft.Score > best.Score {
			best = draft
		}

		p.logger.Info(logger.ModuleBlogger, "Draft critiqued", map[string]interface{}{
			"category":  category,
			"iteration": i,
			"score":     critique.Score,
			"passed":    critique.Passed,
			"model":     draft.ModelUsed,
		})

		if critique.Passed {
			break
		}
		if i == MaxIterations {
			break
		}

		revised, err := p.writer.Revise(ctx, draft, editsFrom(critique))
		if err != nil {
			p.logger.Warn(logger.ModuleBlogger, "Revision failed, keeping best draft", map[string]interface{}{
				"category": category,
				"error":    err.Error(),
			})
			break
		}
		draft = revised
	}

	if best.Score < AcceptScore {
		p.notify(ctx, events.TypeBlogRejected, map[string]interface{}{
			"category":   category,
			"score":      best.Score,
			"iterations": best.Iterations,
		})
		return nil, fmt.Errorf("%w: %s scored %d", ErrCriticRejected, category, best.Score)
	}

	best.Status = StatusAccepted
	return best, nil
}

func (p *Pipeline) notify(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.notifier != nil {
		p.notifier.Notify(ctx, events.New(eventType, data))
	}
}

func editsFrom(c Critique) []string {
	if len(c.RequiredEdits) > 0 {
		return c.RequiredEdits
	}
	edits := make([]string, 0, len(c.KnifeSentencesFound)+1)
	for _, s := range c.KnifeSentencesFound {
		edits = append(edits, fmt.Sprintf("Rewrite or remove: %q", s))
	}
	if len(edits) == 0 {
		edits = append(edits, "Tighten the hook, add concrete examples and cut generic sentences.")
	}
	return edits
}
