package blogger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/llm"
)

const (
	writerMaxTokens   = 6000
	writerTemperature = 0.7
	writerTimeout     = 120 * time.Second
)

// DraftWriter produces and revises drafts.
type DraftWriter interface {
	Write(ctx context.Context, research *Research) (*Draft, error)
	Revise(ctx context.Context, previous *Draft, requiredEdits []string) (*Draft, error)
}

// LLMWriter tries each "provider:model" tier in order until one returns a
// long enough article.
type LLMWriter struct {
	gateway   Generator
	models    []string
	template  string
	checklist string
	clock     Clock
	logger    logger.ILogger
}

func NewLLMWriter(gateway Generator, models []string, template, checklist string, clock Clock, log logger.ILogger) *LLMWriter {
	if template == "" {
		template = DefaultTemplate
	}
	if checklist == "" {
		checklist = DefaultFeedback
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &LLMWriter{
		gateway:   gateway,
		models:    models,
		template:  template,
		checklist: checklist,
		clock:     clock,
		logger:    log,
	}
}

const writerSystemPrompt = `You are a senior technology writer for an engineering blog.
Write original, opinionated long-form articles in GitHub-flavored markdown.
Start with a single H1 title. Never mention that you are an AI.`

func (w *LLMWriter) Write(ctx context.Context, research *Research) (*Draft, error) {
	researchJSON, _ := json.MarshalIndent(research, "", "  ")

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Write a blog post of about 2,500 words for the category %q.\n\n", research.Category)
	prompt.WriteString("## Research\n```json\n")
	prompt.Write(researchJSON)
	prompt.WriteString("\n```\n\n## Structure template\n")
	prompt.WriteString(w.template)
	prompt.WriteString("\n\n## Style checklist\n")
	prompt.WriteString(w.checklist)
	prompt.WriteString("\n\nReturn only the markdown article.")

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: writerSystemPrompt},
		{Role: llm.RoleUser, Content: prompt.String()},
	}
	return w.generate(ctx, messages, research.Category, research)
}

func (w *LLMWriter) Revise(ctx context.Context, previous *Draft, requiredEdits []string) (*Draft, error) {
	var prompt strings.Builder
	prompt.WriteString("Revise the article below. Apply every required edit, keep what already works, ")
	prompt.WriteString("and keep the length around 2,500 words.\n\n## Required edits\n")
	for _, e := range requiredEdits {
		fmt.Fprintf(&prompt, "- %s\n", e)
	}
	prompt.WriteString("\n## Style checklist\n")
	prompt.WriteString(w.checklist)
	prompt.WriteString("\n\n## Current article\n")
	prompt.WriteString(previous.Content)
	prompt.WriteString("\n\nReturn only the revised markdown article.")

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: writerSystemPrompt},
		{Role: llm.RoleUser, Content: prompt.String()},
	}
	draft, err := w.generate(ctx, messages, previous.Category, previous.Research)
	if err != nil {
		return nil, err
	}
	draft.Status = StatusRevised
	return draft, nil
}

func (w *LLMWriter) generate(ctx context.Context, messages []llm.Message, category string, research *Research) (*Draft, error) {
	for _, model := range w.models {
		out, err := w.gateway.Call(ctx, llm.Request{
			Model:       model,
			Messages:    messages,
			MaxTokens:   writerMaxTokens,
			Temperature: writerTemperature,
			Timeout:     writerTimeout,
		})
		if err != nil {
			w.logger.Warn(logger.ModuleBlogger, "Writer tier failed", map[string]interface{}{
				"model": model,
				"error": err.Error(),
			})
			continue
		}

		content := stripFence(out)
		if len(content) < MinDraftChars {
			w.logger.Warn(logger.ModuleBlogger, "Writer tier returned a short draft", map[string]interface{}{
				"model": model,
				"chars": len(content),
			})
			continue
		}

		return &Draft{
			Title:       ExtractTitle(content),
			Content:     content,
			Category:    category,
			Research:    research,
			GeneratedAt: w.clock.Now(),
			ModelUsed:   model,
			Status:      StatusDraft,
		}, nil
	}
	return nil, ErrNoWriterOutput
}
