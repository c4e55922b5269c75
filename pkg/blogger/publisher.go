package blogger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio-be/internal/entity"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/repository/contract"
	"portfolio-be/pkg/ingest"
	"portfolio-be/pkg/rag"
	"portfolio-be/pkg/vectorstore"
)

const maxTags = 5

// Publisher writes accepted drafts to disk and to the blogs collection.
type Publisher struct {
	blogs      contract.BlogRepository
	collection *vectorstore.Collection
	siteDomain string
	clock      Clock
	logger     logger.ILogger
}

// NewPublisher takes the blogs collection already bound to the document
// embedder; Upsert embeds the content.
func NewPublisher(blogs contract.BlogRepository, collection *vectorstore.Collection, siteDomain string, clock Clock, log logger.ILogger) *Publisher {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Publisher{blogs: blogs, collection: collection, siteDomain: siteDomain, clock: clock, logger: log}
}

// BlogID builds "<category>_<unix>" with path separators and spaces
// replaced so the id is a safe file stem and URL segment.
func BlogID(category string, at time.Time) string {
	r := strings.NewReplacer("/", "-", " ", "-", "\\", "-")
	return fmt.Sprintf("%s_%d", r.Replace(category), at.Unix())
}

// Publish returns the stored artifact and its canonical URL.
func (p *Publisher) Publish(ctx context.Context, draft *Draft) (*entity.BlogArtifact, string, error) {
	now := p.clock.Now()
	title := draft.Title
	if title == "" {
		title = ExtractTitle(draft.Content)
	}

	blog := &entity.BlogArtifact{
		Id:        BlogID(draft.Category, now),
		Title:     title,
		Content:   draft.Content,
		Category:  draft.Category,
		Tags:      Tags(draft.Category, title),
		Summary:   Summarize(draft.Content),
		CreatedAt: now.UTC().Format(time.RFC3339),
		Sources:   []string{},
		Published: true,
	}
	if draft.Research != nil && len(draft.Research.Sources) > 0 {
		blog.Sources = draft.Research.Sources
	}

	if err := p.blogs.Save(ctx, blog); err != nil {
		return nil, "", fmt.Errorf("save blog: %w", err)
	}

	if p.collection != nil {
		err := p.collection.Upsert(ctx,
			[]string{blog.Id},
			[]string{blog.Content},
			[]map[string]interface{}{ingest.BlogMetadata(blog, p.siteDomain)},
			nil,
		)
		if err != nil {
			return blog, "", fmt.Errorf("index blog %s: %w", blog.Id, err)
		}
	}

	url := ingest.BlogURL(p.siteDomain, blog.Id)
	p.logger.Info(logger.ModuleBlogger, "Blog published", map[string]interface{}{
		"id":    blog.Id,
		"title": blog.Title,
		"url":   url,
	})
	return blog, url, nil
}

var tagStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true, "that": true,
	"this": true, "your": true, "what": true, "why": true, "how": true, "are": true,
	"into": true, "its": true, "you": true, "about": true, "will": true, "2024": true,
	"2025": true, "2026": true,
}

// Tags returns the category followed by distinct title keywords.
func Tags(category, title string) []string {
	tags := []string{category}
	seen := map[string]bool{strings.ToLower(category): true}
	for _, tok := range rag.Tokenize(title) {
		if len(tags) >= maxTags {
			break
		}
		if len(tok) < 3 || tagStopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		tags = append(tags, tok)
	}
	return tags
}
