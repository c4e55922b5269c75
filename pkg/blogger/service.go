package blogger

import (
	"context"
	"fmt"
	"strings"

	"portfolio-be/internal/entity"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/events"
	"portfolio-be/pkg/metrics"
)

const (
	JobCleanup  = "cleanup"
	JobGenerate = "generate"
	JobPublish  = "publish"
)

// DraftPipeline is satisfied by *Pipeline.
type DraftPipeline interface {
	Run(ctx context.Context, category, focus string) (*Draft, error)
}

// Service is the entry point for the scheduler, the admin API and the CLI.
type Service struct {
	pipeline   DraftPipeline
	publisher  *Publisher
	cleaner    *Cleaner
	rotation   *Rotation
	pending    *PendingSlot
	categories []string
	notifier   events.Notifier
	logger     logger.ILogger
}

func NewService(
	pipeline DraftPipeline,
	publisher *Publisher,
	cleaner *Cleaner,
	rotation *Rotation,
	categories []string,
	notifier events.Notifier,
	log logger.ILogger,
) *Service {
	if len(categories) == 0 {
		categories = entity.DefaultBlogCategories
	}
	return &Service{
		pipeline:   pipeline,
		publisher:  publisher,
		cleaner:    cleaner,
		rotation:   rotation,
		pending:    &PendingSlot{},
		categories: categories,
		notifier:   notifier,
		logger:     log,
	}
}

func (s *Service) Pending() *PendingSlot { return s.pending }

func (s *Service) Categories() []string { return s.categories }

// RunCleanup is the 06:00 job.
func (s *Service) RunCleanup(ctx context.Context) ([]string, error) {
	deleted, err := s.cleaner.Run(ctx)
	if err != nil {
		s.fail(ctx, JobCleanup, "", err)
		return nil, err
	}
	metrics.BloggerRuns.WithLabelValues(JobCleanup, "ok").Inc()
	if len(deleted) > 0 {
		s.notify(ctx, events.TypeBlogCleanup, map[string]interface{}{"deleted": deleted})
	}
	return deleted, nil
}

// RunGenerate is the 07:00 job. The accepted draft waits in the pending slot.
func (s *Service) RunGenerate(ctx context.Context) (*Draft, error) {
	category, err := s.rotation.Next()
	if err != nil {
		s.fail(ctx, JobGenerate, "", err)
		return nil, err
	}

	s.logger.Info(logger.ModuleBlogger, "Generating scheduled draft", map[string]interface{}{"category": category})
	draft, err := s.pipeline.Run(ctx, category, "")
	if err != nil {
		s.fail(ctx, JobGenerate, category, err)
		return nil, err
	}

	s.pending.Put(draft)
	metrics.BloggerRuns.WithLabelValues(JobGenerate, "ok").Inc()
	return draft, nil
}

// RunPublish is the 10:00 job. An empty slot is logged and reported, not
// treated as a failure of the scheduler.
func (s *Service) RunPublish(ctx context.Context) (*entity.BlogArtifact, error) {
	draft := s.pending.Take()
	if draft == nil {
		s.logger.Warn(logger.ModuleBlogger, "No pending draft to publish", nil)
		metrics.BloggerRuns.WithLabelValues(JobPublish, "skipped").Inc()
		s.notify(ctx, events.TypePublishNoDraft, nil)
		return nil, ErrNoPending
	}
	return s.publish(ctx, draft)
}

// GenerateNow runs the whole pipeline and publishes immediately. topic may
// name a category, be free text focusing the next category, or be empty.
func (s *Service) GenerateNow(ctx context.Context, topic string) (*entity.BlogArtifact, error) {
	category, focus := s.resolveTopic(topic)
	if category == "" {
		peeked, err := s.rotation.Peek()
		if err != nil {
			return nil, err
		}
		category = peeked
	}

	draft, err := s.pipeline.Run(ctx, category, focus)
	if err != nil {
		s.fail(ctx, JobGenerate, category, err)
		return nil, err
	}
	return s.publish(ctx, draft)
}

func (s *Service) resolveTopic(topic string) (category, focus string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ""
	}
	for _, c := range s.categories {
		if strings.EqualFold(c, topic) {
			return c, ""
		}
	}
	return "", topic
}

func (s *Service) publish(ctx context.Context, draft *Draft) (*entity.BlogArtifact, error) {
	blog, url, err := s.publisher.Publish(ctx, draft)
	if err != nil {
		s.fail(ctx, JobPublish, draft.Category, err)
		return nil, err
	}
	metrics.BloggerRuns.WithLabelValues(JobPublish, "ok").Inc()
	s.notify(ctx, events.TypeBlogPublished, map[string]interface{}{
		"id":       blog.Id,
		"title":    blog.Title,
		"category": blog.Category,
		"url":      url,
		"score":    draft.Score,
	})
	return blog, nil
}

func (s *Service) fail(ctx context.Context, job, category string, err error) {
	class := events.ClassifyError(err)
	metrics.BloggerRuns.WithLabelValues(job, "failed").Inc()
	s.logger.Error(logger.ModuleBlogger, fmt.Sprintf("Blogger %s job failed", job), map[string]interface{}{
		"category": category,
		"class":    class,
		"error":    err.Error(),
	})
	s.notify(ctx, events.TypeBlogJobFailed, map[string]interface{}{
		"job":      job,
		"category": category,
		"class":    class,
		"error":    err.Error(),
	})
}

func (s *Service) notify(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, events.New(eventType, data))
	}
}
