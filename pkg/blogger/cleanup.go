package blogger

import (
	"context"
	"time"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/repository/contract"
	"portfolio-be/pkg/vectorstore"
)

const DefaultRetention = 60 * 24 * time.Hour

// Cleaner removes blogs older than the retention window from disk and from
// the blogs collection.
type Cleaner struct {
	blogs      contract.BlogRepository
	collection *vectorstore.Collection
	retention  time.Duration
	clock      Clock
	logger     logger.ILogger
}

func NewCleaner(blogs contract.BlogRepository, collection *vectorstore.Collection, retention time.Duration, clock Clock, log logger.ILogger) *Cleaner {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Cleaner{blogs: blogs, collection: collection, retention: retention, clock: clock, logger: log}
}

// Run returns the deleted filenames. A file goes only when both its mtime
// and its created_at are past the cutoff; unreadable files are kept.
func (c *Cleaner) Run(ctx context.Context) ([]string, error) {
	files, err := c.blogs.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := c.clock.Now().Add(-c.retention)
	deleted := []string{}

	for _, f := range files {
		if !f.ModTime.Before(cutoff) {
			continue
		}
		blog, err := c.blogs.FindByID(ctx, f.Id)
		if err != nil || blog == nil {
			c.logger.Warn(logger.ModuleBlogger, "Skipping unreadable blog during cleanup", map[string]interface{}{
				"file": f.Name,
			})
			continue
		}
		created, ok := blog.CreatedTime()
		if !ok || !created.Before(cutoff) {
			continue
		}

		removed, err := c.blogs.Delete(ctx, f.Id)
		if err != nil {
			c.logger.Error(logger.ModuleBlogger, "Failed to delete expired blog", map[string]interface{}{
				"file":  f.Name,
				"error": err.Error(),
			})
			continue
		}
		if !removed {
			continue
		}
		if c.collection != nil {
			if err := c.collection.Delete(ctx, []string{f.Id}, nil); err != nil {
				c.logger.Warn(logger.ModuleBlogger, "Failed to delete blog vector", map[string]interface{}{
					"id":    f.Id,
					"error": err.Error(),
				})
			}
		}
		deleted = append(deleted, f.Name)
	}

	c.logger.Info(logger.ModuleBlogger, "Cleanup finished", map[string]interface{}{
		"scanned": len(files),
		"deleted": len(deleted),
	})
	return deleted, nil
}
