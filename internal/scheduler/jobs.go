package scheduler

import (
	"context"

	"portfolio-be/pkg/blogger"
)

const (
	CleanupCron  = "0 6 * * *"
	GenerateCron = "0 7 * * *"
	PublishCron  = "0 10 * * *"
)

// BloggerJobs returns the three daily auto-blogger jobs.
func BloggerJobs(svc *blogger.Service) []JobSpec {
	return []JobSpec{
		{
			Name: "blog_cleanup",
			Cron: CleanupCron,
			Run: func(ctx context.Context) error {
				_, err := svc.RunCleanup(ctx)
				return err
			},
		},
		{
			Name: "blog_generate",
			Cron: GenerateCron,
			Run: func(ctx context.Context) error {
				_, err := svc.RunGenerate(ctx)
				return err
			},
		},
		{
			Name: "blog_publish",
			Cron: PublishCron,
			Run: func(ctx context.Context) error {
				_, err := svc.RunPublish(ctx)
				return err
			},
		},
	}
}

// RegisterAll registers every spec, stopping at the first invalid one.
func (s *Scheduler) RegisterAll(specs []JobSpec) error {
	for _, spec := range specs {
		if err := s.Register(spec); err != nil {
			return err
		}
	}
	return nil
}
