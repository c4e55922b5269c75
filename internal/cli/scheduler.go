package cli

import (
	"fmt"
	"time"

	"portfolio-be/internal/config"
	"portfolio-be/internal/scheduler"

	"github.com/spf13/cobra"
)

var scheduleTable = []struct {
	name string
	cron string
}{
	{"blog_cleanup", scheduler.CleanupCron},
	{"blog_generate", scheduler.GenerateCron},
	{"blog_publish", scheduler.PublishCron},
}

func init() {
	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Inspect the blogger schedule",
	}
	next := &cobra.Command{
		Use:   "next",
		Short: "Print the next fire time of every job",
		Args:  cobra.NoArgs,
		RunE:  runSchedulerNext,
	}

	cmd.AddCommand(next)
	RootCmd.AddCommand(cmd)
}

func runSchedulerNext(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	loc, err := time.LoadLocation(cfg.Blogger.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Blogger.Timezone, err)
	}

	now := time.Now()
	out := make([]scheduler.JobStatus, 0, len(scheduleTable))
	for _, job := range scheduleTable {
		next, err := scheduler.NextRun(job.cron, loc, now)
		if err != nil {
			return fmt.Errorf("%s: %w", job.name, err)
		}
		out = append(out, scheduler.JobStatus{Name: job.name, Cron: job.cron, NextRun: next})
	}
	printJSON(out)
	return nil
}
