// Package scheduler runs the daily blogger jobs on cron triggers in a fixed
// timezone.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/blogger"
	"portfolio-be/pkg/events"
)

const (
	DefaultTimezone = "Asia/Kolkata"
	jobTimeout      = 45 * time.Minute
	lockTTL         = time.Hour
)

var errPanicked = errors.New("job panicked")

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// JobSpec is one named cron job. Cron uses the five standard fields and is
// evaluated in the scheduler's timezone.
type JobSpec struct {
	Name string
	Cron string
	Run  func(ctx context.Context) error
}

type JobStatus struct {
	Name    string    `json:"name"`
	Cron    string    `json:"cron"`
	NextRun time.Time `json:"next_run"`
	LastRun time.Time `json:"last_run,omitempty"`
	LastErr string    `json:"last_error,omitempty"`
}

type Scheduler struct {
	sched      gocron.Scheduler
	location   *time.Location
	locker     Locker
	notifier   events.Notifier
	logger     logger.ILogger
	instanceID string

	mu    sync.Mutex
	specs []JobSpec
	last  map[string]JobStatus
	now   func() time.Time
}

func New(timezone string, locker Locker, notifier events.Notifier, log logger.ILogger) (*Scheduler, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", timezone, err)
	}
	sched, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &Scheduler{
		sched:      sched,
		location:   loc,
		locker:     locker,
		notifier:   notifier,
		logger:     log,
		instanceID: uuid.New().String(),
		last:       make(map[string]JobStatus),
		now:        time.Now,
	}, nil
}

func (s *Scheduler) Register(spec JobSpec) error {
	if _, err := cronParser.Parse(spec.Cron); err != nil {
		return fmt.Errorf("invalid cron %q for %s: %w", spec.Cron, spec.Name, err)
	}

	cronWithTZ := fmt.Sprintf("CRON_TZ=%s %s", s.location.String(), spec.Cron)
	_, err := s.sched.NewJob(
		gocron.CronJob(cronWithTZ, false),
		gocron.NewTask(func() {
			s.Execute(context.Background(), spec)
		}),
		gocron.WithName(spec.Name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", spec.Name, err)
	}

	s.mu.Lock()
	s.specs = append(s.specs, spec)
	s.mu.Unlock()

	s.logger.Info(logger.ModuleScheduler, "Registered job", map[string]interface{}{
		"job":      spec.Name,
		"cron":     spec.Cron,
		"timezone": s.location.String(),
	})
	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
	s.logger.Info(logger.ModuleScheduler, "Scheduler started", map[string]interface{}{"jobs": len(s.specs)})
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

// Execute runs spec once under its lock. Errors and panics are logged and
// never escape.
func (s *Scheduler) Execute(ctx context.Context, spec JobSpec) {
	lockKey := "portfolio-scheduler-lock:" + spec.Name
	acquired, err := s.locker.Acquire(ctx, lockKey, s.instanceID, lockTTL)
	if err != nil {
		s.logger.Error(logger.ModuleScheduler, "Failed to acquire job lock", map[string]interface{}{
			"job":   spec.Name,
			"error": err.Error(),
		})
		return
	}
	if !acquired {
		s.logger.Warn(logger.ModuleScheduler, "Job already running, skipping", map[string]interface{}{"job": spec.Name})
		return
	}
	defer func() {
		if err := s.locker.Release(context.Background(), lockKey, s.instanceID); err != nil {
			s.logger.Warn(logger.ModuleScheduler, "Failed to release job lock", map[string]interface{}{
				"job":   spec.Name,
				"error": err.Error(),
			})
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	start := s.now()
	err = s.safeRun(runCtx, spec)
	s.record(spec.Name, start, err)

	switch {
	case err == nil:
		s.logger.Info(logger.ModuleScheduler, "Job finished", map[string]interface{}{
			"job":      spec.Name,
			"duration": s.now().Sub(start).String(),
		})
	case errors.Is(err, blogger.ErrNoPending):
		// Reported by the job itself.
	default:
		s.logger.Error(logger.ModuleScheduler, "Job failed", map[string]interface{}{
			"job":   spec.Name,
			"class": events.ClassifyError(err),
			"error": err.Error(),
		})
		// Job bodies report their own failures; only panics are reported here.
		if s.notifier != nil && errors.Is(err, errPanicked) {
			s.notifier.Notify(ctx, events.New(events.TypeSchedulerFailed, map[string]interface{}{
				"job":   spec.Name,
				"class": events.ClassifyError(err),
				"error": err.Error(),
			}))
		}
	}
}

func (s *Scheduler) safeRun(ctx context.Context, spec JobSpec) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", errPanicked, spec.Name, r)
		}
	}()
	return spec.Run(ctx)
}

func (s *Scheduler) record(name string, at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := JobStatus{Name: name, LastRun: at}
	if err != nil {
		st.LastErr = err.Error()
	}
	s.last[name] = st
}

// Status lists registered jobs with their next fire time, soonest first.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]JobStatus, 0, len(s.specs))
	for _, spec := range s.specs {
		st := s.last[spec.Name]
		st.Name = spec.Name
		st.Cron = spec.Cron
		st.NextRun, _ = NextRun(spec.Cron, s.location, now)
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextRun.Before(out[j].NextRun) })
	return out
}

func (s *Scheduler) Location() *time.Location { return s.location }

// NextRun computes the next fire time of a five-field cron expression in loc.
func NextRun(expr string, loc *time.Location, from time.Time) (time.Time, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(from.In(loc)), nil
}
