package usecase

import (
	"context"
	"log/slog"
	"time"

	"GoalWatcher/internal/config"
	"GoalWatcher/internal/ports"
)

const stopTimeout = 10 * time.Second

// Scheduler wires the poll loop and the daily cron driver with the use cases.
type Scheduler struct {
	mode     config.Mode
	pipeline *Pipeline
	poller   ports.Poller
	driver   ports.Scheduler
	schedule *DailySchedule
	now      func() time.Time
	logger   *slog.Logger
}

// SchedulerDeps lists the collaborators of a Scheduler. Driver and Schedule
// are optional.
type SchedulerDeps struct {
	Mode     config.Mode
	Pipeline *Pipeline
	Poller   ports.Poller
	Driver   ports.Scheduler
	Schedule *DailySchedule
	Now      func() time.Time
	Logger   *slog.Logger
}

// NewScheduler returns a helper that runs the configured loops.
func NewScheduler(deps SchedulerDeps) *Scheduler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Scheduler{
		mode:     deps.Mode,
		pipeline: deps.Pipeline,
		poller:   deps.Poller,
		driver:   deps.Driver,
		schedule: deps.Schedule,
		now:      deps.Now,
		logger:   deps.Logger,
	}
}

// Run blocks until ctx is done, or after one cycle in once mode.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.pipeline == nil {
		return nil
	}

	if s.mode == config.ModeOnce {
		s.pipeline.RunCycle(ctx, s.now(), s.mode)
		return nil
	}

	if err := s.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := s.Stop(stopCtx); err != nil {
			s.log(slog.LevelWarn, "stop daily schedule", "error", err)
		}
	}()

	if s.poller == nil {
		<-ctx.Done()
		return nil
	}

	cycles := s.poller.Run(ctx, func(ctx context.Context, now time.Time) time.Duration {
		s.pipeline.RunCycle(ctx, now, s.mode)
		return s.pipeline.NextDelay(ctx, now)
	})
	s.log(slog.LevelInfo, "poll loop stopped", "mode", string(s.mode), "cycles", cycles)
	return nil
}

// Start registers the daily schedule with the cron driver in notifying modes.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.schedule == nil || !s.mode.Notifies() {
		return nil
	}

	job := func(trigger time.Time) {
		if _, err := s.schedule.Send(ctx, trigger); err != nil {
			s.log(slog.LevelError, "daily schedule", "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

func (s *Scheduler) log(level slog.Level, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Log(context.Background(), level, msg, args...)
	}
}
