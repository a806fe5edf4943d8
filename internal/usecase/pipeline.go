package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"GoalWatcher/internal/config"
	"GoalWatcher/internal/detect"
	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/kickoff"
	"GoalWatcher/internal/normalize"
	"GoalWatcher/internal/notify"
	"GoalWatcher/internal/ports"
	"GoalWatcher/internal/reconcile"
)

// Pacing controls the delay between cycles and the watch window.
type Pacing struct {
	Interval     time.Duration
	IdleInterval time.Duration
	LiveWindow   time.Duration
	Lookback     time.Duration
}

// PacingFromConfig copies the poller section.
func PacingFromConfig(cfg config.PollerConfig) Pacing {
	return Pacing{
		Interval:     cfg.Interval,
		IdleInterval: cfg.IdleInterval,
		LiveWindow:   cfg.LiveWindow,
		Lookback:     cfg.Lookback,
	}
}

func (p Pacing) withDefaults() Pacing {
	if p.Interval <= 0 {
		p.Interval = time.Minute
	}
	if p.IdleInterval <= 0 {
		p.IdleInterval = 30 * time.Minute
	}
	if p.IdleInterval < p.Interval {
		p.IdleInterval = p.Interval
	}
	if p.LiveWindow <= 0 {
		p.LiveWindow = 150 * time.Minute
	}
	if p.Lookback <= 0 {
		p.Lookback = 24 * time.Hour
	}
	return p
}

// Delay picks the sleep after a cycle from records around now (all in storage
// convention). A match kicked off within the live window keeps the short
// interval; otherwise the loop waits for the next kickoff, bounded by the
// idle interval and never shorter than the poll interval.
func (p Pacing) Delay(now time.Time, records []domain.MatchRecord) time.Duration {
	p = p.withDefaults()

	var next time.Time
	for _, rec := range records {
		k := rec.KickoffAt
		if !k.After(now) {
			if now.Sub(k) < p.LiveWindow {
				return p.Interval
			}
			continue
		}
		if next.IsZero() || k.Before(next) {
			next = k
		}
	}

	if next.IsZero() {
		return p.IdleInterval
	}

	wait := next.Sub(now)
	if wait > p.IdleInterval {
		return p.IdleInterval
	}
	if wait < p.Interval {
		return p.Interval
	}
	return wait
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.MatchSource
	Store      ports.MatchStore
	Localizer  *kickoff.Localizer
	Normalizer *normalize.Normalizer
	Engine     *reconcile.Engine
	Detector   *detect.Detector
	Dispatcher *notify.Dispatcher
	Pacing     Pacing
	Logger     *slog.Logger
}

// Pipeline implements the scrape, reconcile, detect and notify workflow.
type Pipeline struct {
	source     ports.MatchSource
	store      ports.MatchStore
	localizer  *kickoff.Localizer
	normalizer *normalize.Normalizer
	engine     *reconcile.Engine
	detector   *detect.Detector
	dispatcher *notify.Dispatcher
	pacing     Pacing
	logger     *slog.Logger
}

// WatchReport summarizes one detection pass.
type WatchReport struct {
	Checked   int
	Events    int
	Delivered int
	Failed    int
	Errors    int
}

// CycleReport is the outcome of one full cycle.
type CycleReport struct {
	Ingest    reconcile.Report
	Watch     WatchReport
	IngestErr error
	WatchErr  error
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	localizer := deps.Localizer
	if localizer == nil {
		localizer = kickoff.NewLocalizer(kickoff.DefaultStorageShift)
	}
	normalizer := deps.Normalizer
	if normalizer == nil {
		normalizer = normalize.New(deps.Logger)
	}
	return &Pipeline{
		source:     deps.Source,
		store:      deps.Store,
		localizer:  localizer,
		normalizer: normalizer,
		engine:     deps.Engine,
		detector:   deps.Detector,
		dispatcher: deps.Dispatcher,
		pacing:     deps.Pacing.withDefaults(),
		logger:     deps.Logger,
	}
}

// Ingest scrapes the listing and reconciles it into the store.
func (p *Pipeline) Ingest(ctx context.Context, now time.Time) (reconcile.Report, error) {
	if p.source == nil || p.engine == nil {
		return reconcile.Report{}, nil
	}

	day := now.In(p.localizer.Location())
	raw, err := p.source.Fetch(ctx, day)
	if err != nil {
		return reconcile.Report{}, fmt.Errorf("fetch listing: %w", err)
	}

	leagues := p.normalizer.Normalize(raw, day)
	report := p.engine.Reconcile(ctx, leagues)

	p.log(slog.LevelInfo, "ingest done",
		"leagues", len(leagues),
		"matches", len(report.Keyed),
		"invalid", report.Invalid,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"skipped", report.Skipped,
		"failed_batches", report.Failed,
	)

	return report, nil
}

// Watch re-reads matches kicked off within the lookback window and notifies
// about every score transition.
func (p *Pipeline) Watch(ctx context.Context, now time.Time) (WatchReport, error) {
	var report WatchReport
	if p.store == nil || p.detector == nil {
		return report, nil
	}

	storageNow := p.localizer.StorageNow(now)
	records, err := p.store.Find(ctx, domain.MatchFilter{
		KickoffFrom: storageNow.Add(-p.pacing.Lookback),
		KickoffTo:   storageNow,
	})
	if err != nil {
		return report, domain.NewError(domain.StoreFailure, "watch", "", err)
	}

	for _, rec := range records {
		report.Checked++

		ev, err := p.detector.Observe(ctx, rec)
		if err != nil {
			report.Errors++
			p.log(slog.LevelWarn, "observe failed", "match_id", rec.ID, "score", rec.Score, "error", err)
			continue
		}
		if ev == nil {
			continue
		}

		report.Events++
		p.log(slog.LevelInfo, "score changed", "match_id", ev.MatchID,
			"home", ev.HomeTeam, "away", ev.AwayTeam, "previous", ev.PreviousScore, "score", ev.Score)

		if p.dispatcher == nil {
			continue
		}
		res := p.dispatcher.Dispatch(ctx, *ev)
		report.Delivered += len(res.Delivered)
		report.Failed += len(res.Failed)
	}

	p.log(slog.LevelDebug, "watch done", "checked", report.Checked, "events", report.Events)
	return report, nil
}

// RunCycle runs the stages the mode asks for. Ingest always completes before
// detection so notifications never precede persistence.
func (p *Pipeline) RunCycle(ctx context.Context, now time.Time, mode config.Mode) CycleReport {
	var report CycleReport

	if mode.Saves() {
		report.Ingest, report.IngestErr = p.Ingest(ctx, now)
		if report.IngestErr != nil {
			p.log(slog.LevelError, "ingest failed", "error", report.IngestErr)
		}
	}

	if mode.Notifies() {
		report.Watch, report.WatchErr = p.Watch(ctx, now)
		if report.WatchErr != nil {
			p.log(slog.LevelError, "watch failed", "error", report.WatchErr)
		}
	}

	return report
}

// NextDelay looks at stored kickoffs around now and returns the pacing delay.
// A store failure falls back to the poll interval.
func (p *Pipeline) NextDelay(ctx context.Context, now time.Time) time.Duration {
	if p.store == nil {
		return p.pacing.Interval
	}

	storageNow := p.localizer.StorageNow(now)
	records, err := p.store.Find(ctx, domain.MatchFilter{
		KickoffFrom: storageNow.Add(-p.pacing.LiveWindow),
		KickoffTo:   storageNow.Add(p.pacing.IdleInterval),
	})
	if err != nil {
		p.log(slog.LevelWarn, "pacing lookup failed", "error", err)
		return p.pacing.Interval
	}

	delay := p.pacing.Delay(storageNow, records)
	p.log(slog.LevelDebug, "next cycle", "in", delay.String())
	return delay
}

func (p *Pipeline) log(level slog.Level, msg string, args ...any) {
	if p.logger != nil {
		p.logger.Log(context.Background(), level, msg, args...)
	}
}
