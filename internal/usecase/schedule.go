package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/kickoff"
	"GoalWatcher/internal/notify"
	"GoalWatcher/internal/ports"
)

const defaultSchedulePause = time.Second

// DailySchedule posts today's fixtures to the chat, one message per league.
type DailySchedule struct {
	store     ports.MatchStore
	sender    ports.MessageSender
	localizer *kickoff.Localizer
	pause     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	logger    *slog.Logger
}

// NewDailySchedule wires the store and the chat sender.
func NewDailySchedule(store ports.MatchStore, sender ports.MessageSender, localizer *kickoff.Localizer, logger *slog.Logger) *DailySchedule {
	if localizer == nil {
		localizer = kickoff.NewLocalizer(kickoff.DefaultStorageShift)
	}
	return &DailySchedule{
		store:     store,
		sender:    sender,
		localizer: localizer,
		pause:     defaultSchedulePause,
		sleep:     sleepCtx,
		logger:    logger,
	}
}

// WithPause overrides the delay between league messages.
func (d *DailySchedule) WithPause(pause time.Duration) *DailySchedule {
	d.pause = pause
	return d
}

// Send posts the fixtures of the local day containing now and returns how
// many league messages were delivered. A failed message is logged and the
// remaining leagues are still sent.
func (d *DailySchedule) Send(ctx context.Context, now time.Time) (int, error) {
	if d.store == nil || d.sender == nil {
		return 0, nil
	}

	start := d.localizer.StartOfDay(now)
	records, err := d.store.Find(ctx, domain.MatchFilter{
		KickoffFrom:   d.localizer.StorageNow(start),
		KickoffTo:     d.localizer.StorageNow(start.AddDate(0, 0, 1)).Add(-time.Nanosecond),
		OrderByLeague: true,
	})
	if err != nil {
		return 0, domain.NewError(domain.StoreFailure, "daily schedule", start.Format("2006-01-02"), err)
	}

	sent := 0
	for i, group := range notify.GroupByLeague(records) {
		if i > 0 && d.pause > 0 {
			if err := d.sleep(ctx, d.pause); err != nil {
				return sent, err
			}
		}

		league := group[0].League
		if err := d.sender.Send(ctx, notify.RenderDailySchedule(league, group)); err != nil {
			d.log(slog.LevelError, "daily schedule failed", "league", league, "error",
				domain.NewError(domain.NotificationFailure, "daily schedule", league, err))
			continue
		}
		sent++
	}

	d.log(slog.LevelInfo, "daily schedule sent", "leagues", sent, "matches", len(records))
	if sent == 0 && len(records) > 0 {
		return 0, fmt.Errorf("daily schedule: no league message delivered")
	}
	return sent, nil
}

func (d *DailySchedule) log(level slog.Level, msg string, args ...any) {
	if d.logger != nil {
		d.logger.Log(context.Background(), level, msg, args...)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
