package notify

import (
	"context"
	"log/slog"

	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/ports"
)

// Channel is one configured sink with its own payload renderer.
type Channel struct {
	Name   string
	Render func(domain.ChangeEvent) string
	Sender ports.MessageSender
}

// Report lists per-channel delivery results of one event.
type Report struct {
	Delivered []string
	Failed    map[string]error
}

// Dispatcher fans a change event out to every channel independently.
type Dispatcher struct {
	channels []Channel
	logger   *slog.Logger
}

// NewDispatcher keeps channels that have a sender.
func NewDispatcher(logger *slog.Logger, channels ...Channel) *Dispatcher {
	d := &Dispatcher{logger: logger}
	for _, ch := range channels {
		if ch.Sender == nil {
			continue
		}
		if ch.Render == nil {
			ch.Render = RenderWebhook
		}
		d.channels = append(d.channels, ch)
	}
	return d
}

// Channels returns the configured channel names.
func (d *Dispatcher) Channels() []string {
	names := make([]string, len(d.channels))
	for i, ch := range d.channels {
		names[i] = ch.Name
	}
	return names
}

// Dispatch delivers ev to all channels. A failing channel is logged and
// reported; it never stops delivery to the others.
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.ChangeEvent) Report {
	report := Report{Failed: map[string]error{}}

	for _, ch := range d.channels {
		payload := ch.Render(ev)
		if err := ch.Sender.Send(ctx, payload); err != nil {
			report.Failed[ch.Name] = domain.NewError(domain.NotificationFailure, "deliver "+ch.Name, ev.MatchID, err)
			if d.logger != nil {
				d.logger.Error("notification failed", "sink", ch.Name, "match_id", ev.MatchID,
					"previous", ev.PreviousScore, "score", ev.Score, "error", err)
			}
			continue
		}

		report.Delivered = append(report.Delivered, ch.Name)
		if d.logger != nil {
			d.logger.Info("notification sent", "sink", ch.Name, "match_id", ev.MatchID,
				"home", ev.HomeTeam, "away", ev.AwayTeam, "score", ev.Score)
		}
	}

	return report
}
