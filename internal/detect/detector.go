// Package detect turns re-read match records into score change events.
package detect

import (
	"context"
	"fmt"

	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/ports"
)

// Detector tracks per-match state Unseen -> Seen(score). It emits an event
// only on a transition between two different observed scores.
type Detector struct {
	cache ports.ScoreCache
}

// New builds a detector that owns the given cache.
func New(cache ports.ScoreCache) *Detector {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Detector{cache: cache}
}

// Observe records the current score of rec. The returned event is nil on a
// first sighting or an unchanged score.
func (d *Detector) Observe(ctx context.Context, rec domain.MatchRecord) (*domain.ChangeEvent, error) {
	last, seen, err := d.cache.Get(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("read last score %s: %w", rec.ID, err)
	}

	if err := d.cache.Set(ctx, rec.ID, rec.Score); err != nil {
		return nil, fmt.Errorf("store last score %s: %w", rec.ID, err)
	}

	if !seen || last == rec.Score {
		return nil, nil
	}

	return &domain.ChangeEvent{
		MatchID:       rec.ID,
		League:        rec.League,
		HomeTeam:      rec.HomeTeam,
		AwayTeam:      rec.AwayTeam,
		PreviousScore: previousScore(rec, last),
		Score:         rec.Score,
		Kickoff:       rec.LocalTime,
		Odds:          rec.Odds,
		Signal:        rec.Signal,
	}, nil
}

// previousScore prefers the durable previous_score so the message reflects
// stored state even across a restart; the cache value covers records whose
// previous_score was never advanced.
func previousScore(rec domain.MatchRecord, cached string) string {
	if rec.PreviousScore != "" && rec.PreviousScore != rec.Score {
		return rec.PreviousScore
	}
	return cached
}
