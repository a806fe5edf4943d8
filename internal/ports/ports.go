package ports

import (
	"context"
	"time"

	"GoalWatcher/internal/domain"
)

// MatchSource pulls the raw league/match listing from upstream pages.
type MatchSource interface {
	Fetch(ctx context.Context, day time.Time) ([]domain.RawLeague, error)
}

// MatchStore persists match records keyed by identifier.
type MatchStore interface {
	Find(ctx context.Context, filter domain.MatchFilter) ([]domain.MatchRecord, error)
	BulkUpsert(ctx context.Context, ops []domain.UpsertOp) (domain.UpsertResult, error)
}

// ScoreCache remembers the last score a process observed per match.
type ScoreCache interface {
	Get(ctx context.Context, matchID string) (string, bool, error)
	Set(ctx context.Context, matchID, score string) error
}

// MessageSender delivers a rendered payload to one notification sink.
type MessageSender interface {
	Send(ctx context.Context, text string) error
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// Poller repeats a cycle until ctx is done; the cycle returns its own delay.
type Poller interface {
	Run(ctx context.Context, cycle func(ctx context.Context, now time.Time) time.Duration) int
}
