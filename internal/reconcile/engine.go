package reconcile

import (
	"context"
	"log/slog"
	"time"

	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/identity"
	"GoalWatcher/internal/kickoff"
	"GoalWatcher/internal/ports"
)

// DefaultBatchSize keeps a single bulk write under backend payload limits.
const DefaultBatchSize = 100

// BatchReport describes one submitted bulk write.
type BatchReport struct {
	Index     int
	Size      int
	Inserted  int
	Updated   int
	Unchanged int
	Skipped   int
	Err       error
}

// Report aggregates one reconciliation pass.
type Report struct {
	Batches   []BatchReport
	Keyed     []domain.KeyedSnapshot
	Invalid   int
	Inserted  int
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int
}

// Options tunes the engine.
type Options struct {
	BatchSize int
	Now       func() time.Time
	Logger    *slog.Logger
}

// Engine merges snapshots into stored records through idempotent upserts.
type Engine struct {
	store     ports.MatchStore
	assigner  *identity.Assigner
	localizer *kickoff.Localizer
	batchSize int
	now       func() time.Time
	logger    *slog.Logger
}

// NewEngine wires the store and the identity/time helpers.
func NewEngine(store ports.MatchStore, localizer *kickoff.Localizer, opts Options) *Engine {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		store:     store,
		assigner:  identity.NewAssigner(localizer),
		localizer: localizer,
		batchSize: opts.BatchSize,
		now:       opts.Now,
		logger:    opts.Logger,
	}
}

// Reconcile writes one cycle's snapshots. A failing batch is reported and the
// remaining batches are still submitted.
func (e *Engine) Reconcile(ctx context.Context, leagues []domain.LeagueSnapshots) Report {
	var report Report

	stamp := e.localizer.StorageNow(e.now())
	var ops []domain.UpsertOp
	for _, league := range leagues {
		for _, snap := range league.Matches {
			keyed, err := e.assigner.Assign(snap)
			if err != nil {
				report.Invalid++
				e.log(slog.LevelWarn, "skip match without identity",
					"league", snap.League.Name, "match_order", snap.MatchOrder, "kickoff", snap.RawKickoff, "error", err)
				continue
			}
			report.Keyed = append(report.Keyed, keyed)
			ops = append(ops, BuildOp(keyed, stamp))
		}
	}

	e.log(slog.LevelInfo, "saving matches", "count", len(ops), "batch_size", e.batchSize)

	for i, chunk := range Chunk(ops, e.batchSize) {
		batch := e.submit(ctx, i+1, chunk)
		report.Batches = append(report.Batches, batch)
		if batch.Err != nil {
			report.Failed++
			continue
		}
		report.Inserted += batch.Inserted
		report.Updated += batch.Updated
		report.Unchanged += batch.Unchanged
		report.Skipped += batch.Skipped
	}

	return report
}

func (e *Engine) submit(ctx context.Context, index int, ops []domain.UpsertOp) BatchReport {
	batch := BatchReport{Index: index, Size: len(ops)}

	ids := make([]string, len(ops))
	for i, op := range ops {
		ids[i] = op.ID
	}

	var outcomes []domain.Outcome
	existing, err := e.store.Find(ctx, domain.MatchFilter{IDs: ids})
	if err != nil {
		e.log(slog.LevelWarn, "cannot classify batch", "batch", index, "error", err)
	} else {
		byID := make(map[string]*domain.MatchRecord, len(existing))
		for i := range existing {
			byID[existing[i].ID] = &existing[i]
		}
		outcomes = make([]domain.Outcome, len(ops))
		for i, op := range ops {
			outcomes[i] = domain.Classify(byID[op.ID], op)
		}
	}

	res, err := e.store.BulkUpsert(ctx, ops)
	if err != nil {
		batch.Err = domain.NewError(domain.StoreFailure, "bulk upsert", "", err)
		e.log(slog.LevelError, "matches batch failed", "batch", index, "size", len(ops), "first_id", ids[0], "error", err)
		return batch
	}

	batch.Inserted = res.Inserted
	batch.Skipped = len(ops) - res.Inserted - res.Matched
	for _, o := range outcomes {
		switch o {
		case domain.OutcomeUpdated:
			batch.Updated++
		case domain.OutcomeUnchanged:
			batch.Unchanged++
		}
	}

	e.log(slog.LevelInfo, "matches batch saved", "batch", index, "inserted", batch.Inserted,
		"updated", batch.Updated, "unchanged", batch.Unchanged, "skipped", batch.Skipped)
	return batch
}

// BuildOp maps a keyed snapshot to its upsert. stamp is already in the
// storage time convention.
func BuildOp(k domain.KeyedSnapshot, stamp time.Time) domain.UpsertOp {
	s := k.Snapshot
	return domain.UpsertOp{
		ID:     k.ID,
		League: s.League.Name,
		Set: domain.MatchFields{
			LeagueOrder: s.League.Order,
			MatchOrder:  s.MatchOrder,
			HomeTeam:    s.Home,
			AwayTeam:    s.Away,
			Score:       s.Score,
			Time:        s.RawKickoff,
			LocalTime:   k.LocalClock,
			KickoffAt:   k.KickoffAt,
			Odds:        deref(s.Odds),
			Signal:      deref(s.Signal),
			UpdatedAt:   stamp,
		},
		InsertOnly: domain.InsertFields{
			CreatedAt:     stamp,
			PreviousScore: domain.InitialPreviousScore,
		},
	}
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func (e *Engine) log(level slog.Level, msg string, args ...any) {
	if e.logger != nil {
		e.logger.Log(context.Background(), level, msg, args...)
	}
}
