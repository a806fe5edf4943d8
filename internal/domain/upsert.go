package domain

import "time"

// MatchFields are overwritten on every write of a record.
type MatchFields struct {
	LeagueOrder int
	MatchOrder  int
	HomeTeam    string
	AwayTeam    string
	Score       string
	Time        string
	LocalTime   string
	KickoffAt   time.Time
	Odds        string
	Signal      string
	UpdatedAt   time.Time
}

// InsertFields are written only when the record is created.
type InsertFields struct {
	CreatedAt     time.Time
	PreviousScore string
}

// UpsertOp is an insert-if-absent, else update operation filtered by (ID, League).
type UpsertOp struct {
	ID         string
	League     string
	Set        MatchFields
	InsertOnly InsertFields
}

// UpsertResult is what a store reports for one bulk write.
type UpsertResult struct {
	Inserted int
	Matched  int
}

// MatchFilter selects stored records. Zero values leave a bound open.
type MatchFilter struct {
	IDs           []string
	KickoffFrom   time.Time
	KickoffTo     time.Time
	OrderByLeague bool
}

// Outcome classifies what an upsert does to the stored record.
type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeUpdated
	OutcomeUnchanged
	OutcomeSkipped
)

// Classify predicts the effect of op against the currently stored record.
// Updated means at least one data field changes; Unchanged means only the
// update timestamp would move.
func Classify(existing *MatchRecord, op UpsertOp) Outcome {
	if existing == nil {
		return OutcomeInserted
	}
	if existing.League != op.League {
		return OutcomeSkipped
	}

	next, _ := Apply(existing, op)
	if sameData(next, *existing) {
		return OutcomeUnchanged
	}
	return OutcomeUpdated
}

func sameData(a, b MatchRecord) bool {
	return a.LeagueOrder == b.LeagueOrder &&
		a.MatchOrder == b.MatchOrder &&
		a.HomeTeam == b.HomeTeam &&
		a.AwayTeam == b.AwayTeam &&
		a.Score == b.Score &&
		a.PreviousScore == b.PreviousScore &&
		a.Time == b.Time &&
		a.LocalTime == b.LocalTime &&
		a.KickoffAt.Equal(b.KickoffAt) &&
		a.Odds == b.Odds &&
		a.Signal == b.Signal
}

// Apply computes the stored record after op. The second result is false when
// the filter does not match an existing record and the op must not be applied.
func Apply(existing *MatchRecord, op UpsertOp) (MatchRecord, bool) {
	if existing == nil {
		previous := op.InsertOnly.PreviousScore
		if previous == "" {
			previous = InitialPreviousScore
		}
		rec := MatchRecord{
			ID:            op.ID,
			League:        op.League,
			PreviousScore: previous,
			CreatedAt:     op.InsertOnly.CreatedAt,
		}
		setFields(&rec, op.Set)
		return rec, true
	}

	if existing.League != op.League {
		return *existing, false
	}

	rec := *existing
	if rec.Score != op.Set.Score {
		rec.PreviousScore = rec.Score
	}
	setFields(&rec, op.Set)
	return rec, true
}

func setFields(rec *MatchRecord, f MatchFields) {
	rec.LeagueOrder = f.LeagueOrder
	rec.MatchOrder = f.MatchOrder
	rec.HomeTeam = f.HomeTeam
	rec.AwayTeam = f.AwayTeam
	rec.Score = f.Score
	rec.Time = f.Time
	rec.LocalTime = f.LocalTime
	rec.KickoffAt = f.KickoffAt
	rec.Odds = f.Odds
	rec.Signal = f.Signal
	rec.UpdatedAt = f.UpdatedAt
}
