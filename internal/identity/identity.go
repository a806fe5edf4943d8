// Package identity derives stable record identifiers for scraped matches.
//
// Team names are deliberately absent from the key: they drift in casing and
// whitespace between scrapes. The source's own per-day, per-league ordering
// is the most stable signal available.
package identity

import (
	"fmt"
	"time"

	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/kickoff"
)

// Format renders DDMMYYYY_HHMM_LL_MM for a kickoff in its local zone. The
// order fields are at least two digits wide; 100 and above print in full.
func Format(local time.Time, leagueOrder, matchOrder int) string {
	return fmt.Sprintf("%s_%02d_%02d", local.Format("02012006_1504"), leagueOrder, matchOrder)
}

// Assigner attaches identifiers and localized kickoffs to snapshots.
type Assigner struct {
	localizer *kickoff.Localizer
}

// NewAssigner wires the localizer used to resolve kickoff dates.
func NewAssigner(localizer *kickoff.Localizer) *Assigner {
	return &Assigner{localizer: localizer}
}

// Assign resolves the identifier of one snapshot.
func (a *Assigner) Assign(s domain.MatchSnapshot) (domain.KeyedSnapshot, error) {
	raw := s.RawKickoff
	if raw == "" {
		raw = s.Kickoff.String()
	}

	kt, err := a.localizer.Localize(s.SessionDate, raw)
	if err != nil {
		return domain.KeyedSnapshot{}, err
	}

	return domain.KeyedSnapshot{
		Snapshot:     s,
		ID:           Format(kt.Local, s.League.Order, s.MatchOrder),
		LocalKickoff: kt.Local,
		KickoffAt:    kt.Storage,
		LocalClock:   kt.Clock,
	}, nil
}
