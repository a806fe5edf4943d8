package normalize

import (
	"log/slog"
	"strings"
	"time"

	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/kickoff"
)

// SessionDateLayout is the timestamp form scanners attach to a league block.
const SessionDateLayout = "2006-01-02T15:04:05.000Z"

// Normalizer turns raw scanner output into typed snapshots.
type Normalizer struct {
	logger *slog.Logger
}

// New builds a normalizer; logger may be nil.
func New(logger *slog.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize converts leagues in order. League and match orders are source
// positions: a skipped match still occupies its slot so that siblings keep
// their identifiers across cycles.
func (n *Normalizer) Normalize(raw []domain.RawLeague, session time.Time) []domain.LeagueSnapshots {
	out := make([]domain.LeagueSnapshots, 0, len(raw))

	for li, rl := range raw {
		league := domain.League{Name: Clean(rl.Name), Order: li + 1}
		day := n.sessionDate(rl, league, session)

		group := domain.LeagueSnapshots{League: league}
		for mi, rm := range rl.Matches {
			snap, err := Match(rm, league, mi+1, day)
			if err != nil {
				n.warn("skip match", "league", league.Name, "league_order", league.Order, "match_order", mi+1, "error", err)
				continue
			}
			group.Matches = append(group.Matches, snap)
		}
		out = append(out, group)
	}

	return out
}

func (n *Normalizer) sessionDate(rl domain.RawLeague, league domain.League, fallback time.Time) time.Time {
	raw := strings.TrimSpace(rl.Date)
	if raw == "" {
		return fallback
	}

	parsed, err := time.Parse(SessionDateLayout, raw)
	if err != nil {
		n.warn("league date unparseable, using session date", "league", league.Name, "value", raw, "error", err)
		return fallback
	}
	return parsed
}

// Match normalizes a single raw match. Missing home, away or score, or a
// kickoff that is not HH:MM, is a ParseFailure.
func Match(rm domain.RawMatch, league domain.League, order int, day time.Time) (domain.MatchSnapshot, error) {
	home := team(rm, domain.LabelHome)
	away := team(rm, domain.LabelAway)
	score := field(rm, domain.LabelScore)

	switch {
	case blank(home):
		return domain.MatchSnapshot{}, missing(domain.LabelHome)
	case blank(away):
		return domain.MatchSnapshot{}, missing(domain.LabelAway)
	case blank(score):
		return domain.MatchSnapshot{}, missing(domain.LabelScore)
	}

	rawKickoff := ""
	if v := field(rm, domain.LabelKickoff); v != nil {
		rawKickoff = *v
	}
	clock, err := kickoff.ParseClock(rawKickoff)
	if err != nil {
		return domain.MatchSnapshot{}, err
	}

	return domain.MatchSnapshot{
		League:      league,
		MatchOrder:  order,
		Home:        *home,
		Away:        *away,
		Score:       *score,
		FirstHalf:   field(rm, domain.LabelFirstHalf),
		Kickoff:     clock,
		RawKickoff:  rawKickoff,
		Odds:        field(rm, domain.LabelOdds),
		Signal:      field(rm, domain.LabelSignal),
		SessionDate: day,
	}, nil
}

// Clean trims and collapses internal whitespace runs to single spaces.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func field(rm domain.RawMatch, label string) *string {
	v, ok := rm[label]
	if !ok {
		return nil
	}
	text := Clean(v.Text)
	return &text
}

func blank(v *string) bool {
	return v == nil || *v == ""
}

func team(rm domain.RawMatch, label string) *string {
	v, ok := rm[label]
	if !ok {
		return nil
	}
	if v.HasSpan {
		if span := Clean(v.Span); span != "" {
			return &span
		}
	}
	return field(rm, label)
}

func missing(label string) error {
	return domain.NewError(domain.ParseFailure, "normalize match", label, domain.ErrMissingField)
}

func (n *Normalizer) warn(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Warn(msg, args...)
	}
}
