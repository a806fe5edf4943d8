// Package kickoff converts local kickoff wall-clock times into absolute and
// storage timestamps.
package kickoff

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"GoalWatcher/internal/domain"
)

const (
	// ReferenceZone is the timezone the listing page publishes kickoff times in.
	ReferenceZone = "Asia/Bangkok"

	// DefaultStorageShift reproduces the stored-time convention of existing
	// match documents: the UTC instant moved forward by the zone offset.
	DefaultStorageShift = 7 * time.Hour

	displayLayout = "02012006_1504"
	clockLayout   = "15:04"
)

var clockExpr = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Time is a localized kickoff.
type Time struct {
	Local   time.Time
	UTC     time.Time
	Storage time.Time
	Display string
	Clock   string
}

// Localizer resolves kickoff times against a fixed reference timezone.
type Localizer struct {
	loc   *time.Location
	shift time.Duration
}

// NewLocalizer loads the reference zone. Without tzdata the zone falls back to
// a fixed UTC+7 offset, which is exact because the zone has no DST.
func NewLocalizer(shift time.Duration) *Localizer {
	loc, err := time.LoadLocation(ReferenceZone)
	if err != nil {
		loc = time.FixedZone("ICT", 7*60*60)
	}
	return &Localizer{loc: loc, shift: shift}
}

// Location returns the reference zone.
func (l *Localizer) Location() *time.Location {
	return l.loc
}

// Shift returns the offset added to UTC instants for storage.
func (l *Localizer) Shift() time.Duration {
	return l.shift
}

// Localize combines the calendar date of day with a HH:MM kickoff.
func (l *Localizer) Localize(day time.Time, clock string) (Time, error) {
	c, err := ParseClock(clock)
	if err != nil {
		return Time{}, err
	}
	return l.LocalizeClock(day, c), nil
}

// LocalizeClock is Localize for an already parsed clock.
func (l *Localizer) LocalizeClock(day time.Time, c domain.Clock) Time {
	y, m, d := day.Date()
	local := time.Date(y, m, d, c.Hour, c.Minute, 0, 0, l.loc)
	utc := local.UTC()

	return Time{
		Local:   local,
		UTC:     utc,
		Storage: utc.Add(l.shift),
		Display: local.Format(displayLayout),
		Clock:   local.Format(clockLayout),
	}
}

// StorageNow converts an instant into the storage timestamp convention.
func (l *Localizer) StorageNow(now time.Time) time.Time {
	return now.UTC().Add(l.shift)
}

// StartOfDay returns local midnight of the day containing now.
func (l *Localizer) StartOfDay(now time.Time) time.Time {
	y, m, d := now.In(l.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, l.loc)
}

// ParseClock parses a strict HH:MM time of day.
func ParseClock(raw string) (domain.Clock, error) {
	m := clockExpr.FindStringSubmatch(raw)
	if m == nil {
		return domain.Clock{}, domain.NewError(domain.ParseFailure, "parse kickoff", raw, domain.ErrInvalidKickoff)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return domain.Clock{}, domain.NewError(domain.ParseFailure, "parse kickoff", raw,
			fmt.Errorf("%w: out of range", domain.ErrInvalidKickoff))
	}

	return domain.Clock{Hour: hour, Minute: minute}, nil
}
