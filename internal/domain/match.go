package domain

import (
	"strconv"
	"strings"
	"time"
)

// InitialPreviousScore is stored as previous_score when a record is first inserted.
const InitialPreviousScore = "0 - 0"

// Raw field labels emitted by the listing-page scanner.
const (
	LabelKickoff   = "เวลา"
	LabelHome      = "เจ้าบ้าน"
	LabelOdds      = "ราคาบอล"
	LabelAway      = "ทีมเยือน"
	LabelFirstHalf = "ครึ่งแรก"
	LabelScore     = "ผลบอล"
	LabelSignal    = "ทรรศนะฟุตบอลวันนี้"
)

// RawValue is the text of one scraped cell. Span holds the text of a nested
// label+span structure when the cell had one.
type RawValue struct {
	Text    string
	Span    string
	HasSpan bool
}

// RawMatch maps field labels to cell values. A label missing from the map
// means the cell did not appear in the source markup.
type RawMatch map[string]RawValue

// RawLeague is one league block as produced by a scanner.
type RawLeague struct {
	Name    string
	Date    string
	Matches []RawMatch
}

// League identifies a league inside one scrape result.
type League struct {
	Name  string
	Order int
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// String renders the clock as HH:MM.
func (c Clock) String() string {
	return pad2(c.Hour) + ":" + pad2(c.Minute)
}

// MatchSnapshot is one cycle's normalized view of a match.
type MatchSnapshot struct {
	League      League
	MatchOrder  int
	Home        string
	Away        string
	Score       string
	FirstHalf   *string
	Kickoff     Clock
	RawKickoff  string
	Odds        *string
	Signal      *string
	SessionDate time.Time
}

// LeagueSnapshots groups the snapshots of one league in source order.
type LeagueSnapshots struct {
	League  League
	Matches []MatchSnapshot
}

// KeyedSnapshot is a snapshot with its identity and localized kickoff resolved.
type KeyedSnapshot struct {
	Snapshot     MatchSnapshot
	ID           string
	LocalKickoff time.Time
	KickoffAt    time.Time
	LocalClock   string
}

// MatchRecord is the durable representation of a fixture.
type MatchRecord struct {
	ID            string
	League        string
	LeagueOrder   int
	MatchOrder    int
	HomeTeam      string
	AwayTeam      string
	Score         string
	PreviousScore string
	Time          string
	LocalTime     string
	KickoffAt     time.Time
	Odds          string
	Signal        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ChangeEvent is a detected score transition.
type ChangeEvent struct {
	MatchID       string
	League        string
	HomeTeam      string
	AwayTeam      string
	PreviousScore string
	Score         string
	Kickoff       string
	Odds          string
	Signal        string
}

// Score holds the parsed components of an "H - A" score string.
type Score struct {
	Home int
	Away int
}

// ParseScore splits a score on its dash delimiter. Unparseable input yields
// zero components and ok=false.
func ParseScore(raw string) (Score, bool) {
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return Score{}, false
	}

	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || home < 0 {
		return Score{}, false
	}
	away, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || away < 0 {
		return Score{}, false
	}

	return Score{Home: home, Away: away}, true
}

func pad2(v int) string {
	if v < 10 && v >= 0 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
