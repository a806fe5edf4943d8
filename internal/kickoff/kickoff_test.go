package kickoff

import (
	"errors"
	"testing"
	"time"

	"GoalWatcher/internal/domain"
)

func TestLocalizeRoundTrip(t *testing.T) {
	t.Parallel()

	l := NewLocalizer(DefaultStorageShift)
	day := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	kt, err := l.Localize(day, "19:30")
	if err != nil {
		t.Fatalf("Localize returned error: %v", err)
	}

	if got := kt.Local.Format("15:04"); got != "19:30" {
		t.Fatalf("local clock = %s, want 19:30", got)
	}
	if got := kt.Local.Format("2006-01-02"); got != "2024-05-01" {
		t.Fatalf("local date = %s, want 2024-05-01", got)
	}
	if _, offset := kt.Local.Zone(); offset != 7*3600 {
		t.Fatalf("offset = %d, want +7h", offset)
	}

	wantUTC := time.Date(2024, time.May, 1, 12, 30, 0, 0, time.UTC)
	if !kt.UTC.Equal(wantUTC) {
		t.Fatalf("utc = %v, want %v", kt.UTC, wantUTC)
	}
	if !kt.Storage.Equal(wantUTC.Add(7 * time.Hour)) {
		t.Fatalf("storage = %v, want utc+7h", kt.Storage)
	}
	if kt.Display != "01052024_1930" {
		t.Fatalf("display = %s", kt.Display)
	}
	if kt.Clock != "19:30" {
		t.Fatalf("clock = %s", kt.Clock)
	}
}

func TestLocalizeWithoutShift(t *testing.T) {
	t.Parallel()

	l := NewLocalizer(0)
	kt, err := l.Localize(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), "00:15")
	if err != nil {
		t.Fatalf("Localize returned error: %v", err)
	}

	want := time.Date(2024, time.April, 30, 17, 15, 0, 0, time.UTC)
	if !kt.Storage.Equal(want) {
		t.Fatalf("storage = %v, want %v", kt.Storage, want)
	}
}

func TestParseClockRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "1930", "19.30", "24:00", "19:60", "19:3", "FT", " 19:30"} {
		_, err := ParseClock(raw)
		if err == nil {
			t.Fatalf("ParseClock(%q) expected error", raw)
		}
		if !domain.IsKind(err, domain.ParseFailure) || !errors.Is(err, domain.ErrInvalidKickoff) {
			t.Fatalf("ParseClock(%q) unexpected error: %v", raw, err)
		}
	}

	c, err := ParseClock("7:05")
	if err != nil {
		t.Fatalf("ParseClock(7:05): %v", err)
	}
	if c.String() != "07:05" {
		t.Fatalf("clock = %s, want 07:05", c)
	}
}

func TestStartOfDayAndStorageNow(t *testing.T) {
	t.Parallel()

	l := NewLocalizer(DefaultStorageShift)
	now := time.Date(2024, time.May, 1, 18, 0, 0, 0, time.UTC)

	start := l.StartOfDay(now)
	want := time.Date(2024, time.May, 1, 17, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("start of day = %v, want %v", start, want)
	}

	if got := l.StorageNow(now); !got.Equal(now.Add(7 * time.Hour)) {
		t.Fatalf("storage now = %v", got)
	}
}
