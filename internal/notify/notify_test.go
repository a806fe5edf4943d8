package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"GoalWatcher/internal/domain"
)

func event(previous, score string) domain.ChangeEvent {
	return domain.ChangeEvent{
		MatchID:       "01052024_1930_01_01",
		League:        "English Premier League",
		HomeTeam:      "Arsenal",
		AwayTeam:      "Chelsea & Co",
		PreviousScore: previous,
		Score:         score,
		Kickoff:       "19:30",
		Odds:          "0.5",
		Signal:        "Arsenal",
	}
}

func TestFrame(t *testing.T) {
	t.Parallel()

	f, s := Frame(event("0 - 0", "1 - 0"))
	require.Equal(t, FramingHomeGoal, f)
	require.Equal(t, domain.Score{Home: 1}, s)

	f, _ = Frame(event("1 - 0", "1 - 1"))
	require.Equal(t, FramingAwayGoal, f)

	f, _ = Frame(event("2 - 1", "1 - 1"))
	require.Equal(t, FramingUpdate, f)

	f, s = Frame(event("1 - 0", "P - P"))
	require.Equal(t, FramingUpdate, f)
	require.Equal(t, domain.Score{}, s)
}

func TestRenderChat(t *testing.T) {
	t.Parallel()

	msg := RenderChat(event("0 - 0", "0 - 1"))
	require.True(t, strings.HasPrefix(msg, "🚨 <b>GOAL ALERT!</b> 🚨"))
	require.Contains(t, msg, "🎉 Chelsea &amp; Co ทำประตู! 🎉")
	require.Contains(t, msg, "<code>Arsenal        </code> 0")
	require.Contains(t, msg, "<code>Chelsea &amp; Co   </code> 1")
	require.Contains(t, msg, "<b>เริ่มเตะ:</b> 19:30")
	require.True(t, strings.HasSuffix(msg, "#FootballAlert #LiveScore"))

	update := RenderChat(event("0 - 0", "abandoned"))
	require.True(t, strings.HasPrefix(update, "⚽ <b>MATCH UPDATE</b> ⚽"))
	require.Contains(t, update, "</code> 0\n")
}

func TestRenderWebhook(t *testing.T) {
	t.Parallel()

	msg := RenderWebhook(event("0 - 0", "1 - 0"))
	require.Equal(t, "Goal Alert! Arsenal scored\n"+
		"League: English Premier League\n"+
		"Match: Arsenal vs Chelsea & Co\n"+
		"Previous Score: 0 - 0\n"+
		"New Score: 1 - 0\n"+
		"Time: 19:30", msg)
}

type recordingSender struct {
	err  error
	sent []string
}

func (r *recordingSender) Send(_ context.Context, text string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, text)
	return nil
}

func TestDispatchIsolatesFailures(t *testing.T) {
	t.Parallel()

	broken := &recordingSender{err: errors.New("503 Service Unavailable")}
	hook := &recordingSender{}

	d := NewDispatcher(nil,
		Channel{Name: "telegram", Render: RenderChat, Sender: broken},
		Channel{Name: "webhook", Sender: hook},
		Channel{Name: "unconfigured"},
	)
	require.Equal(t, []string{"telegram", "webhook"}, d.Channels())

	report := d.Dispatch(context.Background(), event("0 - 0", "1 - 0"))
	require.Equal(t, []string{"webhook"}, report.Delivered)
	require.Len(t, report.Failed, 1)
	require.True(t, domain.IsKind(report.Failed["telegram"], domain.NotificationFailure))
	require.Len(t, hook.sent, 1)
	require.True(t, strings.HasPrefix(hook.sent[0], "Goal Alert!"))
}

func TestDailySchedule(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)
	records := []domain.MatchRecord{
		{League: "EPL", HomeTeam: "A", AwayTeam: "B", Score: "0 - 0", LocalTime: "19:30", KickoffAt: at},
		{League: "EPL", HomeTeam: "C", AwayTeam: "D", Score: "1 - 0", LocalTime: "21:00", Signal: "C", KickoffAt: at},
		{League: "La Liga", HomeTeam: "E", AwayTeam: "F", Score: "-", LocalTime: "23:00", KickoffAt: at},
	}

	groups := GroupByLeague(records)
	require.Len(t, groups, 2)
	require.Len(t, groups[0], 2)

	msg := RenderDailySchedule("La Liga", groups[1])
	require.True(t, strings.HasPrefix(msg, "📅 <b>ตารางการแข่งขันฟุตบอลวันนี้</b> 📅\n<code>La Liga</code>"))
	require.Contains(t, msg, "<b>ทรรศนะฟุตบอลวันนี้:</b> ไม่มีข้อมูล")
	require.Contains(t, msg, "<b>เวลาเตะ:</b> 23:00")
	require.True(t, strings.HasSuffix(msg, "#LaLiga\n\n"))

	msg = RenderDailySchedule("Trinidad & Tobago <Pro>", groups[1])
	require.Contains(t, msg, "<code>Trinidad &amp; Tobago &lt;Pro&gt;</code>")
	require.True(t, strings.HasSuffix(msg, "#TrinidadTobagoPro\n\n"))
	require.NotContains(t, msg, "<Pro>")
	require.NotContains(t, msg, "& ")
}

func TestHashtag(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"English Premier League": "EnglishPremierLeague",
		"Trinidad & Tobago":      "TrinidadTobago",
		"U-21 Euro (Qual.)":      "U21EuroQual",
		"ไทยลีก 1":               "ไทยลีก1",
		"K_League":               "K_League",
		"<>&":                    "",
	}
	for league, want := range cases {
		require.Equal(t, want, hashtag(league), league)
	}
}
