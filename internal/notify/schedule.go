package notify

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"GoalWatcher/internal/domain"
)

const noSignal = "ไม่มีข้อมูล"

// GroupByLeague splits records into consecutive league runs, keeping order.
func GroupByLeague(records []domain.MatchRecord) [][]domain.MatchRecord {
	var groups [][]domain.MatchRecord
	for _, rec := range records {
		n := len(groups)
		if n > 0 && groups[n-1][0].League == rec.League {
			groups[n-1] = append(groups[n-1], rec)
			continue
		}
		groups = append(groups, []domain.MatchRecord{rec})
	}
	return groups
}

// RenderDailySchedule builds the per-league fixture list message.
func RenderDailySchedule(league string, records []domain.MatchRecord) string {
	var sb strings.Builder
	sb.WriteString("📅 <b>ตารางการแข่งขันฟุตบอลวันนี้</b> 📅\n")
	fmt.Fprintf(&sb, "<code>%s</code>\n\n", html.EscapeString(league))

	for _, rec := range records {
		signal := rec.Signal
		if signal == "" {
			signal = noSignal
		}
		fmt.Fprintf(&sb, "🏠 <b>ทีมเหย้า:</b> %s\n", html.EscapeString(rec.HomeTeam))
		fmt.Fprintf(&sb, "🛫 <b>ทีมเยือน:</b> %s\n", html.EscapeString(rec.AwayTeam))
		fmt.Fprintf(&sb, "⚽ <b>ผลการแข่งขัน:</b> %s\n", html.EscapeString(rec.Score))
		fmt.Fprintf(&sb, "💰 <b>ราคาบอล:</b> %s\n", html.EscapeString(rec.Odds))
		fmt.Fprintf(&sb, "🔮 <b>ทรรศนะฟุตบอลวันนี้:</b> %s\n", html.EscapeString(signal))
		fmt.Fprintf(&sb, "🕒 <b>เวลาเตะ:</b> %s\n", html.EscapeString(rec.LocalTime))
		sb.WriteString("⎯⎯⎯⎯⎯⎯⎯⎯⎯⎯⎯\n")
	}

	if tag := hashtag(league); tag != "" {
		fmt.Fprintf(&sb, "#%s\n\n", tag)
	}
	return sb.String()
}

// hashtag keeps the runes Telegram accepts in a tag: letters (with their
// combining marks), digits and underscores.
func hashtag(league string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) {
			return r
		}
		return -1
	}, league)
}
