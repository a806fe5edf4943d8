package notify

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"GoalWatcher/internal/domain"
)

// Framing says how a change event is headlined.
type Framing int

const (
	FramingUpdate Framing = iota
	FramingHomeGoal
	FramingAwayGoal
)

// Frame compares score components. Anything unparseable falls back to the
// generic update framing with zero components.
func Frame(ev domain.ChangeEvent) (Framing, domain.Score) {
	current, okCur := domain.ParseScore(ev.Score)
	previous, okPrev := domain.ParseScore(ev.PreviousScore)
	if !okCur {
		return FramingUpdate, domain.Score{}
	}
	if !okPrev {
		return FramingUpdate, current
	}

	switch {
	case current.Home > previous.Home:
		return FramingHomeGoal, current
	case current.Away > previous.Away:
		return FramingAwayGoal, current
	default:
		return FramingUpdate, current
	}
}

// RenderChat builds the Telegram HTML message.
func RenderChat(ev domain.ChangeEvent) string {
	framing, score := Frame(ev)
	home := html.EscapeString(ev.HomeTeam)
	away := html.EscapeString(ev.AwayTeam)

	var sb strings.Builder
	switch framing {
	case FramingHomeGoal:
		fmt.Fprintf(&sb, "🚨 <b>GOAL ALERT!</b> 🚨\n\n🎉 %s ทำประตู! 🎉\n\n", home)
	case FramingAwayGoal:
		fmt.Fprintf(&sb, "🚨 <b>GOAL ALERT!</b> 🚨\n\n🎉 %s ทำประตู! 🎉\n\n", away)
	default:
		sb.WriteString("⚽ <b>MATCH UPDATE</b> ⚽\n\n")
	}

	fmt.Fprintf(&sb, "<b>%s</b>\n\n", html.EscapeString(ev.League))
	fmt.Fprintf(&sb, "⚽️ <b>%s</b> vs <b>%s</b>\n\n", home, away)
	sb.WriteString("📊 <b>Score:</b>\n")
	fmt.Fprintf(&sb, "    <code>%s</code> %d\n", html.EscapeString(padName(ev.HomeTeam, 15)), score.Home)
	fmt.Fprintf(&sb, "    <code>%s</code> %d\n\n", html.EscapeString(padName(ev.AwayTeam, 15)), score.Away)
	fmt.Fprintf(&sb, "💰 <b>ราคาบอล:</b> %s\n", html.EscapeString(ev.Odds))
	fmt.Fprintf(&sb, "🕒 <b>ทรรศนะฟุตบอลวันนี้:</b> %s\n\n", html.EscapeString(ev.Signal))
	fmt.Fprintf(&sb, "🕒 <b>เริ่มเตะ:</b> %s", html.EscapeString(ev.Kickoff))
	sb.WriteString("\n\n#FootballAlert #LiveScore")

	return sb.String()
}

// RenderWebhook builds the plain-text webhook content.
func RenderWebhook(ev domain.ChangeEvent) string {
	framing, _ := Frame(ev)

	var sb strings.Builder
	switch framing {
	case FramingHomeGoal:
		fmt.Fprintf(&sb, "Goal Alert! %s scored\n", ev.HomeTeam)
	case FramingAwayGoal:
		fmt.Fprintf(&sb, "Goal Alert! %s scored\n", ev.AwayTeam)
	default:
		sb.WriteString("Match Update\n")
	}
	fmt.Fprintf(&sb, "League: %s\n", ev.League)
	fmt.Fprintf(&sb, "Match: %s vs %s\n", ev.HomeTeam, ev.AwayTeam)
	fmt.Fprintf(&sb, "Previous Score: %s\n", ev.PreviousScore)
	fmt.Fprintf(&sb, "New Score: %s\n", ev.Score)
	fmt.Fprintf(&sb, "Time: %s", ev.Kickoff)
	return sb.String()
}

// padName truncates or right-pads s to width runes.
func padName(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(" ", width-n)
}
