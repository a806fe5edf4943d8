// Package thaidate reads the Thai calendar headings of the listing page.
// Only the fixed pattern set below is recognized.
package thaidate

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"GoalWatcher/internal/domain"
)

// Layout is the ISO form scanners attach to league blocks.
const Layout = "2006-01-02T15:04:05.000Z"

// buddhistEraOffset converts Buddhist Era years to Gregorian.
const buddhistEraOffset = 543

var months = []string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

var headingExpr = regexp.MustCompile(
	`(?:วัน(?:จันทร์|อังคาร|พุธ|พฤหัสบดี|ศุกร์|เสาร์|อาทิตย์)?(?:ที่)?)??\s*` +
		`(\d{1,2})\s*` +
		`(มกราคม|กุมภาพันธ์|มีนาคม|เมษายน|พฤษภาคม|มิถุนายน|กรกฎาคม|สิงหาคม|กันยายน|ตุลาคม|พฤศจิกายน|ธันวาคม)\s*` +
		`(?:พ\.ศ\.)?\s*(\d{4})` +
		`(?:\s*เวลา\s*(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(?:น\.|นาฬิกา)?)?`)

// Parse extracts the first Thai date (and optional time) found in text.
// The result is expressed in UTC with the wall-clock values as written.
func Parse(text string) (time.Time, error) {
	m := headingExpr.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, domain.NewError(domain.ParseFailure, "parse thai date", text, domain.ErrInvalidDate)
	}

	day, _ := strconv.Atoi(m[1])
	month := monthIndex(m[2])
	year, _ := strconv.Atoi(m[3])
	year -= buddhistEraOffset

	hour, minute, second := atoiOr(m[4]), atoiOr(m[5]), atoiOr(m[6])

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, domain.NewError(domain.ParseFailure, "parse thai date", text,
			fmt.Errorf("%w: %d/%d/%d %02d:%02d:%02d out of range", domain.ErrInvalidDate, day, month, year, hour, minute, second))
	}

	return t, nil
}

// ToUTCFormat renders the parsed date in Layout.
func ToUTCFormat(text string) (string, bool) {
	t, err := Parse(text)
	if err != nil {
		return "", false
	}
	return t.Format(Layout), true
}

func monthIndex(name string) int {
	for i, m := range months {
		if m == name {
			return i + 1
		}
	}
	return 0
}

func atoiOr(s string) int {
	if s == "" {
		return 0
	}
	v, _ := strconv.Atoi(s)
	return v
}
