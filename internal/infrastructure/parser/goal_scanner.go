package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/scanner"
	"GoalWatcher/internal/thaidate"
)

const (
	defaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"
	defaultDateSelector = ".utable_date"
	leagueCellClass     = "utable_league"
)

// columns maps the listing table cell classes to raw field labels.
var columns = []struct {
	class string
	label string
}{
	{"utable_f1", domain.LabelKickoff},
	{"utable_f2", domain.LabelHome},
	{"utable_f3", domain.LabelOdds},
	{"utable_f4", domain.LabelAway},
	{"utable_f5", domain.LabelFirstHalf},
	{"utable_f6", domain.LabelScore},
	{"utable_f7", domain.LabelSignal},
}

// GoalScanner reads the live score table: a league header row followed by
// that league's match rows.
type GoalScanner struct {
	client *http.Client
	logger *slog.Logger
}

// NewGoalScanner wires an HTTP client; nil gets a 20s-timeout default.
func NewGoalScanner(client *http.Client, logger *slog.Logger) *GoalScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &GoalScanner{client: client, logger: logger}
}

// Name identifies the strategy inside the registry.
func (g *GoalScanner) Name() string {
	return "goal"
}

// Scan downloads the page and returns its leagues in page order.
func (g *GoalScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawLeague, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no url provided for site %s", req.SiteName)
	}

	doc, err := g.fetchDocument(ctx, req.URL, req.Option("userAgent", defaultUserAgent))
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	date := g.sessionDate(doc, req.Option("dateSelector", defaultDateSelector))
	return extractLeagues(doc, date, g.logger), nil
}

func (g *GoalScanner) fetchDocument(ctx context.Context, pageURL, userAgent string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// sessionDate returns the page heading date in thaidate.Layout, or "" when
// the heading is missing or unrecognized.
func (g *GoalScanner) sessionDate(doc *goquery.Document, selector string) string {
	heading := strings.TrimSpace(doc.Find(selector).First().Text())
	if heading == "" {
		return ""
	}
	formatted, ok := thaidate.ToUTCFormat(heading)
	if !ok {
		if g.logger != nil {
			g.logger.Warn("unrecognized date heading", "value", heading)
		}
		return ""
	}
	return formatted
}

func extractLeagues(doc *goquery.Document, date string, logger *slog.Logger) []domain.RawLeague {
	var (
		leagues []domain.RawLeague
		orphans int
	)

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if header := row.Find("td." + leagueCellClass).First(); header.Length() > 0 {
			leagues = append(leagues, domain.RawLeague{
				Name: strings.TrimSpace(header.Text()),
				Date: date,
			})
			return
		}

		if row.Find("td."+columns[0].class).Length() == 0 {
			return
		}
		if len(leagues) == 0 {
			orphans++
			return
		}

		current := &leagues[len(leagues)-1]
		current.Matches = append(current.Matches, parseRow(row))
	})

	if orphans > 0 && logger != nil {
		logger.Warn("match rows before any league header", "count", orphans)
	}

	return leagues
}

func parseRow(row *goquery.Selection) domain.RawMatch {
	match := domain.RawMatch{}
	for _, col := range columns {
		cell := row.Find("td." + col.class).First()
		if cell.Length() == 0 {
			continue
		}

		value := domain.RawValue{Text: cell.Text()}
		if span := cell.Find("label span").First(); span.Length() > 0 {
			value.Span = span.Text()
			value.HasSpan = true
		}
		match[col.label] = value
	}
	return match
}
