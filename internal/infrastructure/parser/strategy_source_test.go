package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"GoalWatcher/internal/config"
	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/scanner"
)

func TestStrategySourceSkipsFailingSites(t *testing.T) {
	t.Parallel()

	reg := scanner.NewRegistry()
	reg.Register(stubScanner{name: "ok", leagues: []domain.RawLeague{{Name: "EPL"}, {Name: "La Liga"}}})
	reg.Register(stubScanner{name: "down", err: errors.New("timeout")})

	src := NewStrategySource(reg, []config.SiteConfig{
		{Name: "broken", Scanner: "down", URL: "http://a"},
		{Name: "unknown", Scanner: "missing", URL: "http://b"},
		{Name: "main", Scanner: "ok", URL: "http://c"},
	}, nil)

	leagues, err := src.Fetch(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(leagues) != 2 || leagues[0].Name != "EPL" {
		t.Fatalf("unexpected leagues: %+v", leagues)
	}
}

func TestStrategySourceAllSitesFail(t *testing.T) {
	t.Parallel()

	reg := scanner.NewRegistry()
	reg.Register(stubScanner{name: "down", err: errors.New("timeout")})

	src := NewStrategySource(reg, []config.SiteConfig{{Name: "broken", Scanner: "down", URL: "http://a"}}, nil)
	if _, err := src.Fetch(context.Background(), time.Now()); err == nil {
		t.Fatalf("expected error when every site fails")
	}
}
