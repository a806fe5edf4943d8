package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"GoalWatcher/internal/config"
	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/ports"
	"GoalWatcher/internal/scanner"
)

// StrategySource implements MatchSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.MatchSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// Fetch runs every configured site and concatenates their leagues in site
// order. A failing site is skipped; an error is returned only when no site
// produced anything.
func (s *StrategySource) Fetch(ctx context.Context, day time.Time) ([]domain.RawLeague, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch", "sites", len(s.sites), "day", day.Format("2006-01-02"))

	var (
		aggregated []domain.RawLeague
		errs       []error
	)
	for _, site := range s.sites {
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			errs = append(errs, fmt.Errorf("site %s: %w", site.Name, err))
			continue
		}

		req := scanner.Request{
			Day:      day,
			SiteName: site.Name,
			URL:      site.URL,
			Options:  site.Options,
		}

		leagues, err := strategy.Scan(ctx, req)
		if err != nil {
			errs = append(errs, fmt.Errorf("scan site %s: %w", site.Name, err))
			if s.logger != nil {
				s.logger.Warn("site scan failed", "site", site.Name, "error", err)
			}
			continue
		}

		s.debug("site produced leagues", "site", site.Name, "leagues", len(leagues))
		aggregated = append(aggregated, leagues...)
	}

	if len(aggregated) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	s.debug("strategy source done", "total_leagues", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
