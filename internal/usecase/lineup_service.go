package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

type LineupConfig struct {
	Location  *time.Location
	Boundary  time.Duration
	Formation lineup.Formation
}

type NightlyLeaders struct {
	Window lineup.Window
	Best   lineup.Lineup
	Worst  lineup.Lineup
}

// LineupService picks the best and worst single-night lineups across all players.
type LineupService struct {
	repo   lineup.Repository
	cfg    LineupConfig
	logger *logging.Logger
}

func NewLineupService(repo lineup.Repository, cfg LineupConfig, logger *logging.Logger) *LineupService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Boundary < 0 {
		cfg.Boundary = lineup.DefaultBoundary
	}
	if len(cfg.Formation) == 0 {
		cfg.Formation = lineup.DefaultFormation()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LineupService{repo: repo, cfg: cfg, logger: logger}
}

// Nightly selects the lineup of the latest game night. With no processed
// match yet the lineup is empty.
func (s *LineupService) Nightly(ctx context.Context, order lineup.Order) (lineup.Lineup, error) {
	ctx, span := startSpan(ctx, "usecase.LineupService.Nightly")
	defer span.End()

	if _, err := lineup.ParseOrder(string(order)); err != nil {
		return lineup.Lineup{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	night, ok, err := s.loadNight(ctx)
	if err != nil || !ok {
		return lineup.Lineup{Order: order}, err
	}
	return s.pick(night, order), nil
}

// NightlyLeaders selects best and worst lineups from one read of the night,
// so both reflect the same scored state.
func (s *LineupService) NightlyLeaders(ctx context.Context) (NightlyLeaders, error) {
	ctx, span := startSpan(ctx, "usecase.LineupService.NightlyLeaders")
	defer span.End()

	out := NightlyLeaders{
		Best:  lineup.Lineup{Order: lineup.OrderBest},
		Worst: lineup.Lineup{Order: lineup.OrderWorst},
	}
	night, ok, err := s.loadNight(ctx)
	if err != nil {
		return NightlyLeaders{}, err
	}
	if !ok {
		return out, nil
	}
	out.Window = night.Window

	p := pool.New()
	p.Go(func() { out.Best = s.pick(night, lineup.OrderBest) })
	p.Go(func() { out.Worst = s.pick(night, lineup.OrderWorst) })
	p.Wait()
	return out, nil
}

func (s *LineupService) loadNight(ctx context.Context) (lineup.Night, bool, error) {
	night, ok, err := s.repo.LoadNight(ctx, func(latest time.Time) lineup.Window {
		return lineup.ResolveWindow(latest, s.cfg.Location, s.cfg.Boundary)
	})
	if err != nil {
		return lineup.Night{}, false, fmt.Errorf("load game night: %w", err)
	}
	if !ok {
		s.logger.InfoContext(ctx, "no processed match yet, lineup is empty")
	}
	return night, ok, nil
}

func (s *LineupService) pick(night lineup.Night, order lineup.Order) lineup.Lineup {
	return lineup.Lineup{
		Window:  night.Window,
		Order:   order,
		Players: lineup.Select(night.Performances, s.cfg.Formation, order),
	}
}
