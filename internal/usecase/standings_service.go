package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/standing"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/cache"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	standingsCachePrefix   = "standings:"
	defaultWarmWorkerCount = 4
)

type StandingsConfig struct {
	CaptainMultiplier float64
	Location          *time.Location
	WarmWorkers       int
}

type PeriodStandings struct {
	Period league.ScoringPeriod `json:"period"`
	Rows   []standing.Row       `json:"rows"`
}

type WarmResult struct {
	Leagues int `json:"leagues"`
	Warmed  int `json:"warmed"`
	Failed  int `json:"failed"`
}

// StandingsService ranks fantasy teams from the roster ledger and scored lines.
type StandingsService struct {
	leagueRepo league.Repository
	teamRepo   league.TeamRepository
	reader     standing.Reader
	cache      *cache.Store
	cfg        StandingsConfig
	logger     *logging.Logger
	now        func() time.Time
}

// NewStandingsService builds the service; a nil store disables caching.
func NewStandingsService(
	leagueRepo league.Repository,
	teamRepo league.TeamRepository,
	reader standing.Reader,
	store *cache.Store,
	cfg StandingsConfig,
	logger *logging.Logger,
) *StandingsService {
	if cfg.CaptainMultiplier <= 0 {
		cfg.CaptainMultiplier = standing.DefaultCaptainMultiplier
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.WarmWorkers <= 0 {
		cfg.WarmWorkers = defaultWarmWorkerCount
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		reader:     reader,
		cache:      store,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *StandingsService) Season(ctx context.Context, leagueID int64) ([]standing.Row, error) {
	ctx, span := startSpan(ctx, "usecase.StandingsService.Season", leagueAttr(leagueID))
	defer span.End()

	if err := s.ensureLeague(ctx, leagueID); err != nil {
		return nil, failSpan(span, err)
	}

	key := standingsCachePrefix + "season:" + strconv.FormatInt(leagueID, 10)
	rows, err := cache.Load(ctx, s.cache, key, func(ctx context.Context) ([]standing.Row, error) {
		return s.rank(ctx, leagueID, nil)
	})
	if err != nil {
		return nil, failSpan(span, err)
	}
	return append([]standing.Row(nil), rows...), nil
}

func (s *StandingsService) Period(ctx context.Context, leagueID, periodID int64) (PeriodStandings, error) {
	ctx, span := startSpan(ctx, "usecase.StandingsService.Period",
		leagueAttr(leagueID), attribute.Int64("fantasy.period_id", periodID))
	defer span.End()

	if err := s.ensureLeague(ctx, leagueID); err != nil {
		return PeriodStandings{}, failSpan(span, err)
	}
	period, ok, err := s.leagueRepo.GetPeriod(ctx, periodID)
	if err != nil {
		return PeriodStandings{}, fmt.Errorf("get scoring period: %w", err)
	}
	if !ok {
		return PeriodStandings{}, fmt.Errorf("%w: scoring period=%d", ErrNotFound, periodID)
	}
	return s.periodStandings(ctx, leagueID, period)
}

// CurrentPeriod returns the scoring period containing today's game day.
func (s *StandingsService) CurrentPeriod(ctx context.Context) (league.ScoringPeriod, error) {
	ctx, span := startSpan(ctx, "usecase.StandingsService.CurrentPeriod")
	defer span.End()

	today := calendar.Date(s.now(), s.cfg.Location)
	period, ok, err := s.leagueRepo.GetPeriodContaining(ctx, today)
	if err != nil {
		return league.ScoringPeriod{}, fmt.Errorf("get scoring period containing %s: %w", calendar.Format(today), err)
	}
	if !ok {
		return league.ScoringPeriod{}, fmt.Errorf("%w: date=%s", ErrNoActivePeriod, calendar.Format(today))
	}
	return period, nil
}

// CurrentPeriodStandings fails with ErrNoActivePeriod rather than picking a period.
func (s *StandingsService) CurrentPeriodStandings(ctx context.Context, leagueID int64) (PeriodStandings, error) {
	ctx, span := startSpan(ctx, "usecase.StandingsService.CurrentPeriodStandings", leagueAttr(leagueID))
	defer span.End()

	if err := s.ensureLeague(ctx, leagueID); err != nil {
		return PeriodStandings{}, err
	}
	period, err := s.CurrentPeriod(ctx)
	if err != nil {
		return PeriodStandings{}, err
	}
	return s.periodStandings(ctx, leagueID, period)
}

func (s *StandingsService) periodStandings(ctx context.Context, leagueID int64, period league.ScoringPeriod) (PeriodStandings, error) {
	window, err := period.Range()
	if err != nil {
		return PeriodStandings{}, fmt.Errorf("%w: scoring period=%d: %v", ErrInvalidInput, period.ID, err)
	}

	key := standingsCachePrefix + "period:" + strconv.FormatInt(leagueID, 10) + ":" + strconv.FormatInt(period.ID, 10)
	rows, err := cache.Load(ctx, s.cache, key, func(ctx context.Context) ([]standing.Row, error) {
		return s.rank(ctx, leagueID, &window)
	})
	if err != nil {
		return PeriodStandings{}, err
	}
	return PeriodStandings{Period: period, Rows: append([]standing.Row(nil), rows...)}, nil
}

func (s *StandingsService) rank(ctx context.Context, leagueID int64, window *calendar.Range) ([]standing.Row, error) {
	teams, lines, err := s.reader.LoadLeague(ctx, leagueID, window)
	if err != nil {
		return nil, fmt.Errorf("load standings inputs for league=%d: %w", leagueID, err)
	}
	return standing.Aggregate(teams, lines, s.cfg.CaptainMultiplier), nil
}

// TeamPerformance returns one point per day of the period, zero-filled.
func (s *StandingsService) TeamPerformance(ctx context.Context, teamID, periodID int64) ([]standing.DailyPoint, error) {
	ctx, span := startSpan(ctx, "usecase.StandingsService.TeamPerformance",
		teamAttr(teamID), attribute.Int64("fantasy.period_id", periodID))
	defer span.End()

	if _, ok, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("get fantasy team: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("%w: fantasy team=%d", ErrNotFound, teamID)
	}

	period, ok, err := s.leagueRepo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("get scoring period: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: scoring period=%d", ErrNotFound, periodID)
	}
	window, err := period.Range()
	if err != nil {
		return nil, fmt.Errorf("%w: scoring period=%d: %v", ErrInvalidInput, periodID, err)
	}

	lines, err := s.reader.ListCreditedLinesByTeam(ctx, teamID, window)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("list credited lines for team=%d: %w", teamID, err))
	}
	return standing.DailySeries(lines, window, s.cfg.CaptainMultiplier), nil
}

// RecomputeTeamTotals rewrites every team's cached total from the ledger.
func (s *StandingsService) RecomputeTeamTotals(ctx context.Context) (map[int64]float64, error) {
	ctx, span := startSpan(ctx, "usecase.StandingsService.RecomputeTeamTotals")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fantasy teams: %w", err)
	}
	lines, err := s.reader.ListCreditedLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("list credited lines: %w", err)
	}

	computed := standing.TeamTotals(lines, s.cfg.CaptainMultiplier)
	totals := make(map[int64]float64, len(teams))
	for _, team := range teams {
		totals[team.ID] = computed[team.ID]
	}
	if len(totals) == 0 {
		return totals, nil
	}

	if err := s.teamRepo.UpdateTotalPoints(ctx, totals); err != nil {
		return nil, failSpan(span, fmt.Errorf("update team totals: %w", err))
	}
	s.Invalidate(ctx)

	s.logger.InfoContext(ctx, "team totals recomputed", "teams", len(totals))
	return totals, nil
}

// WarmSeasonStandings loads full-season standings for every league into the cache.
func (s *StandingsService) WarmSeasonStandings(ctx context.Context) (WarmResult, error) {
	ctx, span := startSpan(ctx, "usecase.StandingsService.WarmSeasonStandings")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return WarmResult{}, fmt.Errorf("list leagues: %w", err)
	}
	result := WarmResult{Leagues: len(leagues)}
	if len(leagues) == 0 {
		return result, nil
	}

	workerCount := s.cfg.WarmWorkers
	if workerCount > len(leagues) {
		workerCount = len(leagues)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return result, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		errs    []error
		workers sync.WaitGroup
	)
	for _, item := range leagues {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			_, warmErr := s.Season(ctx, item.ID)

			mu.Lock()
			defer mu.Unlock()
			if warmErr != nil {
				result.Failed++
				errs = append(errs, fmt.Errorf("league=%d: %w", item.ID, warmErr))
				return
			}
			result.Warmed++
		}); err != nil {
			workers.Done()
			workers.Wait()
			return result, fmt.Errorf("submit warm-up task to worker pool: %w", err)
		}
	}
	workers.Wait()

	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	s.logger.InfoContext(ctx, "season standings warmed",
		"leagues", result.Leagues,
		"warmed", result.Warmed,
		"failed", result.Failed,
	)
	return result, errors.Join(errs...)
}

// Invalidate drops every cached standings table.
func (s *StandingsService) Invalidate(ctx context.Context) {
	removed := s.cache.Invalidate(ctx, standingsCachePrefix)
	if removed > 0 {
		s.logger.DebugContext(ctx, "standings cache invalidated", "entries", removed)
	}
}

func (s *StandingsService) ensureLeague(ctx context.Context, leagueID int64) error {
	if leagueID <= 0 {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	_, ok, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: league=%d", ErrNotFound, leagueID)
	}
	return nil
}
