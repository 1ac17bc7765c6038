package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	basecache "github.com/riskibarqy/fantasy-hockey/internal/platform/cache"
)

// LeagueRepository caches league, membership and scoring period metadata.
// Scored points never pass through it.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

type lookup[T any] struct {
	value T
	found bool
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	key := "league:id:" + strconv.FormatInt(leagueID, 10)
	out, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (lookup[league.League], error) {
		item, found, err := r.next.GetByID(ctx, leagueID)
		return lookup[league.League]{value: item, found: found}, err
	})
	if err != nil {
		return league.League{}, false, err
	}
	return out.value, out.found, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	items, err := basecache.Load(ctx, r.cache, "league:list", r.next.List)
	if err != nil {
		return nil, err
	}
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) ListMemberTeams(ctx context.Context, leagueID int64) ([]league.Team, error) {
	key := "league:members:" + strconv.FormatInt(leagueID, 10)
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]league.Team, error) {
		return r.next.ListMemberTeams(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}
	return append([]league.Team(nil), items...), nil
}

func (r *LeagueRepository) GetPeriod(ctx context.Context, periodID int64) (league.ScoringPeriod, bool, error) {
	key := "league:period:id:" + strconv.FormatInt(periodID, 10)
	out, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (lookup[league.ScoringPeriod], error) {
		item, found, err := r.next.GetPeriod(ctx, periodID)
		return lookup[league.ScoringPeriod]{value: item, found: found}, err
	})
	if err != nil {
		return league.ScoringPeriod{}, false, err
	}
	return out.value, out.found, nil
}

func (r *LeagueRepository) GetPeriodContaining(ctx context.Context, date time.Time) (league.ScoringPeriod, bool, error) {
	key := "league:period:date:" + calendar.Format(date)
	out, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (lookup[league.ScoringPeriod], error) {
		item, found, err := r.next.GetPeriodContaining(ctx, date)
		return lookup[league.ScoringPeriod]{value: item, found: found}, err
	})
	if err != nil {
		return league.ScoringPeriod{}, false, err
	}
	return out.value, out.found, nil
}
