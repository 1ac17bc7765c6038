package league

import (
	"context"
	"time"
)

// Repository describes league and scoring period reads needed by standings.
type Repository interface {
	GetByID(ctx context.Context, leagueID int64) (League, bool, error)
	List(ctx context.Context) ([]League, error)
	ListMemberTeams(ctx context.Context, leagueID int64) ([]Team, error)
	GetPeriod(ctx context.Context, periodID int64) (ScoringPeriod, bool, error)
	GetPeriodContaining(ctx context.Context, date time.Time) (ScoringPeriod, bool, error)
}

// TeamRepository owns the cached team totals.
type TeamRepository interface {
	GetByID(ctx context.Context, teamID int64) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	UpdateTotalPoints(ctx context.Context, totals map[int64]float64) error
}
