package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	qb "github.com/riskibarqy/fantasy-hockey/internal/platform/querybuilder"
)

var (
	leagueColumns = []string{"l.league_id", "l.name", "l.creator_id"}
	teamColumns   = []string{
		"t.team_id", "t.team_name", "t.user_id",
		"COALESCE(u.username, '') AS owner_name",
		"t.budget_remaining", "t.total_points",
	}
	periodColumns = []string{"period_id", "name", "start_date", "end_date"}
)

const updateTotalsQuery = `UPDATE fantasy_teams AS t
SET total_points = v.total
FROM UNNEST($1::bigint[], $2::numeric[]) AS v(team_id, total)
WHERE t.team_id = v.team_id`

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	query, args, err := qb.Select(leagueColumns...).
		From("leagues l").
		Where(qb.Eq("l.league_id", leagueID)).
		Limit(1).
		Build()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build select league by id query: %w", err)
	}

	var row leagueModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select(leagueColumns...).
		From("leagues l").
		OrderBy("l.league_id").
		Build()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}
	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LeagueRepository) ListMemberTeams(ctx context.Context, leagueID int64) ([]league.Team, error) {
	return selectMemberTeams(ctx, r.db, leagueID)
}

func (r *LeagueRepository) GetPeriod(ctx context.Context, periodID int64) (league.ScoringPeriod, bool, error) {
	query, args, err := qb.Select(periodColumns...).
		From("scoring_periods").
		Where(qb.Eq("period_id", periodID)).
		Limit(1).
		Build()
	if err != nil {
		return league.ScoringPeriod{}, false, fmt.Errorf("build select scoring period query: %w", err)
	}
	return r.getPeriod(ctx, query, args)
}

func (r *LeagueRepository) GetPeriodContaining(ctx context.Context, date time.Time) (league.ScoringPeriod, bool, error) {
	day := calendar.Format(date)
	query, args, err := qb.Select(periodColumns...).
		From("scoring_periods").
		Where(
			qb.DateLte("start_date", day),
			qb.DateGte("end_date", day),
		).
		OrderBy("start_date").
		Limit(1).
		Build()
	if err != nil {
		return league.ScoringPeriod{}, false, fmt.Errorf("build select scoring period by date query: %w", err)
	}
	return r.getPeriod(ctx, query, args)
}

func (r *LeagueRepository) getPeriod(ctx context.Context, query string, args []any) (league.ScoringPeriod, bool, error) {
	var row scoringPeriodModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.ScoringPeriod{}, false, nil
		}
		return league.ScoringPeriod{}, false, fmt.Errorf("select scoring period: %w", err)
	}
	return row.toDomain(), true, nil
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (league.Team, bool, error) {
	query, args, err := teamSelect().
		Where(qb.Eq("t.team_id", teamID)).
		Limit(1).
		Build()
	if err != nil {
		return league.Team{}, false, fmt.Errorf("build select fantasy team by id query: %w", err)
	}

	var row fantasyTeamModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Team{}, false, nil
		}
		return league.Team{}, false, fmt.Errorf("select fantasy team by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]league.Team, error) {
	query, args, err := teamSelect().OrderBy("t.team_id").Build()
	if err != nil {
		return nil, fmt.Errorf("build select fantasy teams query: %w", err)
	}

	var rows []fantasyTeamModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fantasy teams: %w", err)
	}
	return toTeams(rows), nil
}

// UpdateTotalPoints writes every total in a single statement.
func (r *TeamRepository) UpdateTotalPoints(ctx context.Context, totals map[int64]float64) error {
	if len(totals) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	points := make([]float64, 0, len(ids))
	for _, id := range ids {
		points = append(points, totals[id])
	}

	if _, err := r.db.ExecContext(ctx, updateTotalsQuery, pq.Array(ids), pq.Array(points)); err != nil {
		return fmt.Errorf("update fantasy team totals: %w", err)
	}
	return nil
}

type queryer interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func selectMemberTeams(ctx context.Context, db queryer, leagueID int64) ([]league.Team, error) {
	query, args, err := teamSelect().
		Join("JOIN league_members lm ON lm.team_id = t.team_id").
		Where(qb.Eq("lm.league_id", leagueID)).
		OrderBy("t.team_id").
		Build()
	if err != nil {
		return nil, fmt.Errorf("build select league member teams query: %w", err)
	}

	var rows []fantasyTeamModel
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select league member teams: %w", err)
	}
	return toTeams(rows), nil
}

func teamSelect() *qb.SelectQuery {
	return qb.Select(teamColumns...).
		From("fantasy_teams t").
		Join("LEFT JOIN users u ON u.user_id = t.user_id")
}

func toTeams(rows []fantasyTeamModel) []league.Team {
	out := make([]league.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

func (m leagueModel) toDomain() league.League {
	return league.League{ID: m.ID, Name: m.Name, CreatorID: m.CreatorID}
}

func (m fantasyTeamModel) toDomain() league.Team {
	return league.Team{
		ID:              m.ID,
		Name:            m.Name,
		OwnerID:         m.OwnerID,
		OwnerName:       m.OwnerName,
		BudgetRemaining: m.BudgetRemaining,
		TotalPoints:     m.TotalPoints,
	}
}

func (m scoringPeriodModel) toDomain() league.ScoringPeriod {
	return league.ScoringPeriod{
		ID:        m.ID,
		Name:      m.Name,
		StartDate: dateOnly(m.StartDate),
		EndDate:   dateOnly(m.EndDate),
	}
}
