package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/standing"
	qb "github.com/riskibarqy/fantasy-hockey/internal/platform/querybuilder"
)

var creditedLineColumns = []string{
	"rh.team_id", "rh.player_id", "m.match_id", "rh.game_date", "rh.is_captain", "s.points_earned",
}

// StandingsReader credits a processed stat line to a team only when the
// player sat on that team's ledger on the match's local game date.
type StandingsReader struct {
	db  *sqlx.DB
	loc *time.Location
}

func NewStandingsReader(db *sqlx.DB, loc *time.Location) *StandingsReader {
	return &StandingsReader{db: db, loc: loc}
}

// LoadLeague reads member teams and their credited lines from one snapshot.
func (r *StandingsReader) LoadLeague(ctx context.Context, leagueID int64, window *calendar.Range) ([]league.Team, []standing.CreditedLine, error) {
	var (
		teams []league.Team
		lines []standing.CreditedLine
	)

	err := readSnapshot(ctx, r.db, "load league standings", func(tx *sqlx.Tx) error {
		var err error
		teams, err = selectMemberTeams(ctx, tx, leagueID)
		if err != nil {
			return err
		}

		builder := r.creditedSelect().
			Join("JOIN league_members lm ON lm.team_id = rh.team_id").
			Where(qb.Eq("lm.league_id", leagueID))
		if window != nil {
			builder = withinWindow(builder, *window)
		}
		lines, err = selectCreditedLines(ctx, tx, builder)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return teams, lines, nil
}

func (r *StandingsReader) ListCreditedLinesByTeam(ctx context.Context, teamID int64, window calendar.Range) ([]standing.CreditedLine, error) {
	builder := withinWindow(r.creditedSelect().Where(qb.Eq("rh.team_id", teamID)), window)
	return selectCreditedLines(ctx, r.db, builder)
}

func (r *StandingsReader) ListCreditedLines(ctx context.Context) ([]standing.CreditedLine, error) {
	return selectCreditedLines(ctx, r.db, r.creditedSelect())
}

func (r *StandingsReader) creditedSelect() *qb.SelectQuery {
	return qb.Select(creditedLineColumns...).
		From("roster_history rh").
		Join("JOIN player_game_stats s ON s.player_id = rh.player_id").
		Join("JOIN matches m ON m.match_id = s.match_id").
		Where(
			qb.Eq("s.is_processed", true),
			qb.Expr("(m.scheduled_at AT TIME ZONE ?)::date = rh.game_date", zoneName(r.loc)),
		)
}

func withinWindow(builder *qb.SelectQuery, window calendar.Range) *qb.SelectQuery {
	return builder.Where(qb.DateWithin("rh.game_date", calendar.Format(window.Start), calendar.Format(window.End)))
}

func selectCreditedLines(ctx context.Context, db queryer, builder *qb.SelectQuery) ([]standing.CreditedLine, error) {
	query, args, err := builder.OrderBy("rh.team_id", "rh.game_date", "rh.player_id", "m.match_id").Build()
	if err != nil {
		return nil, fmt.Errorf("build select credited lines query: %w", err)
	}

	var rows []creditedLineModel
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select credited lines: %w", err)
	}

	out := make([]standing.CreditedLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.CreditedLine{
			TeamID:    row.TeamID,
			PlayerID:  row.PlayerID,
			MatchID:   row.MatchID,
			GameDate:  dateOnly(row.GameDate),
			IsCaptain: row.IsCaptain,
			Points:    row.Points,
		})
	}
	return out, nil
}
