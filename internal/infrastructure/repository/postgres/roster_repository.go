package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	qb "github.com/riskibarqy/fantasy-hockey/internal/platform/querybuilder"
)

const rosterInsertChunk = 500

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// Append inserts entries in one transaction. Rows already recorded for the
// same team, player and date are left untouched.
func (r *RosterRepository) Append(ctx context.Context, entries []roster.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx append roster history: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	inserted := 0
	for start := 0; start < len(entries); start += rosterInsertChunk {
		end := start + rosterInsertChunk
		if end > len(entries) {
			end = len(entries)
		}

		builder := qb.InsertInto("roster_history").
			Columns("team_id", "player_id", "game_date", "is_captain").
			Suffix("ON CONFLICT (team_id, player_id, game_date) DO NOTHING")
		for _, entry := range entries[start:end] {
			builder.Values(entry.TeamID, entry.PlayerID, calendar.Format(entry.GameDate), entry.IsCaptain)
		}

		query, args, err := builder.Build()
		if err != nil {
			return 0, fmt.Errorf("build insert roster history query: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("insert roster history: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert roster history rows affected: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx append roster history: %w", err)
	}
	return inserted, nil
}

func (r *RosterRepository) ListByTeamOn(ctx context.Context, teamID int64, date time.Time) ([]roster.Entry, error) {
	query, args, err := qb.Select("team_id", "player_id", "game_date", "is_captain").
		From("roster_history").
		Where(
			qb.Eq("team_id", teamID),
			qb.OnDate("game_date", calendar.Format(date)),
		).
		OrderBy("player_id").
		Build()
	if err != nil {
		return nil, fmt.Errorf("build select roster history query: %w", err)
	}

	var rows []rosterHistoryModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select roster history: %w", err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.Entry{
			TeamID:    row.TeamID,
			PlayerID:  row.PlayerID,
			GameDate:  dateOnly(row.GameDate),
			IsCaptain: row.IsCaptain,
		})
	}
	return out, nil
}

func (r *RosterRepository) ListActivePicks(ctx context.Context) ([]roster.ActivePick, error) {
	query, args, err := qb.Select("team_id", "player_id", "is_captain").
		From("fantasy_team_players").
		OrderBy("team_id", "player_id").
		Build()
	if err != nil {
		return nil, fmt.Errorf("build select active picks query: %w", err)
	}

	var rows []activePickModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active picks: %w", err)
	}

	out := make([]roster.ActivePick, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.ActivePick{TeamID: row.TeamID, PlayerID: row.PlayerID, IsCaptain: row.IsCaptain})
	}
	return out, nil
}
