package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-hockey/internal/platform/querybuilder"
)

var performanceColumns = append(append([]string(nil), candidateColumns...),
	"p.first_name", "p.last_name", "p.team_abbrev", "m.scheduled_at",
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

// LoadNight resolves the game night and reads its performances inside one
// read-only snapshot, so a scoring batch committing meanwhile is invisible.
func (r *LineupRepository) LoadNight(ctx context.Context, resolve lineup.WindowFunc) (lineup.Night, bool, error) {
	var (
		night lineup.Night
		found bool
	)
	err := readSnapshot(ctx, r.db, "load game night", func(tx *sqlx.Tx) error {
		latest, ok, err := latestProcessedMatchAt(ctx, tx)
		if err != nil || !ok {
			return err
		}
		found = true
		night.Window = resolve(latest)
		night.Performances, err = listPerformances(ctx, tx, night.Window)
		return err
	})
	if err != nil {
		return lineup.Night{}, false, err
	}
	return night, found, nil
}

func latestProcessedMatchAt(ctx context.Context, tx *sqlx.Tx) (time.Time, bool, error) {
	query, args, err := qb.Select("MAX(scheduled_at)").
		From("matches").
		Where(qb.Eq("is_processed", true)).
		Build()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build select latest processed match query: %w", err)
	}

	var latest sql.NullTime
	if err := tx.GetContext(ctx, &latest, query, args...); err != nil {
		return time.Time{}, false, fmt.Errorf("select latest processed match: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}
	return latest.Time, true, nil
}

// listPerformances returns scored lines whose match starts inside window.
func listPerformances(ctx context.Context, db queryer, window lineup.Window) ([]lineup.Performance, error) {
	query, args, err := qb.Select(performanceColumns...).
		From("player_game_stats s").
		Join("JOIN players p ON p.player_id = s.player_id").
		Join("JOIN matches m ON m.match_id = s.match_id").
		Where(
			qb.Eq("s.is_processed", true),
			qb.Eq("m.is_processed", true),
			qb.Gte("m.scheduled_at", window.Start),
			qb.Lt("m.scheduled_at", window.End),
		).
		OrderBy("s.player_id", "m.scheduled_at", "m.match_id").
		Build()
	if err != nil {
		return nil, fmt.Errorf("build select performances query: %w", err)
	}

	var rows []performanceModel
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select performances: %w", err)
	}

	out := make([]lineup.Performance, 0, len(rows))
	for _, row := range rows {
		stats := row.toLine()
		stats.IsProcessed = true
		out = append(out, lineup.Performance{
			PlayerID:    row.PlayerID,
			PlayerName:  player.Player{FirstName: row.FirstName, LastName: row.LastName}.Name(),
			Role:        player.Role(row.Position),
			TeamAbbrev:  row.TeamAbbrev,
			MatchID:     row.MatchID,
			ScheduledAt: row.ScheduledAt,
			Points:      row.PointsEarned,
			Stats:       stats,
		})
	}
	return out, nil
}
