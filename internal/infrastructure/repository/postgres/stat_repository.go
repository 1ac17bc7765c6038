package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/gamestat"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-hockey/internal/platform/querybuilder"
)

var candidateColumns = []string{
	"s.stat_id", "s.player_id", "s.match_id", "p.position",
	"s.goals", "s.assists", "s.sog", "s.hits", "s.blocked_shots",
	"s.giveaways", "s.takeaways", "s.power_play_goals", "s.pim", "s.toi_seconds",
	"s.saves", "s.goals_against", "s.shots_against", "s.is_starter",
	"s.is_win", "s.is_shutout", "s.points_earned",
}

const deriveOutcomesQuery = `UPDATE player_game_stats AS s
SET is_win = COALESCE(
        (p.team_abbrev = m.home_team_abbrev AND m.home_score > m.away_score)
     OR (p.team_abbrev = m.away_team_abbrev AND m.away_score > m.home_score), FALSE),
    is_shutout = (p.position = 'G' AND s.goals_against = 0 AND (s.toi_seconds > 0 OR s.is_starter))
FROM players p, matches m
WHERE p.player_id = s.player_id
  AND m.match_id = s.match_id
  AND m.is_processed = TRUE
  AND s.is_processed = FALSE`

const applyPointsQuery = `UPDATE player_game_stats AS s
SET points_earned = v.points, is_processed = TRUE
FROM UNNEST($1::bigint[], $2::numeric[]) AS v(stat_id, points)
WHERE s.stat_id = v.stat_id AND s.is_processed = FALSE`

type StatRepository struct {
	db *sqlx.DB
}

func NewStatRepository(db *sqlx.DB) *StatRepository {
	return &StatRepository{db: db}
}

func (r *StatRepository) DeriveOutcomes(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, deriveOutcomesQuery)
	if err != nil {
		return 0, fmt.Errorf("derive match outcomes: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("derive match outcomes rows affected: %w", err)
	}
	return affected, nil
}

func (r *StatRepository) CountEligible(ctx context.Context) (int, error) {
	query, args, err := eligibleSelect("COUNT(*)").Build()
	if err != nil {
		return 0, fmt.Errorf("build count eligible stats query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count eligible stats: %w", err)
	}
	return count, nil
}

// ScoreBatch locks the next limit eligible rows, scores them and writes all
// points in one statement. Any failure rolls the whole batch back.
func (r *StatRepository) ScoreBatch(ctx context.Context, limit int, score gamestat.Scorer) (int, error) {
	if limit <= 0 {
		return 0, fmt.Errorf("batch limit must be positive, got %d", limit)
	}

	query, args, err := eligibleSelect(candidateColumns...).
		OrderBy("s.stat_id").
		Limit(limit).
		Suffix("FOR UPDATE OF s").
		Build()
	if err != nil {
		return 0, fmt.Errorf("build select scoring batch query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx score batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var rows []scoringCandidateModel
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return 0, fmt.Errorf("select scoring batch: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(rows))
	points := make([]float64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.StatID)
		points = append(points, score(row.toCandidate()))
	}

	res, err := tx.ExecContext(ctx, applyPointsQuery, pq.Array(ids), pq.Array(points))
	if err != nil {
		return 0, fmt.Errorf("apply scoring batch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("apply scoring batch rows affected: %w", err)
	}
	if int(affected) != len(rows) {
		return 0, fmt.Errorf("apply scoring batch: updated %d of %d locked rows", affected, len(rows))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit score batch tx: %w", err)
	}
	return len(rows), nil
}

func (r *StatRepository) ResetAll(ctx context.Context) (int64, error) {
	query, args, err := qb.Update("player_game_stats").
		Set("points_earned", 0).
		Set("is_processed", false).
		Build()
	if err != nil {
		return 0, fmt.Errorf("build reset stats query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset stats: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset stats rows affected: %w", err)
	}
	return affected, nil
}

func eligibleSelect(columns ...string) *qb.SelectQuery {
	return qb.Select(columns...).
		From("player_game_stats s").
		Join("JOIN players p ON p.player_id = s.player_id").
		Join("JOIN matches m ON m.match_id = s.match_id").
		Where(
			qb.Eq("s.is_processed", false),
			qb.Eq("m.is_processed", true),
		)
}

func (m scoringCandidateModel) toLine() gamestat.Line {
	return gamestat.Line{
		ID:               m.StatID,
		PlayerID:         m.PlayerID,
		MatchID:          m.MatchID,
		Goals:            m.Goals,
		Assists:          m.Assists,
		ShotsOnGoal:      m.ShotsOnGoal,
		Hits:             m.Hits,
		BlockedShots:     m.BlockedShots,
		Giveaways:        m.Giveaways,
		Takeaways:        m.Takeaways,
		PowerPlayGoals:   m.PowerPlayGoals,
		TimeOnIceSeconds: m.TimeOnIceSeconds,
		PenaltyMinutes:   m.PenaltyMinutes,
		Saves:            m.Saves,
		GoalsAgainst:     m.GoalsAgainst,
		ShotsAgainst:     m.ShotsAgainst,
		IsStarter:        m.IsStarter,
		IsWin:            m.IsWin,
		IsShutout:        m.IsShutout,
		PointsEarned:     m.PointsEarned,
	}
}

func (m scoringCandidateModel) toCandidate() gamestat.Candidate {
	return gamestat.Candidate{Line: m.toLine(), Role: player.Role(m.Position)}
}
