package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/gamestat"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/player"
	"github.com/stretchr/testify/require"
)

func TestScoreLine_UnknownRoleScoresZero(t *testing.T) {
	t.Parallel()

	line := gamestat.Line{Goals: 1, Saves: 30, GoalsAgainst: 2}
	tests := []struct {
		role player.Role
		want float64
	}{
		{role: player.RoleForward, want: 5}, // goal 7, loss -2
		{role: player.RoleDefense, want: 7}, // goal 9, loss -2
		{role: player.RoleGoalie, want: 2},  // loss -1, saves 4, goals against -1
		{role: player.Role("X"), want: 0},
		{role: player.Role(""), want: 0},
	}

	table := testRules()
	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			got := scoreLine(table, gamestat.Candidate{Line: line, Role: tc.role})
			require.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestScoringService_Run_GoalieAboveLastTiers(t *testing.T) {
	t.Parallel()

	db := newTestDB()
	ids := db.AddStats(gamestat.Line{
		PlayerID:         goalieID,
		MatchID:          matchTORMTL,
		Saves:            120,
		GoalsAgainst:     150,
		TimeOnIceSeconds: 3600,
		IsStarter:        true,
	})

	run, err := newScoringService(db, 10).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, run.Processed)

	// only the loss counts: both tier tables stop at 99.
	line, _ := db.Stat(ids[0])
	require.True(t, line.IsProcessed)
	require.InDelta(t, -1, line.PointsEarned, 1e-9)
}
