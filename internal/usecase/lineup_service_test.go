package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/gamestat"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/match"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/player"
	"github.com/riskibarqy/fantasy-hockey/internal/infrastructure/repository/memory"
	lineupmock "github.com/riskibarqy/fantasy-hockey/internal/mocks/domain/lineup"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLineupService(db *memory.DB) *LineupService {
	return NewLineupService(memory.NewLineupRepository(db), LineupConfig{
		Location: time.UTC,
		Boundary: lineup.DefaultBoundary,
	}, newTestLogger())
}

// seedNight adds a night with a late game after midnight UTC and an older
// game outside the window.
func seedNight(db *memory.DB) {
	db.AddPlayers(
		player.Player{ID: 201, FirstName: "A", LastName: "One", Role: player.RoleForward, TeamAbbrev: "EDM"},
		player.Player{ID: 202, FirstName: "B", LastName: "Two", Role: player.RoleForward, TeamAbbrev: "EDM"},
		player.Player{ID: 203, FirstName: "C", LastName: "Three", Role: player.RoleDefense, TeamAbbrev: "VAN"},
	)
	db.AddMatches(
		match.Match{
			ID: 10, HomeTeamAbbrev: "VAN", AwayTeamAbbrev: "EDM",
			ScheduledAt: time.Date(2025, 1, 11, 3, 0, 0, 0, time.UTC),
			HomeScore:   intPtr(1), AwayScore: intPtr(5), IsProcessed: true,
		},
		match.Match{
			ID: 11, HomeTeamAbbrev: "EDM", AwayTeamAbbrev: "VAN",
			ScheduledAt: time.Date(2025, 1, 8, 3, 0, 0, 0, time.UTC),
			HomeScore:   intPtr(2), AwayScore: intPtr(0), IsProcessed: true,
		},
	)
	db.AddStats(
		// window [2025-01-10 12:00, 2025-01-11 12:00) UTC
		gamestat.Line{PlayerID: forwardID, MatchID: matchTORMTL, Goals: 1, PointsEarned: 11, IsProcessed: true},
		gamestat.Line{PlayerID: forward2ID, MatchID: matchTORMTL, PointsEarned: -2, IsProcessed: true},
		gamestat.Line{PlayerID: defenseID, MatchID: matchTORMTL, PointsEarned: 6, IsProcessed: true},
		gamestat.Line{PlayerID: goalieID, MatchID: matchTORMTL, Saves: 30, PointsEarned: 2, IsProcessed: true},
		gamestat.Line{PlayerID: 201, MatchID: 10, Goals: 3, PointsEarned: 25, IsProcessed: true},
		gamestat.Line{PlayerID: 202, MatchID: 10, PointsEarned: 3, IsProcessed: true},
		gamestat.Line{PlayerID: 203, MatchID: 10, PointsEarned: -1, IsProcessed: true},
		gamestat.Line{PlayerID: 202, MatchID: 11, PointsEarned: 99, IsProcessed: true},
	)
}

func playerIDs(items []lineup.Performance) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.PlayerID)
	}
	return out
}

func TestLineupService_Nightly_Best(t *testing.T) {
	t.Parallel()

	db := newTestDB()
	seedNight(db)

	got, err := newLineupService(db).Nightly(context.Background(), lineup.OrderBest)
	require.NoError(t, err)

	require.Equal(t, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC), got.Window.Start)
	require.Equal(t, time.Date(2025, 1, 11, 12, 0, 0, 0, time.UTC), got.Window.End)
	require.Equal(t, []int64{201, forwardID, 202, defenseID, 203, goalieID}, playerIDs(got.Players))
	require.Len(t, got.ByRole(player.RoleForward), 3)
	require.Equal(t, 3.0, got.Players[2].Points)
	require.Equal(t, 3, got.Players[0].Breakdown().Goals)
	require.Equal(t, "A One", got.Players[0].PlayerName)
}

func TestLineupService_Nightly_WorstWithShortRoles(t *testing.T) {
	t.Parallel()

	db := newTestDB()
	db.AddStats(
		gamestat.Line{PlayerID: forwardID, MatchID: matchTORMTL, PointsEarned: 4, IsProcessed: true},
		gamestat.Line{PlayerID: forward2ID, MatchID: matchTORMTL, PointsEarned: -2, IsProcessed: true},
	)

	got, err := newLineupService(db).Nightly(context.Background(), lineup.OrderWorst)
	require.NoError(t, err)
	require.Equal(t, []int64{forward2ID, forwardID}, playerIDs(got.Players))
	require.Empty(t, got.ByRole(player.RoleGoalie))
}

func TestLineupService_Nightly_NoProcessedMatch(t *testing.T) {
	t.Parallel()

	repo := lineupmock.NewRepository(t)
	repo.On("LoadNight", mock.Anything, mock.AnythingOfType("lineup.WindowFunc")).Return(lineup.Night{}, false, nil).Once()

	service := NewLineupService(repo, LineupConfig{}, newTestLogger())
	got, err := service.Nightly(context.Background(), lineup.OrderBest)
	require.NoError(t, err)
	require.Empty(t, got.Players)
}

func TestLineupService_Nightly_InvalidOrder(t *testing.T) {
	t.Parallel()

	service := NewLineupService(lineupmock.NewRepository(t), LineupConfig{}, newTestLogger())
	if _, err := service.Nightly(context.Background(), lineup.Order("median")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLineupService_NightlyLeaders(t *testing.T) {
	t.Parallel()

	db := newTestDB()
	seedNight(db)

	got, err := newLineupService(db).NightlyLeaders(context.Background())
	require.NoError(t, err)
	require.Equal(t, got.Window, got.Best.Window)
	require.Equal(t, []int64{201, forwardID, 202, defenseID, 203, goalieID}, playerIDs(got.Best.Players))
	require.Equal(t, []int64{forward2ID, 202, forwardID, 203, defenseID, goalieID}, playerIDs(got.Worst.Players))
}

func TestLineupService_NightlyLeaders_PropagatesReadError(t *testing.T) {
	t.Parallel()

	repo := lineupmock.NewRepository(t)
	readErr := errors.New("read failed")
	repo.On("LoadNight", mock.Anything, mock.AnythingOfType("lineup.WindowFunc")).Return(lineup.Night{}, false, readErr).Once()

	service := NewLineupService(repo, LineupConfig{}, newTestLogger())
	if _, err := service.NightlyLeaders(context.Background()); !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestLineupService_NightlyLeaders_ReadsNightOnce(t *testing.T) {
	t.Parallel()

	latest := time.Date(2025, 1, 11, 3, 0, 0, 0, time.UTC)
	repo := lineupmock.NewRepository(t)
	repo.On("LoadNight", mock.Anything, mock.AnythingOfType("lineup.WindowFunc")).
		Return(func(_ context.Context, resolve lineup.WindowFunc) (lineup.Night, bool, error) {
			return lineup.Night{
				Window: resolve(latest),
				Performances: []lineup.Performance{
					{PlayerID: 1, Role: player.RoleForward, MatchID: 10, ScheduledAt: latest, Points: 9},
					{PlayerID: 2, Role: player.RoleForward, MatchID: 10, ScheduledAt: latest, Points: -3},
				},
			}, true, nil
		}).Once()

	service := NewLineupService(repo, LineupConfig{Location: time.UTC, Boundary: lineup.DefaultBoundary}, newTestLogger())
	got, err := service.NightlyLeaders(context.Background())
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC), got.Window.Start)
	require.Equal(t, got.Window, got.Worst.Window)
	require.Equal(t, []int64{1, 2}, playerIDs(got.Best.Players))
	require.Equal(t, []int64{2, 1}, playerIDs(got.Worst.Players))
}

func TestLineupService_NightlyLeaders_NoProcessedMatch(t *testing.T) {
	t.Parallel()

	repo := lineupmock.NewRepository(t)
	repo.On("LoadNight", mock.Anything, mock.AnythingOfType("lineup.WindowFunc")).Return(lineup.Night{}, false, nil).Once()

	got, err := NewLineupService(repo, LineupConfig{}, newTestLogger()).NightlyLeaders(context.Background())
	require.NoError(t, err)
	require.Equal(t, lineup.OrderBest, got.Best.Order)
	require.Empty(t, got.Worst.Players)
}
