package usecase

import (
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/gamestat"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/match"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/player"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/rules"
	"github.com/riskibarqy/fantasy-hockey/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
)

const (
	forwardID  int64 = 101
	defenseID  int64 = 102
	goalieID   int64 = 103
	forward2ID int64 = 104

	matchTORMTL     int64 = 1
	matchUnfinished int64 = 2
)

func intPtr(v int) *int { return &v }

func testDate(raw string) time.Time {
	value, err := calendar.Parse(raw)
	if err != nil {
		panic(err)
	}
	return value
}

func testRules() rules.Table {
	return rules.NewTable(
		map[rules.Key]rules.Payout{
			rules.KeyGoal:           {Forward: 7, Defense: 9},
			rules.KeyAssist:         {Forward: 4, Defense: 5},
			rules.KeyShotOnGoal:     {Forward: 0.5, Defense: 0.5},
			rules.KeyHit:            {Forward: 0.25, Defense: 0.25},
			rules.KeyBlockedShot:    {Forward: 0.5, Defense: 1},
			rules.KeyPenaltyMinutes: {Forward: -0.5, Defense: -0.5, Goalie: -1},
			rules.KeyWin:            {Forward: 4, Defense: 4, Goalie: 5},
			rules.KeyLoss:           {Forward: -2, Defense: -2, Goalie: -1},
			rules.KeyShutout:        {Goalie: 6},
		},
		[]rules.Tier{
			{Min: 0, Max: 24, Points: 0},
			{Min: 25, Max: 29, Points: 2},
			{Min: 30, Max: 34, Points: 4},
			{Min: 35, Max: 99, Points: 6},
		},
		[]rules.Tier{
			{Min: 0, Max: 1, Points: 0},
			{Min: 2, Max: 2, Points: -1},
			{Min: 3, Max: 99, Points: -3},
		},
	)
}

// newTestDB seeds TOR beating MTL 3-2 on 2025-01-10 (19:00 UTC) and an
// unfinished match on the same day.
func newTestDB() *memory.DB {
	db := memory.NewDB(time.UTC)
	db.AddPlayers(
		player.Player{ID: forwardID, FirstName: "Auston", LastName: "Matthews", Role: player.RoleForward, TeamAbbrev: "TOR"},
		player.Player{ID: defenseID, FirstName: "Morgan", LastName: "Rielly", Role: player.RoleDefense, TeamAbbrev: "TOR"},
		player.Player{ID: goalieID, FirstName: "Sam", LastName: "Montembeault", Role: player.RoleGoalie, TeamAbbrev: "MTL"},
		player.Player{ID: forward2ID, FirstName: "Nick", LastName: "Suzuki", Role: player.RoleForward, TeamAbbrev: "MTL"},
	)
	db.AddMatches(
		match.Match{
			ID:             matchTORMTL,
			HomeTeamAbbrev: "TOR",
			AwayTeamAbbrev: "MTL",
			ScheduledAt:    time.Date(2025, 1, 10, 19, 0, 0, 0, time.UTC),
			HomeScore:      intPtr(3),
			AwayScore:      intPtr(2),
			IsProcessed:    true,
		},
		match.Match{
			ID:             matchUnfinished,
			HomeTeamAbbrev: "BOS",
			AwayTeamAbbrev: "NYR",
			ScheduledAt:    time.Date(2025, 1, 10, 23, 0, 0, 0, time.UTC),
		},
	)
	db.SetRules(testRules())
	return db
}

func newTestLogger() *logging.Logger {
	return logging.NewNop()
}

func seedLeague(db *memory.DB) {
	db.AddTeams(
		league.Team{ID: 1, Name: "Alpha", OwnerID: 11, OwnerName: "ana"},
		league.Team{ID: 2, Name: "Bravo", OwnerID: 12, OwnerName: "ben"},
		league.Team{ID: 3, Name: "Charlie", OwnerID: 13, OwnerName: "cy"},
	)
	db.AddLeague(league.League{ID: 7, Name: "Office", CreatorID: 11}, 1, 2, 3)
	db.AddPeriods(
		league.ScoringPeriod{ID: 1, Name: "Week 1", StartDate: testDate("2025-01-06"), EndDate: testDate("2025-01-12")},
		league.ScoringPeriod{ID: 2, Name: "Week 2", StartDate: testDate("2025-01-13"), EndDate: testDate("2025-01-19")},
	)
}

func skaterLine(playerID, matchID int64, goals, assists int) gamestat.Line {
	return gamestat.Line{PlayerID: playerID, MatchID: matchID, Goals: goals, Assists: assists}
}
