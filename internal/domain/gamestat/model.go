package gamestat

import (
	"github.com/riskibarqy/fantasy-hockey/internal/domain/match"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/player"
)

// Line is one player's raw and derived stats for one match. (PlayerID, MatchID) is unique.
type Line struct {
	ID       int64
	PlayerID int64
	MatchID  int64

	Goals            int
	Assists          int
	ShotsOnGoal      int
	Hits             int
	BlockedShots     int
	Giveaways        int
	Takeaways        int
	PowerPlayGoals   int
	TimeOnIceSeconds int
	PenaltyMinutes   int

	Saves        int
	GoalsAgainst int
	ShotsAgainst int
	IsStarter    bool

	// Derived by the scoring engine.
	IsWin        bool
	IsShutout    bool
	PointsEarned float64
	IsProcessed  bool
}

// Candidate is an unprocessed line joined with the player's role, ready to be scored.
type Candidate struct {
	Line
	Role player.Role
}

// Scorer computes the fantasy points of one candidate line.
type Scorer func(Candidate) float64

// Outcome holds the derived per-match flags persisted before scoring.
type Outcome struct {
	IsWin     bool
	IsShutout bool
}

// DeriveOutcome computes win and shutout flags for a line from its player's
// current team affiliation and the final score of the match.
func DeriveOutcome(line Line, p player.Player, m match.Match) Outcome {
	out := Outcome{IsWin: m.IsWinFor(p.TeamAbbrev)}
	if p.Role == player.RoleGoalie && line.GoalsAgainst == 0 && (line.TimeOnIceSeconds > 0 || line.IsStarter) {
		out.IsShutout = true
	}
	return out
}
