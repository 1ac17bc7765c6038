package match

import (
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
)

// Match is one scheduled NHL game between two real teams.
type Match struct {
	ID             int64
	APIID          int64
	HomeTeamAbbrev string
	AwayTeamAbbrev string
	ScheduledAt    time.Time
	HomeScore      *int
	AwayScore      *int
	// IsProcessed is set once boxscore ingestion succeeded; it gates scoring.
	IsProcessed bool
}

func (m Match) Involves(teamAbbrev string) bool {
	return teamAbbrev != "" && (teamAbbrev == m.HomeTeamAbbrev || teamAbbrev == m.AwayTeamAbbrev)
}

// IsWinFor reports whether teamAbbrev strictly outscored its opponent.
func (m Match) IsWinFor(teamAbbrev string) bool {
	if m.HomeScore == nil || m.AwayScore == nil {
		return false
	}
	switch teamAbbrev {
	case m.HomeTeamAbbrev:
		return *m.HomeScore > *m.AwayScore
	case m.AwayTeamAbbrev:
		return *m.AwayScore > *m.HomeScore
	default:
		return false
	}
}

// GameDate is the calendar day the match is credited to for roster history.
func (m Match) GameDate(loc *time.Location) time.Time {
	return calendar.Date(m.ScheduledAt, loc)
}
