package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/standing"
)

type StandingsReader struct {
	db *DB
}

func NewStandingsReader(db *DB) *StandingsReader {
	return &StandingsReader{db: db}
}

func (r *StandingsReader) LoadLeague(_ context.Context, leagueID int64, window *calendar.Range) ([]league.Team, []standing.CreditedLine, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	teams := r.db.memberTeams(leagueID)
	teamIDs := make(map[int64]struct{}, len(teams))
	for _, team := range teams {
		teamIDs[team.ID] = struct{}{}
	}
	lines := r.db.creditedLines(func(teamID int64) bool {
		_, ok := teamIDs[teamID]
		return ok
	}, window)
	return teams, lines, nil
}

func (r *StandingsReader) ListCreditedLinesByTeam(_ context.Context, teamID int64, window calendar.Range) ([]standing.CreditedLine, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.creditedLines(func(id int64) bool { return id == teamID }, &window), nil
}

func (r *StandingsReader) ListCreditedLines(_ context.Context) ([]standing.CreditedLine, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.creditedLines(func(int64) bool { return true }, nil), nil
}

// creditedLines joins roster history to processed lines of matches played on
// the entry's game date.
func (db *DB) creditedLines(includeTeam func(int64) bool, window *calendar.Range) []standing.CreditedLine {
	out := make([]standing.CreditedLine, 0)
	for _, entry := range db.history {
		if !includeTeam(entry.TeamID) {
			continue
		}
		if window != nil && !window.Contains(entry.GameDate) {
			continue
		}
		for _, line := range db.stats {
			if line.PlayerID != entry.PlayerID || !line.IsProcessed {
				continue
			}
			m, ok := db.matches[line.MatchID]
			if !ok || !m.GameDate(db.loc).Equal(entry.GameDate) {
				continue
			}
			out = append(out, standing.CreditedLine{
				TeamID:    entry.TeamID,
				PlayerID:  entry.PlayerID,
				MatchID:   line.MatchID,
				GameDate:  entry.GameDate,
				IsCaptain: entry.IsCaptain,
				Points:    line.PointsEarned,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		if !out[i].GameDate.Equal(out[j].GameDate) {
			return out[i].GameDate.Before(out[j].GameDate)
		}
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].MatchID < out[j].MatchID
	})
	return out
}
