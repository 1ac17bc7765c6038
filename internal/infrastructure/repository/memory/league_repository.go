package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
)

type LeagueRepository struct {
	db *DB
}

func NewLeagueRepository(db *DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID int64) (league.League, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	item, ok := r.db.leagues[leagueID]
	return item, ok, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]league.League, 0, len(r.db.leagues))
	for _, item := range r.db.leagues {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LeagueRepository) ListMemberTeams(_ context.Context, leagueID int64) ([]league.Team, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.memberTeams(leagueID), nil
}

func (r *LeagueRepository) GetPeriod(_ context.Context, periodID int64) (league.ScoringPeriod, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	item, ok := r.db.periods[periodID]
	return item, ok, nil
}

func (r *LeagueRepository) GetPeriodContaining(_ context.Context, date time.Time) (league.ScoringPeriod, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	ids := make([]int64, 0, len(r.db.periods))
	for id := range r.db.periods {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if period := r.db.periods[id]; period.Contains(date) {
			return period, true, nil
		}
	}
	return league.ScoringPeriod{}, false, nil
}

func (db *DB) memberTeams(leagueID int64) []league.Team {
	out := make([]league.Team, 0, len(db.members[leagueID]))
	for _, teamID := range db.members[leagueID] {
		if team, ok := db.teams[teamID]; ok {
			out = append(out, team)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type TeamRepository struct {
	db *DB
}

func NewTeamRepository(db *DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID int64) (league.Team, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	item, ok := r.db.teams[teamID]
	return item, ok, nil
}

func (r *TeamRepository) List(_ context.Context) ([]league.Team, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]league.Team, 0, len(r.db.teams))
	for _, item := range r.db.teams {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) UpdateTotalPoints(_ context.Context, totals map[int64]float64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for teamID, total := range totals {
		team, ok := r.db.teams[teamID]
		if !ok {
			continue
		}
		team.TotalPoints = total
		r.db.teams[teamID] = team
	}
	return nil
}
