package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
)

type RosterRepository struct {
	db *DB
}

func NewRosterRepository(db *DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) Append(_ context.Context, entries []roster.Entry) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	inserted := 0
	for _, entry := range entries {
		entry.GameDate = calendar.Date(entry.GameDate, time.UTC)
		key := historyKey{teamID: entry.TeamID, playerID: entry.PlayerID, date: entry.GameDate}
		if _, exists := r.db.history[key]; exists {
			continue
		}
		r.db.history[key] = entry
		inserted++
	}
	return inserted, nil
}

func (r *RosterRepository) ListByTeamOn(_ context.Context, teamID int64, date time.Time) ([]roster.Entry, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	date = calendar.Date(date, time.UTC)
	out := make([]roster.Entry, 0)
	for key, entry := range r.db.history {
		if key.teamID == teamID && key.date.Equal(date) {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *RosterRepository) ListActivePicks(_ context.Context) ([]roster.ActivePick, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return append([]roster.ActivePick(nil), r.db.picks...), nil
}
