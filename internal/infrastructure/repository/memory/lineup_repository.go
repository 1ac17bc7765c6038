package memory

import (
	"context"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/lineup"
)

type LineupRepository struct {
	db *DB
}

func NewLineupRepository(db *DB) *LineupRepository {
	return &LineupRepository{db: db}
}

// LoadNight holds the read lock across both reads.
func (r *LineupRepository) LoadNight(_ context.Context, resolve lineup.WindowFunc) (lineup.Night, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	latest, ok := r.db.latestProcessedMatchAt()
	if !ok {
		return lineup.Night{}, false, nil
	}
	window := resolve(latest)
	return lineup.Night{Window: window, Performances: r.db.performancesIn(window)}, true, nil
}

func (db *DB) latestProcessedMatchAt() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, m := range db.matches {
		if !m.IsProcessed {
			continue
		}
		if !found || m.ScheduledAt.After(latest) {
			latest = m.ScheduledAt
			found = true
		}
	}
	return latest, found
}

func (db *DB) performancesIn(window lineup.Window) []lineup.Performance {
	out := make([]lineup.Performance, 0)
	for _, id := range db.sortedStatIDs() {
		line := db.stats[id]
		if !line.IsProcessed {
			continue
		}
		m, ok := db.matches[line.MatchID]
		if !ok || !m.IsProcessed || !window.Contains(m.ScheduledAt) {
			continue
		}
		p, ok := db.players[line.PlayerID]
		if !ok {
			continue
		}
		out = append(out, lineup.Performance{
			PlayerID:    p.ID,
			PlayerName:  p.Name(),
			Role:        p.Role,
			TeamAbbrev:  p.TeamAbbrev,
			MatchID:     m.ID,
			ScheduledAt: m.ScheduledAt,
			Points:      line.PointsEarned,
			Stats:       line,
		})
	}
	return out
}
