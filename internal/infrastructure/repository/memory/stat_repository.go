package memory

import (
	"context"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/gamestat"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/rules"
)

type StatRepository struct {
	db *DB
}

func NewStatRepository(db *DB) *StatRepository {
	return &StatRepository{db: db}
}

func (r *StatRepository) DeriveOutcomes(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var updated int64
	for id, line := range r.db.stats {
		p, m, ok := r.db.eligible(line)
		if !ok {
			continue
		}
		outcome := gamestat.DeriveOutcome(line, p, m)
		line.IsWin = outcome.IsWin
		line.IsShutout = outcome.IsShutout
		r.db.stats[id] = line
		updated++
	}
	return updated, nil
}

func (r *StatRepository) CountEligible(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, line := range r.db.stats {
		if _, _, ok := r.db.eligible(line); ok {
			count++
		}
	}
	return count, nil
}

// ScoreBatch applies the whole batch or nothing.
func (r *StatRepository) ScoreBatch(ctx context.Context, limit int, score gamestat.Scorer) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	staged := make([]gamestat.Line, 0, limit)
	for _, id := range r.db.sortedStatIDs() {
		if len(staged) >= limit {
			break
		}
		line := r.db.stats[id]
		p, _, ok := r.db.eligible(line)
		if !ok {
			continue
		}
		line.PointsEarned = score(gamestat.Candidate{Line: line, Role: p.Role})
		line.IsProcessed = true
		staged = append(staged, line)
	}

	for _, line := range staged {
		r.db.stats[line.ID] = line
	}
	return len(staged), nil
}

func (r *StatRepository) ResetAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for id, line := range r.db.stats {
		line.PointsEarned = 0
		line.IsProcessed = false
		r.db.stats[id] = line
	}
	return int64(len(r.db.stats)), nil
}

type RulesRepository struct {
	db *DB
}

func NewRulesRepository(db *DB) *RulesRepository {
	return &RulesRepository{db: db}
}

func (r *RulesRepository) Load(_ context.Context) (rules.Table, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	current := r.db.rules
	return rules.NewTable(current.Payouts, current.SaveTiers, current.GoalsAgainstTiers), nil
}
