package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/gamestat"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/match"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/player"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/rules"
)

type historyKey struct {
	teamID   int64
	playerID int64
	date     time.Time
}

// DB holds every table in memory behind one lock so cross-table reads see a
// consistent state, the same way the postgres repositories read in one tx.
type DB struct {
	mu sync.RWMutex

	loc *time.Location

	players map[int64]player.Player
	matches map[int64]match.Match
	stats   map[int64]gamestat.Line
	nextID  int64

	rules rules.Table

	history map[historyKey]roster.Entry
	picks   []roster.ActivePick

	leagues map[int64]league.League
	members map[int64][]int64
	teams   map[int64]league.Team
	periods map[int64]league.ScoringPeriod
}

// NewDB creates an empty store. loc is the game-day timezone used to credit
// a match to a roster date.
func NewDB(loc *time.Location) *DB {
	if loc == nil {
		loc = time.UTC
	}
	return &DB{
		loc:     loc,
		players: make(map[int64]player.Player),
		matches: make(map[int64]match.Match),
		stats:   make(map[int64]gamestat.Line),
		history: make(map[historyKey]roster.Entry),
		leagues: make(map[int64]league.League),
		members: make(map[int64][]int64),
		teams:   make(map[int64]league.Team),
		periods: make(map[int64]league.ScoringPeriod),
	}
}

func (db *DB) AddPlayers(items ...player.Player) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, item := range items {
		db.players[item.ID] = item
	}
}

func (db *DB) AddMatches(items ...match.Match) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, item := range items {
		db.matches[item.ID] = item
	}
}

// AddStats stores lines and assigns ids to lines without one.
func (db *DB) AddStats(items ...gamestat.Line) []int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if item.ID == 0 {
			db.nextID++
			item.ID = db.nextID
		} else if item.ID > db.nextID {
			db.nextID = item.ID
		}
		db.stats[item.ID] = item
		ids = append(ids, item.ID)
	}
	return ids
}

func (db *DB) Stat(id int64) (gamestat.Line, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	line, ok := db.stats[id]
	return line, ok
}

func (db *DB) SetRules(table rules.Table) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.rules = table
}

func (db *DB) SetActivePicks(picks ...roster.ActivePick) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.picks = append([]roster.ActivePick(nil), picks...)
}

func (db *DB) AddTeams(items ...league.Team) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, item := range items {
		db.teams[item.ID] = item
	}
}

func (db *DB) AddLeague(item league.League, teamIDs ...int64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.leagues[item.ID] = item
	db.members[item.ID] = append(db.members[item.ID], teamIDs...)
}

func (db *DB) AddPeriods(items ...league.ScoringPeriod) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, item := range items {
		db.periods[item.ID] = item
	}
}

// eligible mirrors the postgres predicate: unprocessed line, processed match,
// both player and match resolvable.
func (db *DB) eligible(line gamestat.Line) (player.Player, match.Match, bool) {
	if line.IsProcessed {
		return player.Player{}, match.Match{}, false
	}
	p, ok := db.players[line.PlayerID]
	if !ok {
		return player.Player{}, match.Match{}, false
	}
	m, ok := db.matches[line.MatchID]
	if !ok || !m.IsProcessed {
		return player.Player{}, match.Match{}, false
	}
	return p, m, true
}

func (db *DB) sortedStatIDs() []int64 {
	ids := make([]int64, 0, len(db.stats))
	for id := range db.stats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
