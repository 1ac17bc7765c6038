package lineup

import (
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/gamestat"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/player"
)

// DefaultBoundary is the local time of day a game night ends.
const DefaultBoundary = 12 * time.Hour

type Order string

const (
	OrderBest  Order = "best"
	OrderWorst Order = "worst"
)

func ParseOrder(raw string) (Order, error) {
	switch Order(raw) {
	case OrderBest, OrderWorst:
		return Order(raw), nil
	default:
		return "", fmt.Errorf("unknown lineup order %q", raw)
	}
}

// Formation is the number of slots per role.
type Formation map[player.Role]int

func DefaultFormation() Formation {
	return Formation{
		player.RoleForward: 3,
		player.RoleDefense: 2,
		player.RoleGoalie:  1,
	}
}

func (f Formation) Size() int {
	total := 0
	for _, n := range f {
		total += n
	}
	return total
}

// Window is a half-open [Start, End) game night.
type Window struct {
	GameDate time.Time
	Start    time.Time
	End      time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ResolveWindow returns the boundary-to-boundary game night containing latest.
// GameDate is the local day the night ends on.
func ResolveWindow(latest time.Time, loc *time.Location, boundary time.Duration) Window {
	if loc == nil {
		loc = time.UTC
	}
	// boundary is a wall-clock time, so DST days keep it at the same local hour.
	h, m, sec := int(boundary/time.Hour), int(boundary%time.Hour/time.Minute), int(boundary%time.Minute/time.Second)
	at := func(day time.Time) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), h, m, sec, 0, loc)
	}

	gameDate := calendar.Date(latest, loc)
	end := at(gameDate)
	if !latest.Before(end) {
		gameDate = gameDate.AddDate(0, 0, 1)
		end = at(gameDate)
	}
	return Window{
		GameDate: gameDate,
		Start:    at(gameDate.AddDate(0, 0, -1)),
		End:      end,
	}
}

// Performance is one scored line of one player in one match.
type Performance struct {
	PlayerID    int64
	PlayerName  string
	Role        player.Role
	TeamAbbrev  string
	MatchID     int64
	ScheduledAt time.Time
	Points      float64
	Stats       gamestat.Line
}

// Breakdown lists the counting stats that produced the points.
type Breakdown struct {
	Goals          int  `json:"goals"`
	Assists        int  `json:"assists"`
	ShotsOnGoal    int  `json:"shots_on_goal"`
	Hits           int  `json:"hits"`
	BlockedShots   int  `json:"blocked_shots"`
	PowerPlayGoals int  `json:"power_play_goals"`
	PenaltyMinutes int  `json:"penalty_minutes"`
	Saves          int  `json:"saves"`
	GoalsAgainst   int  `json:"goals_against"`
	IsWin          bool `json:"is_win"`
	IsShutout      bool `json:"is_shutout"`
}

func (p Performance) Breakdown() Breakdown {
	return Breakdown{
		Goals:          p.Stats.Goals,
		Assists:        p.Stats.Assists,
		ShotsOnGoal:    p.Stats.ShotsOnGoal,
		Hits:           p.Stats.Hits,
		BlockedShots:   p.Stats.BlockedShots,
		PowerPlayGoals: p.Stats.PowerPlayGoals,
		PenaltyMinutes: p.Stats.PenaltyMinutes,
		Saves:          p.Stats.Saves,
		GoalsAgainst:   p.Stats.GoalsAgainst,
		IsWin:          p.Stats.IsWin,
		IsShutout:      p.Stats.IsShutout,
	}
}

// Lineup is the selected night lineup, forwards first, then defense, then goalie.
type Lineup struct {
	Window  Window
	Order   Order
	Players []Performance
}

func (l Lineup) ByRole(role player.Role) []Performance {
	out := make([]Performance, 0)
	for _, p := range l.Players {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

// Select keeps one performance per player (the best or worst one) and fills
// each role of the formation by rank. Roles with too few players stay short.
func Select(performances []Performance, formation Formation, order Order) []Performance {
	better := func(a, b Performance) bool {
		if a.Points != b.Points {
			if order == OrderWorst {
				return a.Points < b.Points
			}
			return a.Points > b.Points
		}
		if !a.ScheduledAt.Equal(b.ScheduledAt) {
			return a.ScheduledAt.Before(b.ScheduledAt)
		}
		return a.MatchID < b.MatchID
	}

	perPlayer := make(map[int64]Performance, len(performances))
	for _, perf := range performances {
		current, ok := perPlayer[perf.PlayerID]
		if !ok || better(perf, current) {
			perPlayer[perf.PlayerID] = perf
		}
	}

	byRole := make(map[player.Role][]Performance, len(formation))
	for _, perf := range perPlayer {
		if _, wanted := formation[perf.Role]; !wanted {
			continue
		}
		byRole[perf.Role] = append(byRole[perf.Role], perf)
	}

	out := make([]Performance, 0, formation.Size())
	for _, role := range player.Roles {
		slots := formation[role]
		if slots <= 0 {
			continue
		}
		candidates := byRole[role]
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].Points != candidates[j].Points {
				return better(candidates[i], candidates[j])
			}
			return candidates[i].PlayerID < candidates[j].PlayerID
		})
		if len(candidates) > slots {
			candidates = candidates[:slots]
		}
		out = append(out, candidates...)
	}
	return out
}
