package standing

import (
	"math"
	"sort"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
)

const DefaultCaptainMultiplier = 1.3

// CreditedLine is a scored stat line credited to a team through its roster
// history on the day the match was played.
type CreditedLine struct {
	TeamID    int64
	PlayerID  int64
	MatchID   int64
	GameDate  time.Time
	IsCaptain bool
	Points    float64
}

func (l CreditedLine) Weighted(captainMultiplier float64) float64 {
	if l.IsCaptain {
		return l.Points * captainMultiplier
	}
	return l.Points
}

// Row is one ranked line of a league table.
type Row struct {
	TeamID    int64   `json:"team_id"`
	TeamName  string  `json:"team_name"`
	OwnerName string  `json:"owner_name"`
	Points    float64 `json:"points"`
	Rank      int     `json:"rank"`
}

// DailyPoint is one day of a team's performance series.
type DailyPoint struct {
	Date              time.Time
	Points            float64
	ActivePlayerCount int
}

// Aggregate sums credited lines per team and ranks every team, including the
// ones without any credited line.
func Aggregate(teams []league.Team, lines []CreditedLine, captainMultiplier float64) []Row {
	totals := make(map[int64]float64, len(teams))
	for _, line := range lines {
		totals[line.TeamID] += line.Weighted(captainMultiplier)
	}

	rows := make([]Row, 0, len(teams))
	seen := make(map[int64]struct{}, len(teams))
	for _, team := range teams {
		if _, dup := seen[team.ID]; dup {
			continue
		}
		seen[team.ID] = struct{}{}
		rows = append(rows, Row{
			TeamID:    team.ID,
			TeamName:  team.Name,
			OwnerName: team.OwnerName,
			Points:    RoundPoints(totals[team.ID]),
		})
	}

	Rank(rows)
	return rows
}

// Rank orders rows by points descending and assigns standard competition
// ranks: tied rows share 1 + the number of rows with strictly more points.
func Rank(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].TeamName != rows[j].TeamName {
			return rows[i].TeamName < rows[j].TeamName
		}
		return rows[i].TeamID < rows[j].TeamID
	})

	for idx := range rows {
		if idx > 0 && rows[idx].Points == rows[idx-1].Points {
			rows[idx].Rank = rows[idx-1].Rank
			continue
		}
		rows[idx].Rank = idx + 1
	}
}

// TeamTotals sums captain-weighted points per team.
func TeamTotals(lines []CreditedLine, captainMultiplier float64) map[int64]float64 {
	out := make(map[int64]float64)
	for _, line := range lines {
		out[line.TeamID] += line.Weighted(captainMultiplier)
	}
	for teamID, total := range out {
		out[teamID] = RoundPoints(total)
	}
	return out
}

// DailySeries returns one point per day of window, zero-filled.
func DailySeries(lines []CreditedLine, window calendar.Range, captainMultiplier float64) []DailyPoint {
	pointsByDay := make(map[time.Time]float64)
	playersByDay := make(map[time.Time]map[int64]struct{})
	for _, line := range lines {
		day := calendar.Date(line.GameDate, time.UTC)
		if !window.Contains(day) {
			continue
		}
		pointsByDay[day] += line.Weighted(captainMultiplier)
		if playersByDay[day] == nil {
			playersByDay[day] = make(map[int64]struct{})
		}
		playersByDay[day][line.PlayerID] = struct{}{}
	}

	days := window.Days()
	out := make([]DailyPoint, 0, len(days))
	for _, day := range days {
		out = append(out, DailyPoint{
			Date:              day,
			Points:            RoundPoints(pointsByDay[day]),
			ActivePlayerCount: len(playersByDay[day]),
		})
	}
	return out
}

// RoundPoints rounds to two decimals, which is the precision points are stored with.
func RoundPoints(v float64) float64 {
	return math.Round(v*100) / 100
}
