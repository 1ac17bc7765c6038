package cli

import (
	"sort"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/standing"
	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
)

const timestampLayout = "2006-01-02T15:04:05Z07:00"

type scoringRunView struct {
	RunID           string  `json:"run_id"`
	OutcomesDerived int64   `json:"outcomes_derived"`
	Eligible        int     `json:"eligible"`
	Processed       int     `json:"processed"`
	Batches         int     `json:"batches"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`
}

type resetView struct {
	Reset int64 `json:"reset"`
}

type snapshotView struct {
	GameDate string `json:"game_date"`
	Picks    int    `json:"picks"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
}

type rosterEntryView struct {
	TeamID    int64  `json:"team_id"`
	PlayerID  int64  `json:"player_id"`
	GameDate  string `json:"game_date"`
	IsCaptain bool   `json:"is_captain"`
}

type periodView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type standingsView struct {
	LeagueID int64          `json:"league_id"`
	Period   *periodView    `json:"period,omitempty"`
	Rows     []standing.Row `json:"rows"`
}

type dailyPointView struct {
	Date              string  `json:"date"`
	Points            float64 `json:"points"`
	ActivePlayerCount int     `json:"active_player_count"`
}

type performanceView struct {
	TeamID   int64            `json:"team_id"`
	PeriodID int64            `json:"period_id"`
	Days     []dailyPointView `json:"days"`
}

type windowView struct {
	GameDate string `json:"game_date"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

type lineupPlayerView struct {
	PlayerID    int64            `json:"player_id"`
	PlayerName  string           `json:"player_name"`
	Position    string           `json:"position"`
	TeamAbbrev  string           `json:"team_abbrev"`
	MatchID     int64            `json:"match_id"`
	ScheduledAt string           `json:"scheduled_at"`
	Points      float64          `json:"points"`
	Breakdown   lineup.Breakdown `json:"breakdown"`
}

type lineupView struct {
	Order   string             `json:"order"`
	Window  *windowView        `json:"window,omitempty"`
	Total   float64            `json:"total"`
	Players []lineupPlayerView `json:"players"`
}

type leadersView struct {
	Window *windowView `json:"window,omitempty"`
	Best   lineupView  `json:"best"`
	Worst  lineupView  `json:"worst"`
}

type teamTotalView struct {
	TeamID      int64   `json:"team_id"`
	TotalPoints float64 `json:"total_points"`
}

func newScoringRunView(run usecase.ScoringRun) scoringRunView {
	return scoringRunView{
		RunID:           run.RunID,
		OutcomesDerived: run.OutcomesDerived,
		Eligible:        run.Eligible,
		Processed:       run.Processed,
		Batches:         run.Batches,
		ElapsedSeconds:  run.Elapsed.Seconds(),
	}
}

func newSnapshotView(result usecase.SnapshotResult) snapshotView {
	return snapshotView{
		GameDate: calendar.Format(result.GameDate),
		Picks:    result.Picks,
		Inserted: result.Inserted,
		Skipped:  result.Skipped,
	}
}

func newRosterViews(entries []roster.Entry) []rosterEntryView {
	out := make([]rosterEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, rosterEntryView{
			TeamID:    e.TeamID,
			PlayerID:  e.PlayerID,
			GameDate:  calendar.Format(e.GameDate),
			IsCaptain: e.IsCaptain,
		})
	}
	return out
}

func newPeriodView(p league.ScoringPeriod) *periodView {
	return &periodView{
		ID:        p.ID,
		Name:      p.Name,
		StartDate: calendar.Format(p.StartDate),
		EndDate:   calendar.Format(p.EndDate),
	}
}

func newStandingsView(leagueID int64, period *league.ScoringPeriod, rows []standing.Row) standingsView {
	if rows == nil {
		rows = []standing.Row{}
	}
	view := standingsView{LeagueID: leagueID, Rows: rows}
	if period != nil {
		view.Period = newPeriodView(*period)
	}
	return view
}

func newPerformanceView(teamID, periodID int64, days []standing.DailyPoint) performanceView {
	out := performanceView{TeamID: teamID, PeriodID: periodID, Days: make([]dailyPointView, 0, len(days))}
	for _, d := range days {
		out.Days = append(out.Days, dailyPointView{
			Date:              calendar.Format(d.Date),
			Points:            d.Points,
			ActivePlayerCount: d.ActivePlayerCount,
		})
	}
	return out
}

func newWindowView(w lineup.Window) *windowView {
	if w.Start.IsZero() {
		return nil
	}
	return &windowView{
		GameDate: calendar.Format(w.GameDate),
		Start:    w.Start.Format(timestampLayout),
		End:      w.End.Format(timestampLayout),
	}
}

func newLineupView(l lineup.Lineup) lineupView {
	out := lineupView{
		Order:   string(l.Order),
		Window:  newWindowView(l.Window),
		Players: make([]lineupPlayerView, 0, len(l.Players)),
	}
	for _, p := range l.Players {
		out.Total += p.Points
		out.Players = append(out.Players, lineupPlayerView{
			PlayerID:    p.PlayerID,
			PlayerName:  p.PlayerName,
			Position:    string(p.Role),
			TeamAbbrev:  p.TeamAbbrev,
			MatchID:     p.MatchID,
			ScheduledAt: p.ScheduledAt.Format(timestampLayout),
			Points:      p.Points,
			Breakdown:   p.Breakdown(),
		})
	}
	out.Total = standing.RoundPoints(out.Total)
	return out
}

func newLeadersView(leaders usecase.NightlyLeaders) leadersView {
	return leadersView{
		Window: newWindowView(leaders.Window),
		Best:   newLineupView(leaders.Best),
		Worst:  newLineupView(leaders.Worst),
	}
}

func newTeamTotalViews(totals map[int64]float64) []teamTotalView {
	out := make([]teamTotalView, 0, len(totals))
	for teamID, points := range totals {
		out = append(out, teamTotalView{TeamID: teamID, TotalPoints: points})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out
}
