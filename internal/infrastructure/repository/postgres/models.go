package postgres

import "time"

type scoringCandidateModel struct {
	StatID           int64   `db:"stat_id"`
	PlayerID         int64   `db:"player_id"`
	MatchID          int64   `db:"match_id"`
	Position         string  `db:"position"`
	Goals            int     `db:"goals"`
	Assists          int     `db:"assists"`
	ShotsOnGoal      int     `db:"sog"`
	Hits             int     `db:"hits"`
	BlockedShots     int     `db:"blocked_shots"`
	Giveaways        int     `db:"giveaways"`
	Takeaways        int     `db:"takeaways"`
	PowerPlayGoals   int     `db:"power_play_goals"`
	PenaltyMinutes   int     `db:"pim"`
	TimeOnIceSeconds int     `db:"toi_seconds"`
	Saves            int     `db:"saves"`
	GoalsAgainst     int     `db:"goals_against"`
	ShotsAgainst     int     `db:"shots_against"`
	IsStarter        bool    `db:"is_starter"`
	IsWin            bool    `db:"is_win"`
	IsShutout        bool    `db:"is_shutout"`
	PointsEarned     float64 `db:"points_earned"`
}

type scoringRuleModel struct {
	RuleKey string  `db:"rule_key"`
	Forward float64 `db:"forward"`
	Defense float64 `db:"defense"`
	Goalie  float64 `db:"goalie"`
}

type tierModel struct {
	Min    int     `db:"min_value"`
	Max    int     `db:"max_value"`
	Points float64 `db:"points"`
}

type rosterHistoryModel struct {
	TeamID    int64     `db:"team_id"`
	PlayerID  int64     `db:"player_id"`
	GameDate  time.Time `db:"game_date"`
	IsCaptain bool      `db:"is_captain"`
}

type activePickModel struct {
	TeamID    int64 `db:"team_id"`
	PlayerID  int64 `db:"player_id"`
	IsCaptain bool  `db:"is_captain"`
}

type leagueModel struct {
	ID        int64  `db:"league_id"`
	Name      string `db:"name"`
	CreatorID int64  `db:"creator_id"`
}

type fantasyTeamModel struct {
	ID              int64   `db:"team_id"`
	Name            string  `db:"team_name"`
	OwnerID         int64   `db:"user_id"`
	OwnerName       string  `db:"owner_name"`
	BudgetRemaining int64   `db:"budget_remaining"`
	TotalPoints     float64 `db:"total_points"`
}

type scoringPeriodModel struct {
	ID        int64     `db:"period_id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

type creditedLineModel struct {
	TeamID    int64     `db:"team_id"`
	PlayerID  int64     `db:"player_id"`
	MatchID   int64     `db:"match_id"`
	GameDate  time.Time `db:"game_date"`
	IsCaptain bool      `db:"is_captain"`
	Points    float64   `db:"points_earned"`
}

type performanceModel struct {
	scoringCandidateModel
	FirstName   string    `db:"first_name"`
	LastName    string    `db:"last_name"`
	TeamAbbrev  string    `db:"team_abbrev"`
	ScheduledAt time.Time `db:"scheduled_at"`
}
