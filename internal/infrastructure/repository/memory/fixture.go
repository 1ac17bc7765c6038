package memory

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/gamestat"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/match"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/player"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/rules"
)

// Fixture is the JSON document a dry run is seeded from.
type Fixture struct {
	Players []fixturePlayer `json:"players"`
	Matches []fixtureMatch  `json:"matches"`
	Stats   []fixtureStat   `json:"stats"`
	Rules   fixtureRules    `json:"rules"`
	Teams   []fixtureTeam   `json:"teams"`
	Leagues []fixtureLeague `json:"leagues"`
	Periods []fixturePeriod `json:"periods"`
	Picks   []fixturePick   `json:"picks"`
}

type fixturePlayer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Team      string `json:"team"`
}

type fixtureMatch struct {
	ID          int64     `json:"id"`
	Home        string    `json:"home"`
	Away        string    `json:"away"`
	ScheduledAt time.Time `json:"scheduled_at"`
	HomeScore   *int      `json:"home_score"`
	AwayScore   *int      `json:"away_score"`
	Processed   bool      `json:"processed"`
}

type fixtureStat struct {
	PlayerID       int64 `json:"player_id"`
	MatchID        int64 `json:"match_id"`
	Goals          int   `json:"goals"`
	Assists        int   `json:"assists"`
	ShotsOnGoal    int   `json:"shots_on_goal"`
	Hits           int   `json:"hits"`
	BlockedShots   int   `json:"blocked_shots"`
	PenaltyMinutes int   `json:"pim"`
	Saves          int   `json:"saves"`
	GoalsAgainst   int   `json:"goals_against"`
}

type fixtureRules struct {
	Payouts      map[string]fixturePayout `json:"payouts"`
	SaveTiers    []fixtureTier            `json:"save_tiers"`
	AgainstTiers []fixtureTier            `json:"goals_against_tiers"`
}

type fixturePayout struct {
	Forward float64 `json:"F"`
	Defense float64 `json:"D"`
	Goalie  float64 `json:"G"`
}

type fixtureTier struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Points float64 `json:"points"`
}

func tiers(in []fixtureTier) []rules.Tier {
	out := make([]rules.Tier, 0, len(in))
	for _, t := range in {
		out = append(out, rules.Tier{Min: t.Min, Max: t.Max, Points: t.Points})
	}
	return out
}

type fixtureTeam struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	OwnerName string `json:"owner_name"`
}

type fixtureLeague struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Teams []int64 `json:"teams"`
}

type fixturePeriod struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

type fixturePick struct {
	TeamID    int64 `json:"team_id"`
	PlayerID  int64 `json:"player_id"`
	IsCaptain bool  `json:"is_captain"`
}

// LoadFixture decodes a fixture document from r and adds it to db.
func LoadFixture(db *DB, r io.Reader) error {
	var fx Fixture
	if err := sonic.ConfigDefault.NewDecoder(r).Decode(&fx); err != nil {
		return fmt.Errorf("decode fixture: %w", err)
	}
	return fx.apply(db)
}

func (fx Fixture) apply(db *DB) error {
	players := make([]player.Player, 0, len(fx.Players))
	for _, p := range fx.Players {
		role, err := player.ParseRole(p.Role)
		if err != nil {
			return fmt.Errorf("fixture player %d: %w", p.ID, err)
		}
		item := player.Player{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Role: role, TeamAbbrev: strings.ToUpper(p.Team)}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("fixture player %d: %w", p.ID, err)
		}
		players = append(players, item)
	}

	matches := make([]match.Match, 0, len(fx.Matches))
	for _, m := range fx.Matches {
		matches = append(matches, match.Match{
			ID:             m.ID,
			HomeTeamAbbrev: strings.ToUpper(m.Home),
			AwayTeamAbbrev: strings.ToUpper(m.Away),
			ScheduledAt:    m.ScheduledAt,
			HomeScore:      m.HomeScore,
			AwayScore:      m.AwayScore,
			IsProcessed:    m.Processed,
		})
	}

	lines := make([]gamestat.Line, 0, len(fx.Stats))
	for _, s := range fx.Stats {
		lines = append(lines, gamestat.Line{
			PlayerID:       s.PlayerID,
			MatchID:        s.MatchID,
			Goals:          s.Goals,
			Assists:        s.Assists,
			ShotsOnGoal:    s.ShotsOnGoal,
			Hits:           s.Hits,
			BlockedShots:   s.BlockedShots,
			PenaltyMinutes: s.PenaltyMinutes,
			Saves:          s.Saves,
			GoalsAgainst:   s.GoalsAgainst,
		})
	}

	payouts := make(map[rules.Key]rules.Payout, len(fx.Rules.Payouts))
	for key, payout := range fx.Rules.Payouts {
		payouts[rules.Key(strings.ToUpper(key))] = rules.Payout{Forward: payout.Forward, Defense: payout.Defense, Goalie: payout.Goalie}
	}

	teams := make([]league.Team, 0, len(fx.Teams))
	for _, t := range fx.Teams {
		teams = append(teams, league.Team{ID: t.ID, Name: t.Name, OwnerName: t.OwnerName})
	}

	periods := make([]league.ScoringPeriod, 0, len(fx.Periods))
	for _, p := range fx.Periods {
		start, err := calendar.Parse(p.Start)
		if err != nil {
			return fmt.Errorf("fixture period %d: %w", p.ID, err)
		}
		end, err := calendar.Parse(p.End)
		if err != nil {
			return fmt.Errorf("fixture period %d: %w", p.ID, err)
		}
		period := league.ScoringPeriod{ID: p.ID, Name: p.Name, StartDate: start, EndDate: end}
		if _, err := period.Range(); err != nil {
			return fmt.Errorf("fixture period %d: %w", p.ID, err)
		}
		periods = append(periods, period)
	}

	picks := make([]roster.ActivePick, 0, len(fx.Picks))
	for _, p := range fx.Picks {
		picks = append(picks, roster.ActivePick{TeamID: p.TeamID, PlayerID: p.PlayerID, IsCaptain: p.IsCaptain})
	}

	db.AddPlayers(players...)
	db.AddMatches(matches...)
	db.AddStats(lines...)
	db.SetRules(rules.NewTable(payouts, tiers(fx.Rules.SaveTiers), tiers(fx.Rules.AgainstTiers)))
	db.AddTeams(teams...)
	for _, l := range fx.Leagues {
		db.AddLeague(league.League{ID: l.ID, Name: l.Name}, l.Teams...)
	}
	db.AddPeriods(periods...)
	db.SetActivePicks(picks...)
	return nil
}
