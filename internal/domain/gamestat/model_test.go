package gamestat

import (
	"testing"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/match"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/player"
)

func TestDeriveOutcome(t *testing.T) {
	t.Parallel()

	home, away := 2, 0
	m := match.Match{HomeTeamAbbrev: "BOS", AwayTeamAbbrev: "NYR", HomeScore: &home, AwayScore: &away}

	tests := []struct {
		name   string
		line   Line
		player player.Player
		want   Outcome
	}{
		{
			name:   "winning goalie with clean sheet",
			line:   Line{GoalsAgainst: 0, TimeOnIceSeconds: 3600},
			player: player.Player{Role: player.RoleGoalie, TeamAbbrev: "BOS"},
			want:   Outcome{IsWin: true, IsShutout: true},
		},
		{
			name:   "backup goalie that never played",
			line:   Line{GoalsAgainst: 0},
			player: player.Player{Role: player.RoleGoalie, TeamAbbrev: "BOS"},
			want:   Outcome{IsWin: true},
		},
		{
			name:   "losing skater",
			line:   Line{TimeOnIceSeconds: 1100},
			player: player.Player{Role: player.RoleForward, TeamAbbrev: "NYR"},
			want:   Outcome{},
		},
		{
			name:   "skater never gets a shutout",
			line:   Line{TimeOnIceSeconds: 1200},
			player: player.Player{Role: player.RoleDefense, TeamAbbrev: "BOS"},
			want:   Outcome{IsWin: true},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DeriveOutcome(tt.line, tt.player, m); got != tt.want {
				t.Fatalf("unexpected outcome: got=%+v want=%+v", got, tt.want)
			}
		})
	}
}
