package match

import "testing"

func intPtr(v int) *int { return &v }

func TestMatch_IsWinFor(t *testing.T) {
	t.Parallel()

	m := Match{HomeTeamAbbrev: "TOR", AwayTeamAbbrev: "MTL", HomeScore: intPtr(3), AwayScore: intPtr(2)}

	tests := []struct {
		name string
		team string
		want bool
	}{
		{name: "home winner", team: "TOR", want: true},
		{name: "away loser", team: "MTL", want: false},
		{name: "unrelated team", team: "BOS", want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := m.IsWinFor(tt.team); got != tt.want {
				t.Fatalf("IsWinFor(%s): got=%t want=%t", tt.team, got, tt.want)
			}
		})
	}
}

func TestMatch_IsWinFor_MissingScore(t *testing.T) {
	t.Parallel()

	m := Match{HomeTeamAbbrev: "TOR", AwayTeamAbbrev: "MTL", HomeScore: intPtr(3)}
	if m.IsWinFor("TOR") {
		t.Fatalf("expected no win without both scores")
	}
}
