package standing

import (
	"context"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
)

// Reader loads standings inputs. Implementations read within one consistent
// snapshot so a ranking never mixes partially scored state.
type Reader interface {
	// LoadLeague returns the league's member teams and their credited lines,
	// restricted to window when it is not nil.
	LoadLeague(ctx context.Context, leagueID int64, window *calendar.Range) ([]league.Team, []CreditedLine, error)
	ListCreditedLinesByTeam(ctx context.Context, teamID int64, window calendar.Range) ([]CreditedLine, error)
	ListCreditedLines(ctx context.Context) ([]CreditedLine, error)
}
