package roster

import (
	"fmt"
	"time"
)

// Entry is one immutable ledger row: player was on team's active lineup on GameDate.
type Entry struct {
	TeamID    int64
	PlayerID  int64
	GameDate  time.Time
	IsCaptain bool
}

func (e Entry) Validate() error {
	if e.TeamID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if e.PlayerID <= 0 {
		return fmt.Errorf("player id is required")
	}
	if e.GameDate.IsZero() {
		return fmt.Errorf("game date is required")
	}
	return nil
}

// ActivePick is a row of a team's live lineup.
type ActivePick struct {
	TeamID    int64
	PlayerID  int64
	IsCaptain bool
}
