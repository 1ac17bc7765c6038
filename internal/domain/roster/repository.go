package roster

import (
	"context"
	"time"
)

// Ledger is append-only: existing (team, player, date) rows are never updated.
type Ledger interface {
	// Append inserts entries and ignores duplicates; it returns how many were new.
	Append(ctx context.Context, entries []Entry) (int, error)
	ListByTeamOn(ctx context.Context, teamID int64, date time.Time) ([]Entry, error)
}

// LineupSource reads the live lineups the daily snapshot copies from.
type LineupSource interface {
	ListActivePicks(ctx context.Context) ([]ActivePick, error)
}
