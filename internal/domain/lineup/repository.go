package lineup

import (
	"context"
	"time"
)

// Night is one game night read from a single consistent snapshot.
type Night struct {
	Window       Window
	Performances []Performance
}

// WindowFunc maps the start of the latest processed match to its night window.
type WindowFunc func(latest time.Time) Window

// Repository reads scored performances for night lineups.
type Repository interface {
	// LoadNight finds the latest processed match and, in the same snapshot,
	// the processed lines of matches inside resolve(latest). ok is false when
	// no match has been processed.
	LoadNight(ctx context.Context, resolve WindowFunc) (Night, bool, error)
}
