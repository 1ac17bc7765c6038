package gamestat

import "context"

// Repository is the persistence contract of the scoring engine. A row is eligible
// when it is not processed yet and its parent match is processed.
type Repository interface {
	// DeriveOutcomes persists is_win and is_shutout for every eligible row.
	DeriveOutcomes(ctx context.Context) (int64, error)
	CountEligible(ctx context.Context) (int, error)
	// ScoreBatch scores up to limit eligible rows inside one transaction and
	// marks them processed. It returns the number of rows committed.
	ScoreBatch(ctx context.Context, limit int, score Scorer) (int, error)
	// ResetAll zeroes points and clears the processed flag on every row.
	ResetAll(ctx context.Context) (int64, error)
}
