package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/gamestat"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/rules"
	"github.com/riskibarqy/fantasy-hockey/internal/infrastructure/repository/memory"
	gamestatmock "github.com/riskibarqy/fantasy-hockey/internal/mocks/domain/gamestat"
	rulesmock "github.com/riskibarqy/fantasy-hockey/internal/mocks/domain/rules"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newScoringService(db *memory.DB, batchSize int) *ScoringService {
	return NewScoringService(
		memory.NewStatRepository(db),
		memory.NewRulesRepository(db),
		ScoringConfig{BatchSize: batchSize, StrictTiers: true},
		newTestLogger(),
		nil,
	)
}

func TestScoringService_Run_ForwardOnWinningTeam(t *testing.T) {
	t.Parallel()

	db := newTestDB()
	ids := db.AddStats(skaterLine(forwardID, matchTORMTL, 2, 1))

	summary, err := newScoringService(db, 100).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if summary.Processed != 1 || summary.Eligible != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.RunID == "" {
		t.Fatalf("expected a run id, got %+v", summary)
	}

	line, _ := db.Stat(ids[0])
	if !line.IsProcessed || !line.IsWin {
		t.Fatalf("expected processed winning line, got %+v", line)
	}
	if line.PointsEarned != 22 {
		t.Fatalf("expected 22 points, got %v", line.PointsEarned)
	}
}

func TestScoringService_Run_GoalieOnLosingTeam(t *testing.T) {
	t.Parallel()

	db := newTestDB()
	ids := db.AddStats(gamestat.Line{
		PlayerID:         goalieID,
		MatchID:          matchTORMTL,
		Saves:            30,
		GoalsAgainst:     2,
		ShotsAgainst:     33,
		TimeOnIceSeconds: 3600,
		IsStarter:        true,
	})

	if _, err := newScoringService(db, 100).Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	line, _ := db.Stat(ids[0])
	if line.IsWin || line.IsShutout {
		t.Fatalf("expected losing non-shutout line, got %+v", line)
	}
	if line.PointsEarned != 2 {
		t.Fatalf("expected 2 points, got %v", line.PointsEarned)
	}
}

func TestScoringService_Run_IsIdempotentAndSkipsUnprocessedMatches(t *testing.T) {
	t.Parallel()

	db := newTestDB()
	ids := db.AddStats(
		skaterLine(forwardID, matchTORMTL, 1, 0),
		skaterLine(forward2ID, matchUnfinished, 3, 0),
	)
	service := newScoringService(db, 100)

	first, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run error: %v", err)
	}
	if first.Processed != 1 {
		t.Fatalf("expected 1 processed line, got %d", first.Processed)
	}
	scored, _ := db.Stat(ids[0])

	second, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	if second.Processed != 0 || second.Eligible != 0 {
		t.Fatalf("expected nothing to do on rerun, got %+v", second)
	}

	again, _ := db.Stat(ids[0])
	if again.PointsEarned != scored.PointsEarned {
		t.Fatalf("rerun changed points: %v -> %v", scored.PointsEarned, again.PointsEarned)
	}
	pending, _ := db.Stat(ids[1])
	if pending.IsProcessed || pending.PointsEarned != 0 {
		t.Fatalf("line of unprocessed match must stay pending, got %+v", pending)
	}
}

func TestScoringService_Run_ProcessesInBatches(t *testing.T) {
	t.Parallel()

	db := newTestDB()
	for i := 0; i < 5; i++ {
		db.AddStats(skaterLine(forwardID, matchTORMTL, i, 0))
	}

	summary, err := newScoringService(db, 2).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if summary.Processed != 5 || summary.Batches != 3 {
		t.Fatalf("expected 5 rows in 3 batches, got %+v", summary)
	}
}

func TestScoringService_Run_StrictTiersRejectMalformedTable(t *testing.T) {
	t.Parallel()

	db := newTestDB()
	db.SetRules(rules.NewTable(nil, []rules.Tier{
		{Min: 0, Max: 24, Points: 0},
		{Min: 30, Max: 34, Points: 4},
	}, nil))
	ids := db.AddStats(skaterLine(forwardID, matchTORMTL, 1, 0))

	_, err := newScoringService(db, 100).Run(context.Background())
	if !errors.Is(err, rules.ErrTierGap) {
		t.Fatalf("expected ErrTierGap, got %v", err)
	}
	line, _ := db.Stat(ids[0])
	if line.IsProcessed {
		t.Fatalf("no line may be touched when rules are rejected")
	}

	lenient := NewScoringService(
		memory.NewStatRepository(db),
		memory.NewRulesRepository(db),
		ScoringConfig{BatchSize: 100, StrictTiers: false},
		newTestLogger(),
		nil,
	)
	if _, err := lenient.Run(context.Background()); err != nil {
		t.Fatalf("lenient Run error: %v", err)
	}
}

func TestScoringService_Reset(t *testing.T) {
	t.Parallel()

	db := newTestDB()
	ids := db.AddStats(skaterLine(forwardID, matchTORMTL, 2, 1))
	service := newScoringService(db, 100)

	if _, err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if _, err := service.Reset(context.Background(), false); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	line, _ := db.Stat(ids[0])
	require.True(t, line.IsProcessed)

	affected, err := service.Reset(context.Background(), true)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	line, _ = db.Stat(ids[0])
	require.False(t, line.IsProcessed)
	require.Zero(t, line.PointsEarned)

	table := testRules()
	table.Payouts[rules.KeyGoal] = rules.Payout{Forward: 10}
	db.SetRules(table)

	_, err = service.Run(context.Background())
	require.NoError(t, err)
	line, _ = db.Stat(ids[0])
	require.Equal(t, 28.0, line.PointsEarned)
}

func TestScoringService_Run_BatchFailureKeepsCommittedBatches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	statsRepo := gamestatmock.NewRepository(t)
	rulesRepo := rulesmock.NewRepository(t)
	dbErr := errors.New("connection reset")

	rulesRepo.On("Load", mock.Anything).Return(testRules(), nil).Once()
	statsRepo.On("DeriveOutcomes", mock.Anything).Return(int64(5), nil).Once()
	statsRepo.On("CountEligible", mock.Anything).Return(5, nil).Once()
	statsRepo.On("ScoreBatch", mock.Anything, 2, mock.Anything).Return(2, nil).Once()
	statsRepo.On("ScoreBatch", mock.Anything, 2, mock.Anything).Return(0, dbErr).Once()

	service := NewScoringService(statsRepo, rulesRepo, ScoringConfig{BatchSize: 2, StrictTiers: true}, newTestLogger(), nil)
	summary, err := service.Run(ctx)

	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected *BatchError, got %v", err)
	}
	if batchErr.Batch != 2 || batchErr.Processed != 2 {
		t.Fatalf("unexpected batch error: %+v", batchErr)
	}
	if !errors.Is(err, dbErr) {
		t.Fatalf("batch error must wrap the cause, got %v", err)
	}
	if summary.Processed != 2 {
		t.Fatalf("expected committed progress of 2, got %d", summary.Processed)
	}
}

func TestScoringService_Run_RejectsConcurrentRun(t *testing.T) {
	t.Parallel()

	statsRepo := gamestatmock.NewRepository(t)
	rulesRepo := rulesmock.NewRepository(t)
	entered := make(chan struct{})
	release := make(chan struct{})

	rulesRepo.On("Load", mock.Anything).Return(testRules(), nil).Once()
	statsRepo.On("DeriveOutcomes", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(int64(0), nil).
		Once()
	statsRepo.On("CountEligible", mock.Anything).Return(0, nil).Once()

	service := NewScoringService(statsRepo, rulesRepo, ScoringConfig{BatchSize: 10}, newTestLogger(), nil)
	done := make(chan error, 1)
	go func() {
		_, err := service.Run(context.Background())
		done <- err
	}()

	<-entered
	if _, err := service.Run(context.Background()); !errors.Is(err, ErrScoringInProgress) {
		t.Fatalf("expected ErrScoringInProgress, got %v", err)
	}
	if _, err := service.Reset(context.Background(), true); !errors.Is(err, ErrScoringInProgress) {
		t.Fatalf("expected reset to be rejected while scoring, got %v", err)
	}
	close(release)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("first Run error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("first Run did not finish")
	}
}

func TestScoringService_Run_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	db := newTestDB()
	db.AddStats(skaterLine(forwardID, matchTORMTL, 1, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newScoringService(db, 100).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestProgressOf(t *testing.T) {
	t.Parallel()

	got := progressOf(250, 1000, 5*time.Second)
	if got.Percent != 25 || got.RatePerSec != 50 || got.ETA != 15*time.Second {
		t.Fatalf("unexpected progress: %+v", got)
	}
	if zero := progressOf(0, 0, 0); zero.Percent != 0 || zero.ETA != 0 {
		t.Fatalf("unexpected zero progress: %+v", zero)
	}
}
