package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
	"github.com/stretchr/testify/require"
)

type fakeScorer struct {
	run   usecase.ScoringRun
	err   error
	calls int
}

func (f *fakeScorer) Run(context.Context) (usecase.ScoringRun, error) {
	f.calls++
	return f.run, f.err
}

type fakeSnapshotter struct {
	today    time.Time
	dates    []time.Time
	inserted int
}

func (f *fakeSnapshotter) Today() time.Time { return f.today }

func (f *fakeSnapshotter) SnapshotDay(_ context.Context, date time.Time) (usecase.SnapshotResult, error) {
	f.dates = append(f.dates, date)
	return usecase.SnapshotResult{GameDate: date, Inserted: f.inserted}, nil
}

type fakeStandings struct {
	invalidated int
	warmed      int
	totals      int
	warmErr     error
}

func (f *fakeStandings) RecomputeTeamTotals(context.Context) (map[int64]float64, error) {
	f.totals++
	return map[int64]float64{1: 10}, nil
}

func (f *fakeStandings) WarmSeasonStandings(context.Context) (usecase.WarmResult, error) {
	f.warmed++
	return usecase.WarmResult{Leagues: 1, Warmed: 1}, f.warmErr
}

func (f *fakeStandings) Invalidate(context.Context) { f.invalidated++ }

type jobCall struct {
	job string
	err error
}

type fakeObserver struct {
	mu     sync.Mutex
	jobs   []jobCall
	states []string
}

func (f *fakeObserver) ObserveJob(job string, _ time.Duration, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, jobCall{job: job, err: err})
}

func (f *fakeObserver) SetCircuitState(_ string, state string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, state)
}

type fixture struct {
	scheduler *Scheduler
	scorer    *fakeScorer
	snapshots *fakeSnapshotter
	standings *fakeStandings
	observer  *fakeObserver
}

func newFixture(breaker *resilience.CircuitBreaker) fixture {
	f := fixture{
		scorer:    &fakeScorer{},
		snapshots: &fakeSnapshotter{today: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)},
		standings: &fakeStandings{},
		observer:  &fakeObserver{},
	}
	f.scheduler = NewScheduler(
		Schedules{Snapshot: "0 0 11 * * *", Scoring: "0 */15 * * * *", Totals: "0 30 11 * * *"},
		time.UTC,
		f.scorer,
		f.snapshots,
		f.standings,
		breaker,
		f.observer,
		logging.NewNop(),
	)
	return f
}

func TestScheduler_RunNow_SnapshotUsesToday(t *testing.T) {
	f := newFixture(nil)

	require.NoError(t, f.scheduler.RunNow(JobSnapshot))
	require.Equal(t, []time.Time{f.snapshots.today}, f.snapshots.dates)
	require.Equal(t, []jobCall{{job: JobSnapshot}}, f.observer.jobs)
	require.Zero(t, f.standings.invalidated)
}

func TestScheduler_RunNow_SnapshotWithNewRowsInvalidatesStandings(t *testing.T) {
	f := newFixture(nil)
	f.snapshots.inserted = 4

	require.NoError(t, f.scheduler.RunNow(JobSnapshot))
	require.Equal(t, 1, f.standings.invalidated)
	require.Zero(t, f.standings.warmed)
}

func TestScheduler_RunNow_ScoringWarmsStandings(t *testing.T) {
	f := newFixture(nil)
	f.scorer.run = usecase.ScoringRun{Processed: 12}

	require.NoError(t, f.scheduler.RunNow(JobScoring))
	require.Equal(t, 1, f.standings.invalidated)
	require.Equal(t, 1, f.standings.warmed)
}

func TestScheduler_RunNow_ScoringWithoutRowsSkipsWarm(t *testing.T) {
	f := newFixture(nil)

	require.NoError(t, f.scheduler.RunNow(JobScoring))
	require.Zero(t, f.standings.invalidated)
	require.Zero(t, f.standings.warmed)
}

func TestScheduler_RunNow_WarmFailureIsReported(t *testing.T) {
	f := newFixture(nil)
	f.scorer.run = usecase.ScoringRun{Processed: 3}
	f.standings.warmErr = errors.New("cache down")

	err := f.scheduler.RunNow(JobScoring)
	require.ErrorContains(t, err, "cache down")
	require.Len(t, f.observer.jobs, 1)
	require.Error(t, f.observer.jobs[0].err)
}

func TestScheduler_RunNow_ScoringOpensCircuit(t *testing.T) {
	breaker := resilience.NewCircuitBreaker(1, time.Hour, 1)
	f := newFixture(breaker)
	f.scorer.err = errors.New("database unavailable")

	require.Error(t, f.scheduler.RunNow(JobScoring))
	err := f.scheduler.RunNow(JobScoring)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	require.Equal(t, 1, f.scorer.calls)
	require.Equal(t, []string{string(resilience.CircuitStateClosed), string(resilience.CircuitStateOpen)}, f.observer.states)
}

func TestScheduler_RunNow_Totals(t *testing.T) {
	f := newFixture(nil)

	require.NoError(t, f.scheduler.RunNow(JobTotals))
	require.Equal(t, 1, f.standings.totals)
}

func TestScheduler_RunNow_UnknownJob(t *testing.T) {
	f := newFixture(nil)

	require.Error(t, f.scheduler.RunNow("nope"))
	require.Empty(t, f.observer.jobs)
}

func TestScheduler_StartRejectsBadSpec(t *testing.T) {
	f := newFixture(nil)
	f.scheduler.schedules.Totals = "not a cron"

	require.Error(t, f.scheduler.Start())
}

func TestScheduler_StartStop(t *testing.T) {
	f := newFixture(nil)

	require.NoError(t, f.scheduler.Start())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.scheduler.Stop(ctx))
}
