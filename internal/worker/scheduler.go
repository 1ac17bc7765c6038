// Package worker runs the roster snapshot, scoring and team totals jobs on
// cron schedules.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/riskibarqy/fantasy-hockey/internal/worker")

const (
	JobSnapshot = "roster_snapshot"
	JobScoring  = "scoring"
	JobTotals   = "team_totals"
)

type Scorer interface {
	Run(ctx context.Context) (usecase.ScoringRun, error)
}

type Snapshotter interface {
	Today() time.Time
	SnapshotDay(ctx context.Context, date time.Time) (usecase.SnapshotResult, error)
}

type Standings interface {
	RecomputeTeamTotals(ctx context.Context) (map[int64]float64, error)
	WarmSeasonStandings(ctx context.Context) (usecase.WarmResult, error)
	Invalidate(ctx context.Context)
}

type Observer interface {
	ObserveJob(job string, elapsed time.Duration, err error)
	SetCircuitState(job, state string)
}

type Schedules struct {
	Snapshot string
	Scoring  string
	Totals   string
}

type Scheduler struct {
	cron      *cron.Cron
	schedules Schedules
	scorer    Scorer
	snapshots Snapshotter
	standings Standings
	breaker   *resilience.CircuitBreaker
	observer  Observer
	logger    *logging.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(
	schedules Schedules,
	loc *time.Location,
	scorer Scorer,
	snapshots Snapshotter,
	standings Standings,
	breaker *resilience.CircuitBreaker,
	observer Observer,
	logger *logging.Logger,
) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}

	cronLogger := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		schedules: schedules,
		scorer:    scorer,
		snapshots: snapshots,
		standings: standings,
		breaker:   breaker,
		observer:  observer,
		logger:    logger,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if observer != nil {
		observer.SetCircuitState(JobScoring, string(breaker.State()))
		breaker.OnStateChange(func(from, to resilience.CircuitState) {
			observer.SetCircuitState(JobScoring, string(to))
			logger.Warn("scoring circuit changed", "from", from, "to", to)
		})
	}
	return s
}

// Start registers every job and starts the cron loop.
func (s *Scheduler) Start() error {
	jobs := []struct {
		name string
		expr string
	}{
		{name: JobSnapshot, expr: s.schedules.Snapshot},
		{name: JobScoring, expr: s.schedules.Scoring},
		{name: JobTotals, expr: s.schedules.Totals},
	}
	for _, job := range jobs {
		name := job.name
		if _, err := s.cron.AddFunc(job.expr, func() { _ = s.RunNow(name) }); err != nil {
			return fmt.Errorf("schedule %s job %q: %w", name, job.expr, err)
		}
		s.logger.Info("job scheduled", "job", name, "schedule", job.expr)
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started")
	return nil
}

// Stop cancels running jobs and waits for them until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("cron scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for running jobs: %w", ctx.Err())
	}
}

// RunNow runs job immediately on the calling goroutine.
func (s *Scheduler) RunNow(job string) error {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	var run func(context.Context) error
	switch job {
	case JobSnapshot:
		run = s.runSnapshot
	case JobScoring:
		run = s.runScoring
	case JobTotals:
		run = s.runTotals
	default:
		return fmt.Errorf("unknown job %q", job)
	}

	ctx, span := tracer.Start(ctx, "worker."+job, trace.WithNewRoot())
	defer span.End()

	startedAt := time.Now()
	err := run(ctx)
	if err != nil {
		span.RecordError(err)
	}
	elapsed := time.Since(startedAt)
	if s.observer != nil {
		s.observer.ObserveJob(job, elapsed, err)
	}

	var open *resilience.OpenError
	switch {
	case err == nil:
		s.logger.Info("job finished", "job", job, "elapsed", elapsed)
	case errors.As(err, &open) && !open.RetryAt.IsZero():
		s.logger.Warn("job skipped", "job", job, "reason", "circuit open", "retry_at", open.RetryAt)
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, usecase.ErrScoringInProgress):
		s.logger.Warn("job skipped", "job", job, "reason", err)
	default:
		s.logger.Error("job failed", "job", job, "elapsed", elapsed, "error", err)
	}
	return err
}

// runSnapshot appends today's lineups. New ledger rows can credit lines that
// are already scored, so cached standings are dropped when rows were added.
func (s *Scheduler) runSnapshot(ctx context.Context) error {
	result, err := s.snapshots.SnapshotDay(ctx, s.snapshots.Today())
	if err != nil {
		return err
	}
	if result.Inserted > 0 {
		s.standings.Invalidate(ctx)
	}
	return nil
}

// runScoring guards the pass with the breaker. A pass that scored rows
// invalidates and rebuilds cached standings.
func (s *Scheduler) runScoring(ctx context.Context) error {
	var summary usecase.ScoringRun
	err := s.breaker.Run(ctx, func(ctx context.Context) error {
		var runErr error
		summary, runErr = s.scorer.Run(ctx)
		return runErr
	})
	if err != nil {
		return err
	}
	if summary.Processed == 0 {
		return nil
	}

	s.standings.Invalidate(ctx)
	warm, err := s.standings.WarmSeasonStandings(ctx)
	if err != nil {
		return fmt.Errorf("warm standings after %d scored rows: %w", summary.Processed, err)
	}
	s.logger.Info("standings warmed", "leagues", warm.Leagues, "warmed", warm.Warmed)
	return nil
}

func (s *Scheduler) runTotals(ctx context.Context) error {
	totals, err := s.standings.RecomputeTeamTotals(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("team totals recomputed", "teams", len(totals))
	return nil
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
