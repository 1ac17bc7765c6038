package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/gamestat"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/rules"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultScoringBatchSize = 1000
	scoringFlightKey        = "scoring:run"
)

type ScoringConfig struct {
	BatchSize   int
	StrictTiers bool
}

// ScoringObserver receives per-batch and per-run measurements.
type ScoringObserver interface {
	ObserveBatch(rows int, elapsed time.Duration)
	ObserveRun(processed int, elapsed time.Duration, err error)
	ObserveReset(rows int64)
}

type nopScoringObserver struct{}

func (nopScoringObserver) ObserveBatch(int, time.Duration)     {}
func (nopScoringObserver) ObserveRun(int, time.Duration, error) {}
func (nopScoringObserver) ObserveReset(int64)                  {}

// ScoringRun summarizes one pass of the scoring engine.
type ScoringRun struct {
	RunID           string        `json:"run_id"`
	OutcomesDerived int64         `json:"outcomes_derived"`
	Eligible        int           `json:"eligible"`
	Processed       int           `json:"processed"`
	Batches         int           `json:"batches"`
	Elapsed         time.Duration `json:"elapsed"`
}

// ScoringService turns raw stat lines into fantasy points. Only one run or
// reset executes at a time per process; batches are strictly sequential.
type ScoringService struct {
	statsRepo gamestat.Repository
	rulesRepo rules.Repository
	cfg       ScoringConfig
	logger    *logging.Logger
	observer  ScoringObserver
	now       func() time.Time
	flight    resilience.Flight
}

func NewScoringService(
	statsRepo gamestat.Repository,
	rulesRepo rules.Repository,
	cfg ScoringConfig,
	logger *logging.Logger,
	observer ScoringObserver,
) *ScoringService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultScoringBatchSize
	}
	if logger == nil {
		logger = logging.Default()
	}
	if observer == nil {
		observer = nopScoringObserver{}
	}
	return &ScoringService{
		statsRepo: statsRepo,
		rulesRepo: rulesRepo,
		cfg:       cfg,
		logger:    logger,
		observer:  observer,
		now:       time.Now,
	}
}

// Run scores every eligible line. A failed batch is returned as *BatchError;
// batches committed before it are kept and a later Run resumes after them.
func (s *ScoringService) Run(ctx context.Context) (ScoringRun, error) {
	ctx, span := startSpan(ctx, "usecase.ScoringService.Run")
	defer span.End()

	var summary ScoringRun
	err := s.flight.TryDo(scoringFlightKey, func() error {
		startedAt := s.now()
		runID := uuid.NewString()
		var runErr error
		summary, runErr = s.run(ctx, s.logger.With("run_id", runID), startedAt)
		summary.RunID = runID
		summary.Elapsed = s.now().Sub(startedAt)
		s.observer.ObserveRun(summary.Processed, summary.Elapsed, runErr)
		return runErr
	})
	if errors.Is(err, resilience.ErrInFlight) {
		return ScoringRun{}, ErrScoringInProgress
	}
	if err != nil {
		return summary, failSpan(span, err)
	}
	span.SetAttributes(attribute.String("fantasy.run_id", summary.RunID), attribute.Int("fantasy.processed", summary.Processed))
	return summary, nil
}

func (s *ScoringService) run(ctx context.Context, logger *logging.Logger, startedAt time.Time) (ScoringRun, error) {
	var summary ScoringRun

	table, err := s.loadRules(ctx, logger)
	if err != nil {
		return summary, err
	}

	derived, err := s.statsRepo.DeriveOutcomes(ctx)
	if err != nil {
		return summary, fmt.Errorf("derive match outcomes: %w", err)
	}
	summary.OutcomesDerived = derived

	total, err := s.statsRepo.CountEligible(ctx)
	if err != nil {
		return summary, fmt.Errorf("count eligible stat lines: %w", err)
	}
	summary.Eligible = total

	logger.InfoContext(ctx, "scoring run started",
		"eligible", total,
		"outcomes_derived", derived,
		"batch_size", s.cfg.BatchSize,
	)
	if total == 0 {
		return summary, nil
	}

	scorer := func(c gamestat.Candidate) float64 {
		return scoreLine(table, c)
	}

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		batch := summary.Batches + 1
		batchStartedAt := s.now()
		rows, err := s.statsRepo.ScoreBatch(ctx, s.cfg.BatchSize, scorer)
		if err != nil {
			logger.ErrorContext(ctx, "scoring batch failed",
				"batch", batch,
				"processed", summary.Processed,
				"error", err,
			)
			return summary, &BatchError{Batch: batch, Processed: summary.Processed, Err: err}
		}
		if rows == 0 {
			break
		}

		summary.Batches = batch
		summary.Processed += rows
		s.observer.ObserveBatch(rows, s.now().Sub(batchStartedAt))
		s.logProgress(ctx, logger, summary, total, batch, rows, startedAt)

		if rows < s.cfg.BatchSize {
			break
		}
	}

	logger.InfoContext(ctx, "scoring run finished",
		"processed", summary.Processed,
		"batches", summary.Batches,
		"elapsed", s.now().Sub(startedAt),
	)
	return summary, nil
}

func (s *ScoringService) loadRules(ctx context.Context, logger *logging.Logger) (rules.Table, error) {
	table, err := s.rulesRepo.Load(ctx)
	if err != nil {
		return rules.Table{}, fmt.Errorf("load scoring rules: %w", err)
	}
	if err := table.Validate(); err != nil {
		if s.cfg.StrictTiers {
			return rules.Table{}, fmt.Errorf("validate scoring rules: %w", err)
		}
		logger.WarnContext(ctx, "scoring rules tier table is malformed, out of range values score 0", "error", err)
	}
	return table, nil
}

func (s *ScoringService) logProgress(ctx context.Context, logger *logging.Logger, summary ScoringRun, total, batch, rows int, startedAt time.Time) {
	elapsed := s.now().Sub(startedAt)
	progress := progressOf(summary.Processed, total, elapsed)
	logger.InfoContext(ctx, "scoring progress",
		"processed", summary.Processed,
		"total", total,
		"percent", progress.Percent,
		"rate_per_sec", progress.RatePerSec,
		"eta", progress.ETA,
		"batch", batch,
		"batch_rows", rows,
	)
}

// Reset zeroes every scored line so the next Run re-scores under the current
// rules. It refuses to run without explicit confirmation.
func (s *ScoringService) Reset(ctx context.Context, confirmed bool) (int64, error) {
	ctx, span := startSpan(ctx, "usecase.ScoringService.Reset")
	defer span.End()

	if !confirmed {
		return 0, ErrConfirmationRequired
	}

	var affected int64
	err := s.flight.TryDo(scoringFlightKey, func() error {
		rows, resetErr := s.statsRepo.ResetAll(ctx)
		if resetErr != nil {
			return fmt.Errorf("reset scored stat lines: %w", resetErr)
		}
		affected = rows
		return nil
	})
	if errors.Is(err, resilience.ErrInFlight) {
		return 0, ErrScoringInProgress
	}
	if err != nil {
		return 0, err
	}

	s.observer.ObserveReset(affected)
	s.logger.WarnContext(ctx, "scoring reset applied", "rows", affected)
	return affected, nil
}

type progress struct {
	Percent    float64
	RatePerSec float64
	ETA        time.Duration
}

func progressOf(processed, total int, elapsed time.Duration) progress {
	var out progress
	if total > 0 {
		out.Percent = float64(int(float64(processed)/float64(total)*10000)) / 100
		if out.Percent > 100 {
			out.Percent = 100
		}
	}
	if elapsed > 0 && processed > 0 {
		out.RatePerSec = float64(processed) / elapsed.Seconds()
		if remaining := total - processed; remaining > 0 {
			out.ETA = time.Duration(float64(remaining) / out.RatePerSec * float64(time.Second)).Round(time.Second)
		}
	}
	return out
}
