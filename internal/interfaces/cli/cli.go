// Package cli implements the operator commands of the fantasy-hockey binary.
// Every command writes one JSON envelope to stdout.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fantasy-hockey/internal/app"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	errUsage = errors.New("usage error")
	tracer   = otel.Tracer("github.com/riskibarqy/fantasy-hockey/internal/interfaces/cli")
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, r *Runner, args []string) (any, error)
}

var commands = []command{
	{name: "score", summary: "score every eligible stat line", run: runScore},
	{name: "reset", summary: "zero every scored line (requires --confirm)", run: runReset},
	{name: "snapshot", summary: "record live lineups into the roster history [--date]", run: runSnapshot},
	{name: "roster", summary: "show a team's recorded lineup --team --date", run: runRoster},
	{name: "standings", summary: "rank a league --league [--period | --current]", run: runStandings},
	{name: "performance", summary: "daily points of a team --team --period", run: runPerformance},
	{name: "lineup", summary: "best or worst lineup of the last game night [--order best|worst|both]", run: runLineup},
	{name: "totals", summary: "recompute every team's cached season total", run: runTotals},
	{name: "warm", summary: "preload season standings of every league", run: runWarm},
}

// Runner dispatches one command against the wired services.
type Runner struct {
	services *app.Services
	stdout   io.Writer
	stderr   io.Writer
	validate *validator.Validate
	logger   *logging.Logger
}

func NewRunner(services *app.Services, stdout, stderr io.Writer, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{
		services: services,
		stdout:   stdout,
		stderr:   stderr,
		validate: validator.New(),
		logger:   logger,
	}
}

// Run executes args[0] with the remaining flags and returns the exit code.
func (r *Runner) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		r.printUsage()
		return ExitUsage
	}

	name := strings.ToLower(strings.TrimSpace(args[0]))
	cmd, ok := lookup(name)
	if !ok {
		r.printUsage()
		return writeError(r.stdout, name, fmt.Errorf("%w: unknown command %q", errUsage, name))
	}

	ctx, span := tracer.Start(ctx, "cli."+name, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	startedAt := time.Now()
	data, err := cmd.run(ctx, r, args[1:])
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.ErrorContext(ctx, "command failed", "command", name, "error", err)
		return writeError(r.stdout, name, err)
	}
	if err := writeSuccess(r.stdout, name, data); err != nil {
		r.logger.ErrorContext(ctx, "encode command output", "command", name, "error", err)
		return ExitInternal
	}
	r.logger.InfoContext(ctx, "command finished", "command", name, "elapsed", time.Since(startedAt))
	return ExitOK
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func (r *Runner) printUsage() {
	fmt.Fprintln(r.stderr, "usage: fantasy-hockey <command> [flags]")
	fmt.Fprintln(r.stderr, "commands:")
	for _, cmd := range commands {
		fmt.Fprintf(r.stderr, "  %-12s %s\n", cmd.name, cmd.summary)
	}
}

func (r *Runner) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	return fs
}

func (r *Runner) parse(fs *flag.FlagSet, args []string, req any) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	if req == nil {
		return nil
	}
	if err := r.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: validation failed: %v", errUsage, err)
	}
	return nil
}

type resetRequest struct {
	Confirm bool
}

type snapshotRequest struct {
	Date string `validate:"omitempty,datetime=2006-01-02"`
}

type rosterRequest struct {
	TeamID int64  `validate:"required,gt=0"`
	Date   string `validate:"required,datetime=2006-01-02"`
}

type standingsRequest struct {
	LeagueID int64 `validate:"required,gt=0"`
	PeriodID int64 `validate:"gte=0"`
	Current  bool
}

type performanceRequest struct {
	TeamID   int64 `validate:"required,gt=0"`
	PeriodID int64 `validate:"required,gt=0"`
}

type lineupRequest struct {
	Order string `validate:"required,oneof=best worst both"`
}

func runScore(ctx context.Context, r *Runner, args []string) (any, error) {
	if err := r.parse(r.flagSet("score"), args, nil); err != nil {
		return nil, err
	}
	run, err := r.services.Scoring.Run(ctx)
	if err != nil {
		return nil, err
	}
	return newScoringRunView(run), nil
}

func runReset(ctx context.Context, r *Runner, args []string) (any, error) {
	var req resetRequest
	fs := r.flagSet("reset")
	fs.BoolVar(&req.Confirm, "confirm", false, "confirm zeroing every scored line")
	if err := r.parse(fs, args, &req); err != nil {
		return nil, err
	}
	rows, err := r.services.Scoring.Reset(ctx, req.Confirm)
	if err != nil {
		return nil, err
	}
	r.services.Standings.Invalidate(ctx)
	return resetView{Reset: rows}, nil
}

func runSnapshot(ctx context.Context, r *Runner, args []string) (any, error) {
	var req snapshotRequest
	fs := r.flagSet("snapshot")
	fs.StringVar(&req.Date, "date", "", "game date YYYY-MM-DD, defaults to today")
	if err := r.parse(fs, args, &req); err != nil {
		return nil, err
	}

	date := r.services.Roster.Today()
	if req.Date != "" {
		parsed, err := calendar.Parse(req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		date = parsed
	}
	result, err := r.services.Roster.SnapshotDay(ctx, date)
	if err != nil {
		return nil, err
	}
	return newSnapshotView(result), nil
}

func runRoster(ctx context.Context, r *Runner, args []string) (any, error) {
	var req rosterRequest
	fs := r.flagSet("roster")
	fs.Int64Var(&req.TeamID, "team", 0, "fantasy team id")
	fs.StringVar(&req.Date, "date", "", "game date YYYY-MM-DD")
	if err := r.parse(fs, args, &req); err != nil {
		return nil, err
	}

	date, err := calendar.Parse(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	entries, err := r.services.Roster.RosterAsOf(ctx, req.TeamID, date)
	if err != nil {
		return nil, err
	}
	return newRosterViews(entries), nil
}

func runStandings(ctx context.Context, r *Runner, args []string) (any, error) {
	var req standingsRequest
	fs := r.flagSet("standings")
	fs.Int64Var(&req.LeagueID, "league", 0, "league id")
	fs.Int64Var(&req.PeriodID, "period", 0, "scoring period id")
	fs.BoolVar(&req.Current, "current", false, "use the period containing today")
	if err := r.parse(fs, args, &req); err != nil {
		return nil, err
	}
	if req.Current && req.PeriodID > 0 {
		return nil, fmt.Errorf("%w: --period and --current are exclusive", errUsage)
	}

	var (
		period league.ScoringPeriod
		result any
	)
	switch {
	case req.Current:
		standings, err := r.services.Standings.CurrentPeriodStandings(ctx, req.LeagueID)
		if err != nil {
			return nil, err
		}
		period = standings.Period
		result = newStandingsView(req.LeagueID, &period, standings.Rows)
	case req.PeriodID > 0:
		standings, err := r.services.Standings.Period(ctx, req.LeagueID, req.PeriodID)
		if err != nil {
			return nil, err
		}
		period = standings.Period
		result = newStandingsView(req.LeagueID, &period, standings.Rows)
	default:
		rows, err := r.services.Standings.Season(ctx, req.LeagueID)
		if err != nil {
			return nil, err
		}
		result = newStandingsView(req.LeagueID, nil, rows)
	}
	return result, nil
}

func runPerformance(ctx context.Context, r *Runner, args []string) (any, error) {
	var req performanceRequest
	fs := r.flagSet("performance")
	fs.Int64Var(&req.TeamID, "team", 0, "fantasy team id")
	fs.Int64Var(&req.PeriodID, "period", 0, "scoring period id")
	if err := r.parse(fs, args, &req); err != nil {
		return nil, err
	}
	days, err := r.services.Standings.TeamPerformance(ctx, req.TeamID, req.PeriodID)
	if err != nil {
		return nil, err
	}
	return newPerformanceView(req.TeamID, req.PeriodID, days), nil
}

func runLineup(ctx context.Context, r *Runner, args []string) (any, error) {
	req := lineupRequest{Order: "best"}
	fs := r.flagSet("lineup")
	fs.StringVar(&req.Order, "order", req.Order, "best, worst or both")
	if err := r.parse(fs, args, &req); err != nil {
		return nil, err
	}

	if req.Order == "both" {
		leaders, err := r.services.Lineup.NightlyLeaders(ctx)
		if err != nil {
			return nil, err
		}
		return newLeadersView(leaders), nil
	}
	order, err := lineup.ParseOrder(req.Order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	selected, err := r.services.Lineup.Nightly(ctx, order)
	if err != nil {
		return nil, err
	}
	return newLineupView(selected), nil
}

func runTotals(ctx context.Context, r *Runner, args []string) (any, error) {
	if err := r.parse(r.flagSet("totals"), args, nil); err != nil {
		return nil, err
	}
	totals, err := r.services.Standings.RecomputeTeamTotals(ctx)
	if err != nil {
		return nil, err
	}
	return newTeamTotalViews(totals), nil
}

func runWarm(ctx context.Context, r *Runner, args []string) (any, error) {
	if err := r.parse(r.flagSet("warm"), args, nil); err != nil {
		return nil, err
	}
	return r.services.Standings.WarmSeasonStandings(ctx)
}
