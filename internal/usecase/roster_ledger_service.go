package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
)

// SnapshotObserver receives roster snapshot results.
type SnapshotObserver interface {
	ObserveSnapshot(inserted, skipped int, err error)
}

type nopSnapshotObserver struct{}

func (nopSnapshotObserver) ObserveSnapshot(int, int, error) {}

type SnapshotResult struct {
	GameDate time.Time `json:"game_date"`
	Picks    int       `json:"picks"`
	Inserted int       `json:"inserted"`
	Skipped  int       `json:"skipped"`
}

// RosterLedgerService copies live lineups into the append-only roster history.
type RosterLedgerService struct {
	ledger   roster.Ledger
	source   roster.LineupSource
	loc      *time.Location
	logger   *logging.Logger
	observer SnapshotObserver
	now      func() time.Time
}

func NewRosterLedgerService(
	ledger roster.Ledger,
	source roster.LineupSource,
	loc *time.Location,
	logger *logging.Logger,
	observer SnapshotObserver,
) *RosterLedgerService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	if observer == nil {
		observer = nopSnapshotObserver{}
	}
	return &RosterLedgerService{
		ledger:   ledger,
		source:   source,
		loc:      loc,
		logger:   logger,
		observer: observer,
		now:      time.Now,
	}
}

// Today is the current game day in the configured timezone.
func (s *RosterLedgerService) Today() time.Time {
	return calendar.Date(s.now(), s.loc)
}

// SnapshotDay records every live pick for date. Running it again for the same
// date only inserts picks added since, existing rows are left untouched.
func (s *RosterLedgerService) SnapshotDay(ctx context.Context, date time.Time) (SnapshotResult, error) {
	ctx, span := startSpan(ctx, "usecase.RosterLedgerService.SnapshotDay")
	defer span.End()

	if date.IsZero() {
		return SnapshotResult{}, fmt.Errorf("%w: snapshot date is required", ErrInvalidInput)
	}
	gameDate := calendar.Date(date, time.UTC)

	picks, err := s.source.ListActivePicks(ctx)
	if err != nil {
		s.observer.ObserveSnapshot(0, 0, err)
		return SnapshotResult{}, fmt.Errorf("list active picks: %w", err)
	}

	entries := make([]roster.Entry, 0, len(picks))
	for _, pick := range picks {
		entry := roster.Entry{
			TeamID:    pick.TeamID,
			PlayerID:  pick.PlayerID,
			GameDate:  gameDate,
			IsCaptain: pick.IsCaptain,
		}
		if err := entry.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid lineup pick", "team_id", pick.TeamID, "player_id", pick.PlayerID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}

	result := SnapshotResult{GameDate: gameDate, Picks: len(picks)}
	if len(entries) == 0 {
		s.observer.ObserveSnapshot(0, 0, nil)
		return result, nil
	}

	inserted, err := s.ledger.Append(ctx, entries)
	if err != nil {
		s.observer.ObserveSnapshot(0, 0, err)
		return SnapshotResult{}, failSpan(span, fmt.Errorf("append roster history: %w", err))
	}
	result.Inserted = inserted
	result.Skipped = len(entries) - inserted
	s.observer.ObserveSnapshot(result.Inserted, result.Skipped, nil)

	s.logger.InfoContext(ctx, "roster snapshot recorded",
		"game_date", calendar.Format(gameDate),
		"picks", result.Picks,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
	)
	return result, nil
}

// RosterAsOf derives a team's lineup on date from the ledger.
func (s *RosterLedgerService) RosterAsOf(ctx context.Context, teamID int64, date time.Time) ([]roster.Entry, error) {
	ctx, span := startSpan(ctx, "usecase.RosterLedgerService.RosterAsOf", teamAttr(teamID))
	defer span.End()

	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	entries, err := s.ledger.ListByTeamOn(ctx, teamID, calendar.Date(date, time.UTC))
	if err != nil {
		return nil, fmt.Errorf("list roster history: %w", err)
	}
	return entries, nil
}
