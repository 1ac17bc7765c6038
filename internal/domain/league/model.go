package league

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/calendar"
)

// League groups fantasy teams competing against each other.
type League struct {
	ID        int64
	Name      string
	CreatorID int64
}

func (l League) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}

// Team is a fantasy team. TotalPoints is a cached season aggregate.
type Team struct {
	ID              int64
	Name            string
	OwnerID         int64
	OwnerName       string
	BudgetRemaining int64
	TotalPoints     float64
}

// ScoringPeriod is a non-overlapping inclusive date window for period standings.
type ScoringPeriod struct {
	ID        int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

func (p ScoringPeriod) Range() (calendar.Range, error) {
	return calendar.NewRange(p.StartDate, p.EndDate)
}

func (p ScoringPeriod) Contains(date time.Time) bool {
	window, err := p.Range()
	if err != nil {
		return false
	}
	return window.Contains(date)
}
