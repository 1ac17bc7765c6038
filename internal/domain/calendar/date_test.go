package calendar

import (
	"testing"
	"time"
)

func TestDate_UsesLocation(t *testing.T) {
	t.Parallel()

	toronto, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 01:30 UTC on Oct 15 is still Oct 14 in Toronto.
	instant := time.Date(2025, 10, 15, 1, 30, 0, 0, time.UTC)
	if got := Format(Date(instant, toronto)); got != "2025-10-14" {
		t.Fatalf("unexpected local date: got=%s want=2025-10-14", got)
	}
	if got := Format(Date(instant, time.UTC)); got != "2025-10-15" {
		t.Fatalf("unexpected utc date: got=%s want=2025-10-15", got)
	}
}

func TestRange_DaysAndContains(t *testing.T) {
	t.Parallel()

	start, _ := Parse("2025-10-30")
	end, _ := Parse("2025-11-02")
	r, err := NewRange(start, end)
	if err != nil {
		t.Fatalf("new range: %v", err)
	}

	days := r.Days()
	if len(days) != 4 {
		t.Fatalf("unexpected day count: got=%d want=4", len(days))
	}
	if Format(days[3]) != "2025-11-02" {
		t.Fatalf("unexpected last day: %s", Format(days[3]))
	}
	if !r.Contains(end) || !r.Contains(start) {
		t.Fatalf("expected range bounds to be inclusive")
	}
	if r.Contains(end.AddDate(0, 0, 1)) {
		t.Fatalf("expected day after end to be outside range")
	}
}

func TestNewRange_RejectsInverted(t *testing.T) {
	t.Parallel()

	start, _ := Parse("2025-11-02")
	end, _ := Parse("2025-11-01")
	if _, err := NewRange(start, end); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}
