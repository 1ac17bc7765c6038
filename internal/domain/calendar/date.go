package calendar

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Date truncates t to its calendar day in loc and returns it as midnight UTC,
// so values compare equal regardless of the zone they were observed in.
func Date(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func Parse(raw string) (time.Time, error) {
	value, err := time.Parse(Layout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return value, nil
}

func Format(date time.Time) string {
	return date.Format(Layout)
}

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

func NewRange(start, end time.Time) (Range, error) {
	start = Date(start, time.UTC)
	end = Date(end, time.UTC)
	if end.Before(start) {
		return Range{}, fmt.Errorf("range end %s is before start %s", Format(end), Format(start))
	}
	return Range{Start: start, End: end}, nil
}

func (r Range) Contains(date time.Time) bool {
	date = Date(date, time.UTC)
	return !date.Before(r.Start) && !date.After(r.End)
}

// Days lists every day of the range in ascending order.
func (r Range) Days() []time.Time {
	if r.End.Before(r.Start) {
		return nil
	}
	out := make([]time.Time, 0, int(r.End.Sub(r.Start).Hours()/24)+1)
	for day := r.Start; !day.After(r.End); day = day.AddDate(0, 0, 1) {
		out = append(out, day)
	}
	return out
}
