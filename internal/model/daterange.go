package model

import (
	"errors"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDateRange = errors.New("invalid date range, use YYYY-MM-DD and start <= end")

// DateRange is an optional window of whole calendar days. Both ends are inclusive;
// a nil end leaves that side open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseDateRange builds a range from YYYY-MM-DD strings in loc. Empty strings are open ends.
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	var r DateRange
	if loc == nil {
		loc = time.UTC
	}
	if s := strings.TrimSpace(start); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return DateRange{}, ErrInvalidDateRange
		}
		r.Start = &t
	}
	if e := strings.TrimSpace(end); e != "" {
		t, err := time.ParseInLocation(DateLayout, e, loc)
		if err != nil {
			return DateRange{}, ErrInvalidDateRange
		}
		r.End = &t
	}
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return DateRange{}, ErrInvalidDateRange
	}
	return r, nil
}

// Bounds returns the half-open UTC instant window [from, until). from is the start of
// the first day and until is the start of the day after End, so the last day is
// covered through 23:59:59.
func (r DateRange) Bounds() (from, until *time.Time) {
	if r.Start != nil {
		f := startOfDay(*r.Start).UTC()
		from = &f
	}
	if r.End != nil {
		u := startOfDay(*r.End).AddDate(0, 0, 1).UTC()
		until = &u
	}
	return from, until
}

// Describe renders the range for report headers.
func (r DateRange) Describe() string {
	switch {
	case r.Start != nil && r.End != nil:
		return r.Start.Format(DateLayout) + " to " + r.End.Format(DateLayout)
	case r.Start != nil:
		return "From " + r.Start.Format(DateLayout)
	case r.End != nil:
		return "Until " + r.End.Format(DateLayout)
	default:
		return "All dates"
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
