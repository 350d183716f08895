package dates

import (
	"time"

	"github.com/roach88/worklens/internal/ir"
)

// Keywords lists the recognized time shortcuts.
var Keywords = []string{
	"today", "tomorrow", "yesterday",
	"this_week", "next_week", "last_week",
	"this_month", "next_month", "last_month",
	"this_year", "now",
}

// Resolver turns filter values into concrete dates and timestamps.
//
// Keywords are anchored on the injected clock, read in the resolver's
// location; weeks start on Monday. A Resolver has no mutable state.
type Resolver struct {
	now func() time.Time
	loc *time.Location
}

// NewResolver creates a resolver. A nil clock uses time.Now and a nil
// location uses UTC.
func NewResolver(now func() time.Time, loc *time.Location) *Resolver {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{now: now, loc: loc}
}

// Resolve returns the concrete value for v. Only strings are inspected;
// every other value, lists included, is returned unchanged.
func (r *Resolver) Resolve(v ir.Value) ir.Value {
	s, ok := v.(ir.String)
	if !ok {
		return v
	}
	if kw, ok := r.Keyword(string(s)); ok {
		return kw
	}
	if ts, ok := ParseTimestamp(string(s)); ok {
		return ts
	}
	if d, ok := ParseDate(string(s)); ok {
		return d
	}
	return v
}

// Keyword resolves an exact time shortcut. "now" yields a UTC timestamp;
// every other keyword yields a date.
func (r *Resolver) Keyword(s string) (ir.Value, bool) {
	now := r.now()
	today := ir.DateOf(now.In(r.loc))

	switch s {
	case "now":
		return ir.NewTimestamp(now), true
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDays(1), true
	case "yesterday":
		return today.AddDays(-1), true
	case "this_week":
		return startOfWeek(today), true
	case "next_week":
		return startOfWeek(today).AddDays(7), true
	case "last_week":
		return startOfWeek(today).AddDays(-7), true
	case "this_month":
		return startOfMonth(today, 0), true
	case "next_month":
		return startOfMonth(today, 1), true
	case "last_month":
		return startOfMonth(today, -1), true
	case "this_year":
		return ir.Date{Year: today.Year, Month: time.January, Day: 1}, true
	default:
		return nil, false
	}
}

// Today returns the current date in the resolver's location.
func (r *Resolver) Today() ir.Date {
	return ir.DateOf(r.now().In(r.loc))
}

func startOfWeek(d ir.Date) ir.Date {
	// Weekday counts from Sunday; shift so Monday is 0.
	offset := (int(d.Time().Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

func startOfMonth(d ir.Date, months int) ir.Date {
	first := time.Date(d.Year, d.Month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	return ir.DateOf(first)
}
