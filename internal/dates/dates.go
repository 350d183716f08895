// Package dates resolves time shortcuts and ISO-8601 literals in filter
// values into concrete dates and timestamps.
//
// Resolution never fails. A string that is neither a keyword nor a valid
// date or timestamp is returned unchanged, so a tag that merely looks like a
// date is only reinterpreted when it also parses as one.
package dates

import (
	"regexp"
	"strings"
	"time"

	"github.com/roach88/worklens/internal/ir"
)

var (
	dateRegex      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timestampRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:\d{2})?$`)
)

// Timestamp layouts tried in order once the pattern matches. Layouts without
// a zone parse as UTC. Fractional seconds are accepted after any seconds field.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses a calendar-valid YYYY-MM-DD date.
func ParseDate(s string) (ir.Date, bool) {
	if !dateRegex.MatchString(s) {
		return ir.Date{}, false
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return ir.Date{}, false
	}
	return ir.DateOf(t), true
}

// ParseTimestamp parses an ISO-8601 date-time with optional seconds,
// fraction, and zone. A space may separate date and time.
func ParseTimestamp(s string) (ir.Timestamp, bool) {
	if !timestampRegex.MatchString(s) {
		return ir.Timestamp{}, false
	}
	s = strings.Replace(s, " ", "T", 1)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ir.NewTimestamp(t), true
		}
	}
	return ir.Timestamp{}, false
}
