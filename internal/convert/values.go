package convert

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/roach88/worklens/internal/querysql"
)

func text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return ""
}

func optText(v any) *string {
	s := text(v)
	if s == "" {
		return nil
	}
	return &s
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err == nil {
			return f
		}
	}
	return 0
}

func optNumber(v any) *float64 {
	switch v.(type) {
	case float64, int64, int:
		f := number(v)
		return &f
	}
	return nil
}

func flag(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case int:
		return b != 0
	case float64:
		return b != 0
	}
	return false
}

// timestamp accepts the storage layout and RFC 3339 text.
func timestamp(v any) *time.Time {
	s := text(v)
	if s == "" {
		if t, ok := v.(time.Time); ok {
			t = t.UTC()
			return &t
		}
		return nil
	}
	for _, layout := range []string{querysql.TimestampLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// tags decodes a stored JSON array. Anything else is an empty list.
func tags(v any) []string {
	out := []string{}
	s := text(v)
	if s == "" {
		return out
	}
	var decoded []any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return out
	}
	for _, item := range decoded {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

// hoursDuration converts fractional hours to a duration rounded to the
// millisecond, the precision of stored timestamps.
func hoursDuration(h float64) time.Duration {
	ms := math.Round(h * float64(time.Hour/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}
