package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/worklens/internal/ir"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func date(y int, m time.Month, d int) ir.Date {
	return ir.Date{Year: y, Month: m, Day: d}
}

func TestKeywords(t *testing.T) {
	// Wednesday.
	now := time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)
	r := NewResolver(fixedNow(now), time.UTC)

	tests := []struct {
		keyword string
		want    ir.Value
	}{
		{"today", date(2026, 3, 18)},
		{"tomorrow", date(2026, 3, 19)},
		{"yesterday", date(2026, 3, 17)},
		{"this_week", date(2026, 3, 16)},
		{"next_week", date(2026, 3, 23)},
		{"last_week", date(2026, 3, 9)},
		{"this_month", date(2026, 3, 1)},
		{"next_month", date(2026, 4, 1)},
		{"last_month", date(2026, 2, 1)},
		{"this_year", date(2026, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(ir.String(tt.keyword)))
		})
	}

	got := r.Resolve(ir.String("now"))
	ts, ok := got.(ir.Timestamp)
	require.True(t, ok)
	assert.True(t, ts.Time().Equal(now))
	assert.Equal(t, time.UTC, ts.Time().Location())

	assert.Len(t, Keywords, 11)
	for _, kw := range Keywords {
		_, ok := r.Keyword(kw)
		assert.True(t, ok, kw)
	}
}

func TestKeywordBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		keyword string
		want    ir.Date
	}{
		{"monday is its own week start", time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), "this_week", date(2026, 3, 16)},
		{"sunday belongs to the previous monday", time.Date(2026, 3, 22, 23, 0, 0, 0, time.UTC), "this_week", date(2026, 3, 16)},
		{"week crosses month", time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC), "this_week", date(2026, 3, 30)},
		{"next month wraps year", time.Date(2026, 12, 31, 9, 0, 0, 0, time.UTC), "next_month", date(2027, 1, 1)},
		{"last month wraps year", time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC), "last_month", date(2025, 12, 1)},
		{"tomorrow wraps year", time.Date(2026, 12, 31, 9, 0, 0, 0, time.UTC), "tomorrow", date(2027, 1, 1)},
		{"yesterday after leap day", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), "yesterday", date(2024, 2, 29)},
		{"last month from march 31", time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC), "last_month", date(2026, 2, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(fixedNow(tt.now), nil)
			got, ok := r.Keyword(tt.keyword)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordsUseLocation(t *testing.T) {
	// 23:30 UTC on the 18th is already the 19th in Tokyo.
	now := time.Date(2026, 3, 18, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)

	assert.Equal(t, date(2026, 3, 18), NewResolver(fixedNow(now), time.UTC).Resolve(ir.String("today")))
	assert.Equal(t, date(2026, 3, 19), NewResolver(fixedNow(now), tokyo).Resolve(ir.String("today")))

	ts := NewResolver(fixedNow(now), tokyo).Resolve(ir.String("now")).(ir.Timestamp)
	assert.Equal(t, time.UTC, ts.Time().Location())
}

func TestResolveIsDeterministic(t *testing.T) {
	r := NewResolver(fixedNow(time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)), nil)
	assert.Equal(t, r.Resolve(ir.String("today")), r.Resolve(ir.String("today")))
	assert.Equal(t, r.Today(), r.Resolve(ir.String("today")))
}

func TestResolveLiterals(t *testing.T) {
	r := NewResolver(fixedNow(time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)), nil)

	t.Run("leap day in leap year", func(t *testing.T) {
		assert.Equal(t, date(2024, 2, 29), r.Resolve(ir.String("2024-02-29")))
	})

	t.Run("leap day in non-leap year stays a string", func(t *testing.T) {
		assert.Equal(t, ir.String("2026-02-29"), r.Resolve(ir.String("2026-02-29")))
	})

	t.Run("invalid month stays a string", func(t *testing.T) {
		assert.Equal(t, ir.String("2026-13-01"), r.Resolve(ir.String("2026-13-01")))
	})

	timestamps := []struct {
		input string
		want  time.Time
	}{
		{"2026-03-18T09:15:00Z", time.Date(2026, 3, 18, 9, 15, 0, 0, time.UTC)},
		{"2026-03-18T09:15:00", time.Date(2026, 3, 18, 9, 15, 0, 0, time.UTC)},
		{"2026-03-18T09:15", time.Date(2026, 3, 18, 9, 15, 0, 0, time.UTC)},
		{"2026-03-18 09:15:30", time.Date(2026, 3, 18, 9, 15, 30, 0, time.UTC)},
		{"2026-03-18T09:15:00.250Z", time.Date(2026, 3, 18, 9, 15, 0, 250_000_000, time.UTC)},
		{"2026-03-18T09:15:00+02:00", time.Date(2026, 3, 18, 7, 15, 0, 0, time.UTC)},
		{"2026-03-18T09:15-05:00", time.Date(2026, 3, 18, 14, 15, 0, 0, time.UTC)},
	}
	for _, tt := range timestamps {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := r.Resolve(ir.String(tt.input)).(ir.Timestamp)
			require.True(t, ok, "expected a timestamp")
			assert.True(t, tt.want.Equal(got.Time()), "got %s", got)
			assert.Equal(t, time.UTC, got.Time().Location())
		})
	}

	unchanged := []string{
		"Today",
		" today",
		"acme",
		"2026-03-18T25:00",
		"2026-02-30T10:00:00Z",
		"2026-3-18",
		"18/03/2026",
		"2026-03-18T09:15:00+0200",
		"",
	}
	for _, s := range unchanged {
		t.Run("literal "+s, func(t *testing.T) {
			assert.Equal(t, ir.String(s), r.Resolve(ir.String(s)))
		})
	}
}

func TestResolvePassesNonStringsThrough(t *testing.T) {
	r := NewResolver(nil, nil)

	values := []ir.Value{
		ir.Int(3),
		ir.Float(1.5),
		ir.Bool(true),
		ir.Null{},
		date(2026, 1, 1),
		ir.List{ir.String("today"), ir.String("2024-02-29")},
	}
	for _, v := range values {
		assert.Equal(t, v, r.Resolve(v))
	}
}

func TestParseHelpers(t *testing.T) {
	d, ok := ParseDate("2025-12-31")
	require.True(t, ok)
	assert.Equal(t, "2025-12-31", d.String())

	_, ok = ParseDate("2025-12-31T00:00")
	assert.False(t, ok)

	_, ok = ParseTimestamp("2025-12-31")
	assert.False(t, ok)
}
