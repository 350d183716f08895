package convert

import (
	"math"

	"github.com/roach88/worklens/internal/model"
)

// DailyTotals merges per-day hour sums and session counts into daily_total
// records. Both inputs are grouped by date; rows are emitted in the order
// of sums. A day missing from counts reports zero sessions.
func DailyTotals(sums, counts []model.AggregateRow) []model.Record {
	sessions := countsByKey(counts)
	out := make([]model.Record, 0, len(sums))
	for _, row := range sums {
		key := groupKey(row)
		out = append(out, model.DailyTotal{
			Kind:     model.KindDailyTotal,
			Date:     key,
			Hours:    roundHours(number(row.Result)),
			Sessions: sessions[key],
		})
	}
	return out
}

// ProjectTotals merges per-project hour sums and session counts into
// project_total records. Sessions without a project are reported under an
// empty project name.
func ProjectTotals(sums, counts []model.AggregateRow) []model.Record {
	sessions := countsByKey(counts)
	out := make([]model.Record, 0, len(sums))
	for _, row := range sums {
		key := groupKey(row)
		out = append(out, model.ProjectTotal{
			Kind:     model.KindProjectTotal,
			Project:  key,
			Hours:    roundHours(number(row.Result)),
			Sessions: sessions[key],
		})
	}
	return out
}

func countsByKey(rows []model.AggregateRow) map[string]int {
	m := make(map[string]int, len(rows))
	for _, row := range rows {
		m[groupKey(row)] = int(number(row.Result))
	}
	return m
}

func groupKey(row model.AggregateRow) string {
	if len(row.GroupValues) == 0 {
		return ""
	}
	return text(row.GroupValues[0])
}

// roundHours drops float noise from SUM over fractional hours.
func roundHours(h float64) float64 {
	return math.Round(h*1000) / 1000
}
