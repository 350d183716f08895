package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/worklens/internal/model"
)

// renderRecords renders one compact JSON line per record.
func renderRecords(records []model.Record) []string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			lines = append(lines, fmt.Sprintf("%s: <unencodable: %v>", r.RecordKind(), err))
			continue
		}
		lines = append(lines, "  "+string(data))
	}
	return lines
}

// renderAggregation renders a scalar aggregate as one line and a grouped
// aggregate as one line per group.
func renderAggregation(out *model.AggregationOutput) []string {
	switch agg := out.Aggregation.(type) {
	case *model.ScalarAggregation:
		return []string{fmt.Sprintf("%s(%s) = %s", agg.Function, agg.Field, formatValue(agg.Result))}

	case *model.GroupedAggregation:
		lines := make([]string, 0, len(agg.Groups)+1)
		lines = append(lines, fmt.Sprintf("%s(%s) by %s: %d group(s)",
			agg.Function, agg.Field, strings.Join(agg.GroupBy, ", "), len(agg.Groups)))
		for _, g := range agg.Groups {
			keys := make([]string, len(g.GroupValues))
			for i, v := range g.GroupValues {
				keys[i] = formatValue(v)
			}
			lines = append(lines, fmt.Sprintf("  %s = %s", strings.Join(keys, ", "), formatValue(g.Result)))
		}
		return lines
	}
	return nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "(none)"
	case float64:
		return fmt.Sprintf("%g", val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
