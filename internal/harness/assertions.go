package harness

import (
	"fmt"
	"math"
	"reflect"
	"slices"
)

// checkExpect compares a step trace against its expect clause and records
// every mismatch on result.
func checkExpect(e Expect, trace StepTrace, result *Result) {
	prefix := fmt.Sprintf("step %q", trace.Step)

	want := OutcomeOK
	if e.Error != "" {
		want = e.Error
	}
	if trace.Outcome != want {
		result.AddError(fmt.Sprintf("%s: outcome %s, want %s", prefix, trace.Outcome, want))
		return
	}

	if e.Count != nil && *e.Count != trace.Count {
		result.AddError(fmt.Sprintf("%s: count %d, want %d", prefix, trace.Count, *e.Count))
	}
	if e.IDs != nil && !slices.Equal(e.IDs, trace.IDs) {
		result.AddError(fmt.Sprintf("%s: ids %v, want %v", prefix, trace.IDs, e.IDs))
	}
	if e.Summary != "" && e.Summary != trace.Summary {
		result.AddError(fmt.Sprintf("%s: summary %q, want %q", prefix, trace.Summary, e.Summary))
	}
	if e.Result != nil && !valuesEqual(e.Result, trace.Result) {
		result.AddError(fmt.Sprintf("%s: result %v, want %v", prefix, trace.Result, e.Result))
	}
	if e.Groups != nil {
		checkGroups(prefix, e.Groups, trace.Groups, result)
	}
}

func checkGroups(prefix string, want []ExpectGroup, got []GroupTrace, result *Result) {
	if len(want) != len(got) {
		result.AddError(fmt.Sprintf("%s: %d group(s), want %d", prefix, len(got), len(want)))
		return
	}
	for i := range want {
		if !keysEqual(want[i].Key, got[i].Key) {
			result.AddError(fmt.Sprintf("%s: groups[%d] key %v, want %v", prefix, i, got[i].Key, want[i].Key))
			continue
		}
		if !valuesEqual(want[i].Result, got[i].Result) {
			result.AddError(fmt.Sprintf("%s: groups[%d] result %v, want %v", prefix, i, got[i].Result, want[i].Result))
		}
	}
}

func keysEqual(want, got []any) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if !valuesEqual(want[i], got[i]) {
			return false
		}
	}
	return true
}

// valuesEqual compares numbers by value within 1e-9 whatever their Go
// type, and everything else with reflect.DeepEqual.
func valuesEqual(want, got any) bool {
	wf, wok := toFloat(want)
	gf, gok := toFloat(got)
	if wok && gok {
		return math.Abs(wf-gf) <= 1e-9
	}
	return reflect.DeepEqual(want, got)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
