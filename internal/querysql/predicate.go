package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/worklens/internal/ir"
	"github.com/roach88/worklens/internal/queryir"
	"github.com/roach88/worklens/internal/schema"
)

// compilePredicate compiles a predicate to a WHERE fragment.
// CRITICAL: Values NEVER interpolated - always use ? placeholders.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case queryir.Compare:
		return compileCompare(pred)
	case queryir.In:
		return compileIn(pred)
	case queryir.Match:
		return compileMatch(pred), []any{likePattern(pred)}, nil
	case queryir.Null:
		if pred.Negated {
			return column(pred.Field) + " IS NOT NULL", nil, nil
		}
		return column(pred.Field) + " IS NULL", nil, nil
	case queryir.HasTag:
		sql := fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", column(pred.Field))
		return sql, []any{param(pred.Value, schema.KindText)}, nil
	case queryir.HasAnyTag:
		if len(pred.Values) == 0 {
			return "0 = 1", nil, nil
		}
		sql := fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value IN (%s))",
			column(pred.Field), placeholders(len(pred.Values)))
		return sql, params(pred.Values, schema.KindText), nil
	case queryir.And:
		return c.compileAnd(pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileAnd compiles a conjunction. Empty is always true.
func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var all []any
	for _, pred := range and.Predicates {
		sql, ps, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		all = append(all, ps...)
	}
	return strings.Join(parts, " AND "), all, nil
}

func compileCompare(cmp queryir.Compare) (string, []any, error) {
	switch cmp.Op {
	case queryir.OpEq, queryir.OpNe, queryir.OpGt, queryir.OpGte, queryir.OpLt, queryir.OpLte:
	default:
		return "", nil, fmt.Errorf("unsupported comparison operator: %q", cmp.Op)
	}
	if cmp.Value == nil {
		return "", nil, fmt.Errorf("comparison on %s has no value", cmp.Field.Column)
	}
	return fmt.Sprintf("%s %s ?", column(cmp.Field), cmp.Op), []any{param(cmp.Value, cmp.Field.Kind)}, nil
}

// compileIn compiles list membership. An empty list is constant:
// IN () matches nothing and NOT IN () matches everything.
func compileIn(in queryir.In) (string, []any, error) {
	if len(in.Values) == 0 {
		if in.Negated {
			return "1 = 1", nil, nil
		}
		return "0 = 1", nil, nil
	}
	op := "IN"
	if in.Negated {
		op = "NOT IN"
	}
	sql := fmt.Sprintf("%s %s (%s)", column(in.Field), op, placeholders(len(in.Values)))
	return sql, params(in.Values, in.Field.Kind), nil
}

func compileMatch(m queryir.Match) string {
	return fmt.Sprintf("LOWER(%s) LIKE LOWER(?) ESCAPE '\\'", column(m.Field))
}

func likePattern(m queryir.Match) string {
	escaped := escapeLikePattern(m.Value)
	switch m.Mode {
	case queryir.MatchPrefix:
		return escaped + "%"
	case queryir.MatchSuffix:
		return "%" + escaped
	default:
		return "%" + escaped + "%"
	}
}

func escapeLikePattern(s string) string {
	// Escape backslash first, then % and _
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func params(values []ir.Scalar, kind schema.FieldKind) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = param(v, kind)
	}
	return out
}

// param converts a plan value to a driver parameter, coercing dates and
// timestamps to the storage form of the column they are compared with.
func param(v ir.Scalar, kind schema.FieldKind) any {
	switch val := v.(type) {
	case ir.Null:
		return nil
	case ir.String:
		return string(val)
	case ir.Int:
		return int64(val)
	case ir.Float:
		return float64(val)
	case ir.Bool:
		return bool(val)
	case ir.Date:
		if kind == schema.KindTimestamp {
			return val.Time().Format(TimestampLayout)
		}
		return val.String()
	case ir.Timestamp:
		if kind == schema.KindDate {
			return ir.DateOf(val.Time()).String()
		}
		return val.Time().Format(TimestampLayout)
	default:
		return nil
	}
}
