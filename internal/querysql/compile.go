// Package querysql compiles query plans into parameterized SQLite SQL.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/queryir"
)

// TimestampLayout is the storage form of timestamp columns. It is fixed
// width so text comparison orders instants correctly.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// DateLayout is the storage form of date columns.
const DateLayout = "2006-01-02"

// rootAlias is the alias of the queried entity's table.
const rootAlias = "e"

// SQLCompiler compiles query plans to parameterized SQL for SQLite.
//
// CRITICAL: Entity queries always end in an ORDER BY with an id tiebreaker.
// CRITICAL: All values are parameterized, never interpolated.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a plan to SQL. Returns (sql, params, error).
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}

	switch query := q.(type) {
	case *queryir.EntityQuery:
		return c.compileEntity(*query)
	case queryir.EntityQuery:
		return c.compileEntity(query)
	case *queryir.AggregateQuery:
		return c.compileAggregate(*query)
	case queryir.AggregateQuery:
		return c.compileAggregate(query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

// compileEntity compiles a row query.
//
//	SELECT e.<col>, ... FROM <table> e <joins> [WHERE ...]
//	ORDER BY [<default> DESC, ]e.id COLLATE BINARY ASC [LIMIT ? [OFFSET ?]]
func (c *SQLCompiler) compileEntity(q queryir.EntityQuery) (string, []any, error) {
	cols := make([]string, len(q.Columns))
	for i, col := range q.Columns {
		cols[i] = rootAlias + "." + col
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s %s", strings.Join(cols, ", "), q.Table, rootAlias)
	writeJoins(&sb, q.Joins)

	params, err := c.writeWhere(&sb, q.Filter)
	if err != nil {
		return "", nil, err
	}

	// MANDATORY: deterministic order with an id tiebreaker.
	order := make([]string, 0, len(q.OrderBy)+1)
	for _, o := range q.OrderBy {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		order = append(order, column(o.Field)+" "+dir)
	}
	order = append(order, rootAlias+".id COLLATE BINARY ASC")
	sb.WriteString(" ORDER BY " + strings.Join(order, ", "))

	switch {
	case q.Limit != nil && q.Offset != nil:
		sb.WriteString(" LIMIT ? OFFSET ?")
		params = append(params, int64(*q.Limit), int64(*q.Offset))
	case q.Limit != nil:
		sb.WriteString(" LIMIT ?")
		params = append(params, int64(*q.Limit))
	case q.Offset != nil:
		// SQLite only accepts OFFSET after a LIMIT; -1 means no limit.
		sb.WriteString(" LIMIT -1 OFFSET ?")
		params = append(params, int64(*q.Offset))
	}

	return sb.String(), params, nil
}

// compileAggregate compiles an aggregate query. Group columns are selected
// as g0..gN and the aggregate as result.
//
//	SELECT <g0>, ..., <fn>(...) AS result FROM <table> e <joins> [WHERE ...]
//	[GROUP BY g0, ... ORDER BY g0 ASC, ...]
func (c *SQLCompiler) compileAggregate(q queryir.AggregateQuery) (string, []any, error) {
	expr, err := aggregateExpr(q.Aggregate)
	if err != nil {
		return "", nil, err
	}

	selects := make([]string, 0, len(q.GroupBy)+1)
	groups := make([]string, len(q.GroupBy))
	order := make([]string, len(q.GroupBy))
	for i, g := range q.GroupBy {
		groups[i] = fmt.Sprintf("g%d", i)
		order[i] = groups[i] + " ASC"
		selects = append(selects, fmt.Sprintf("%s AS %s", column(g), groups[i]))
	}
	selects = append(selects, expr+" AS result")

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s %s", strings.Join(selects, ", "), q.Table, rootAlias)
	writeJoins(&sb, q.Joins)

	params, err := c.writeWhere(&sb, q.Filter)
	if err != nil {
		return "", nil, err
	}

	if len(groups) > 0 {
		sb.WriteString(" GROUP BY " + strings.Join(groups, ", "))
		sb.WriteString(" ORDER BY " + strings.Join(order, ", "))
	}

	return sb.String(), params, nil
}

func aggregateExpr(a queryir.Aggregate) (string, error) {
	if a.Field == nil {
		if a.Function != model.AggCount {
			return "", fmt.Errorf("aggregate %s requires a field", a.Function)
		}
		return "COUNT(*)", nil
	}

	col := column(*a.Field)
	switch a.Function {
	case model.AggCount:
		return "COUNT(" + col + ")", nil
	case model.AggCountDistinct:
		return "COUNT(DISTINCT " + col + ")", nil
	case model.AggSum:
		return "SUM(" + col + ")", nil
	case model.AggAvg:
		return "AVG(" + col + ")", nil
	case model.AggMin:
		return "MIN(" + col + ")", nil
	case model.AggMax:
		return "MAX(" + col + ")", nil
	default:
		return "", fmt.Errorf("unsupported aggregate function: %s", a.Function)
	}
}

// writeJoins emits one LEFT JOIN per plan join, in plan order.
func writeJoins(sb *strings.Builder, joins []queryir.Join) {
	for _, j := range joins {
		alias := aliasFor(j.Path)
		fmt.Fprintf(sb, " LEFT JOIN %s %s ON %s.%s = %s.%s",
			j.Table, alias, alias, j.ForeignColumn, aliasFor(j.Parent), j.LocalColumn)
	}
}

func (c *SQLCompiler) writeWhere(sb *strings.Builder, filter queryir.And) ([]any, error) {
	if len(filter.Predicates) == 0 {
		return nil, nil
	}
	sql, params, err := c.compilePredicate(filter)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	sb.WriteString(" WHERE " + sql)
	return params, nil
}

// aliasFor returns the table alias for a join path: "e" for the root,
// j_<path with dots replaced by double underscores> otherwise.
func aliasFor(path string) string {
	if path == "" {
		return rootAlias
	}
	return "j_" + strings.ReplaceAll(path, ".", "__")
}

func column(f queryir.FieldRef) string {
	return aliasFor(f.Path) + "." + f.Column
}
