package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/queryir"
)

// FetchEntities runs an entity plan and returns one raw record per row,
// keyed by storage column name. Returns an empty slice (not nil) when
// nothing matches.
func (s *Store) FetchEntities(ctx context.Context, q *queryir.EntityQuery) ([]model.RawRecord, error) {
	if err := queryir.Validate(q).Err(); err != nil {
		return nil, err
	}
	query, params, err := s.compiler.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile %s query: %w", q.Entity, err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Table, err)
	}
	defer rows.Close()

	records := []model.RawRecord{}
	for rows.Next() {
		values, err := scanValues(rows, len(q.Columns))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.Table, err)
		}
		rec := make(model.RawRecord, len(q.Columns))
		for i, col := range q.Columns {
			rec[col] = values[i]
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", q.Table, err)
	}
	return records, nil
}

// FetchAggregate runs an aggregate plan and returns one row per group, or a
// single row for an ungrouped aggregate.
func (s *Store) FetchAggregate(ctx context.Context, q *queryir.AggregateQuery) ([]model.AggregateRow, error) {
	if err := queryir.Validate(q).Err(); err != nil {
		return nil, err
	}
	query, params, err := s.compiler.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile %s aggregate: %w", q.Entity, err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", q.Table, err)
	}
	defer rows.Close()

	n := len(q.GroupBy)
	out := []model.AggregateRow{}
	for rows.Next() {
		values, err := scanValues(rows, n+1)
		if err != nil {
			return nil, fmt.Errorf("scan %s aggregate: %w", q.Table, err)
		}
		out = append(out, model.AggregateRow{GroupValues: values[:n], Result: values[n]})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s aggregate: %w", q.Table, err)
	}
	return out, nil
}

// scanValues scans n columns into driver values. Byte slices become strings.
func scanValues(rows *sql.Rows, n int) ([]any, error) {
	values := make([]any, n)
	ptrs := make([]any, n)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}
