package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/roach88/worklens/internal/dates"
	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/querysql"
	"github.com/roach88/worklens/internal/schema"
)

// importOrder lists entity types so that every referenced row is inserted
// before the rows that reference it.
var importOrder = []model.EntityType{
	model.EntityEmployer,
	model.EntityClient,
	model.EntityPerson,
	model.EntityProject,
	model.EntityWorkSession,
	model.EntityMeeting,
	model.EntityNote,
	model.EntityReminder,
}

// Insert writes one record of the given entity type. Keys are storage
// column names. A missing id is filled with a fresh UUIDv7. Returns the id.
//
// Insert exists to load fixtures. The query engine never writes.
func (s *Store) Insert(ctx context.Context, et model.EntityType, fields map[string]any) (string, error) {
	return s.insert(ctx, s.db, et, fields)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insert(ctx context.Context, db execer, et model.EntityType, fields map[string]any) (string, error) {
	m, err := s.registry.ModelFor(et)
	if err != nil {
		return "", err
	}

	for name := range fields {
		if _, ok := m.Field(name); !ok {
			return "", fmt.Errorf("%s: unknown column %q", m.Table, name)
		}
	}

	id, _ := fields["id"].(string)
	if id == "" {
		u, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		id = u.String()
	}

	cols := make([]string, 0, len(m.Fields))
	args := make([]any, 0, len(m.Fields))
	for _, f := range m.Fields {
		raw, present := fields[f.Name]
		if f.Name == "id" {
			raw, present = id, true
		}
		if !present && f.Kind != schema.KindTags {
			continue
		}
		v, err := encodeColumn(f.Kind, raw)
		if err != nil {
			return "", fmt.Errorf("%s.%s: %w", m.Table, f.Name, err)
		}
		cols = append(cols, f.Name)
		args = append(args, v)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", m.Table, strings.Join(cols, ", "), placeholders)
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert %s: %w", m.Table, err)
	}
	return id, nil
}

// ImportFixtures loads a YAML document keyed by table name, each holding a
// list of rows keyed by column name. All rows are written in one
// transaction; on error nothing is written. Returns the number of rows
// inserted per entity type.
func (s *Store) ImportFixtures(ctx context.Context, r io.Reader) (map[model.EntityType]int, error) {
	var doc map[string][]map[string]any
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return map[model.EntityType]int{}, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	byEntity := make(map[model.EntityType][]map[string]any, len(doc))
	for table, rows := range doc {
		et, err := s.registry.EntityTypeFor(table)
		if err != nil {
			return nil, fmt.Errorf("fixtures: %w", err)
		}
		byEntity[et] = rows
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	counts := make(map[model.EntityType]int, len(byEntity))
	for _, et := range importOrder {
		rows, ok := byEntity[et]
		if !ok {
			continue
		}
		for i, row := range rows {
			if _, err := s.insert(ctx, tx, et, row); err != nil {
				return nil, fmt.Errorf("fixtures %s[%d]: %w", et, i, err)
			}
		}
		counts[et] = len(rows)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return counts, nil
}

// encodeColumn converts a decoded fixture value into its storage form.
func encodeColumn(kind schema.FieldKind, v any) (any, error) {
	if kind == schema.KindTags {
		return encodeTags(v)
	}
	if v == nil {
		return nil, nil
	}

	switch kind {
	case schema.KindText, schema.KindRef:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil

	case schema.KindInt:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("expected integer, got %v", n)
			}
			return int64(n), nil
		}
		return nil, fmt.Errorf("expected integer, got %T", v)

	case schema.KindReal:
		switch n := v.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		}
		return nil, fmt.Errorf("expected number, got %T", v)

	case schema.KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		if b {
			return int64(1), nil
		}
		return int64(0), nil

	case schema.KindDate:
		switch d := v.(type) {
		case time.Time:
			return d.UTC().Format(querysql.DateLayout), nil
		case string:
			parsed, ok := dates.ParseDate(d)
			if !ok {
				return nil, fmt.Errorf("invalid date %q", d)
			}
			return parsed.String(), nil
		}
		return nil, fmt.Errorf("expected date, got %T", v)

	case schema.KindTimestamp:
		switch t := v.(type) {
		case time.Time:
			return t.UTC().Format(querysql.TimestampLayout), nil
		case string:
			parsed, ok := dates.ParseTimestamp(t)
			if !ok {
				return nil, fmt.Errorf("invalid timestamp %q", t)
			}
			return parsed.Time().UTC().Format(querysql.TimestampLayout), nil
		}
		return nil, fmt.Errorf("expected timestamp, got %T", v)
	}

	return nil, fmt.Errorf("unsupported field kind %q", kind)
}

// encodeTags stores a tag list as a JSON array. A missing list is stored
// as [] so json_each never sees NULL.
func encodeTags(v any) (any, error) {
	tags := []string{}
	switch list := v.(type) {
	case nil:
	case []string:
		tags = slices.Clone(list)
	case []any:
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("tag must be a string, got %T", item)
			}
			tags = append(tags, s)
		}
	default:
		return nil, fmt.Errorf("expected tag list, got %T", v)
	}

	data, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
