package store

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/worklens/internal/model"
)

func TestInsert_GeneratesUUIDv7(t *testing.T) {
	s := createTestStore(t)

	id, err := s.Insert(context.Background(), model.EntityEmployer, map[string]any{"name": "Acme"})
	require.NoError(t, err)

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestInsert_EncodesByKind(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, model.EntityWorkSession, map[string]any{
		"id":             "ws-x",
		"date":           "2024-03-04",
		"start_time":     "2024-03-04 09:15+02:00",
		"duration_hours": 2,
		"billable":       true,
	})
	require.NoError(t, err)

	var date, start, tags string
	var hours float64
	var billable int64
	err = s.db.QueryRow(
		"SELECT date, start_time, duration_hours, billable, tags FROM work_sessions WHERE id = ?", "ws-x",
	).Scan(&date, &start, &hours, &billable, &tags)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", date)
	assert.Equal(t, "2024-03-04T07:15:00.000Z", start)
	assert.Equal(t, 2.0, hours)
	assert.Equal(t, int64(1), billable)
	assert.Equal(t, "[]", tags)
}

func TestInsert_Errors(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		entity model.EntityType
		fields map[string]any
		want   string
	}{
		{"unknown column", model.EntityEmployer, map[string]any{"name": "x", "colour": "red"}, "unknown column"},
		{"bad date", model.EntityEmployer, map[string]any{"name": "x", "start_date": "2024-02-30"}, "invalid date"},
		{"bad timestamp", model.EntityClient, map[string]any{"name": "x", "created_at": "noon"}, "invalid timestamp"},
		{"non-string tag", model.EntityClient, map[string]any{"name": "x", "tags": []any{1}}, "tag must be a string"},
		{"non-bool flag", model.EntityWorkSession, map[string]any{"billable": 0.5}, "expected bool"},
		{"dangling reference", model.EntityProject, map[string]any{"name": "x", "client_id": "missing"}, "insert projects"},
		{"unknown entity", model.EntityType("invoice"), map[string]any{}, "invoice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Insert(ctx, tt.entity, tt.fields)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestImportFixtures_Counts(t *testing.T) {
	s := createFixtureStore(t)

	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM work_sessions").Scan(&n))
	assert.Equal(t, 4, n)
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM employers").Scan(&n))
	assert.Equal(t, 2, n)
}

func TestImportFixtures_ReferenceOrder(t *testing.T) {
	s := createTestStore(t)

	// Referencing tables listed first still load after their targets.
	doc := `
projects:
  - id: p1
    name: P
    client_id: c1
clients:
  - id: c1
    name: C
`
	counts, err := s.ImportFixtures(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, map[model.EntityType]int{model.EntityProject: 1, model.EntityClient: 1}, counts)
}

func TestImportFixtures_Atomic(t *testing.T) {
	s := createTestStore(t)

	doc := `
employers:
  - id: e1
    name: E
clients:
  - id: c1
    name: C
    bogus: true
`
	_, err := s.ImportFixtures(context.Background(), strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clients")

	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM employers").Scan(&n))
	assert.Zero(t, n)
}

func TestImportFixtures_UnknownTable(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ImportFixtures(context.Background(), strings.NewReader("invoices: []\n"))
	require.Error(t, err)
}

func TestImportFixtures_EmptyDocument(t *testing.T) {
	s := createTestStore(t)

	counts, err := s.ImportFixtures(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, counts)
}
