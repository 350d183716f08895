package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/worklens/internal/ir"
	"github.com/roach88/worklens/internal/model"
)

func TestLoadRequest_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "cue",
			file: "week.cue",
			content: `entity_type: "work_session"
filters: [{field: "project.name", operator: "eq", value: "Alpha Rebuild"}]
limit: 5
`,
		},
		{
			name: "yaml",
			file: "week.yaml",
			content: `entity_type: work_session
filters:
  - field: project.name
    operator: eq
    value: Alpha Rebuild
limit: 5
`,
		},
		{
			name: "yml",
			file: "week.yml",
			content: `{entity_type: work_session, filters: [{field: project.name, operator: eq, value: Alpha Rebuild}], limit: 5}
`,
		},
		{
			name:    "json",
			file:    "week.json",
			content: `{"entity_type": "work_session", "filters": [{"field": "project.name", "operator": "eq", "value": "Alpha Rebuild"}], "limit": 5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			path := writeRequest(t, tt.file, tt.content)

			req, err := LoadRequest(path)
			require.NoError(t, err)
			assert.Equal(t, model.EntityWorkSession, req.EntityType)
			require.Len(t, req.Filters, 1)
			assert.Equal(t, "project.name", req.Filters[0].Field)
			assert.Equal(t, model.OpEq, req.Filters[0].Operator)
			assert.Equal(t, ir.String("Alpha Rebuild"), req.Filters[0].Value)
			require.NotNil(t, req.Limit)
			assert.Equal(t, 5, *req.Limit)
			assert.Nil(t, req.Offset)
		})
	}
}

func TestLoadRequest_Aggregation(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeRequest(t, "totals.yaml", `entity_type: work_session
aggregation:
  function: sum
  field: duration_hours
  group_by: [project.name]
`)

	req, err := LoadRequest(path)
	require.NoError(t, err)
	require.NotNil(t, req.Aggregation)
	assert.Equal(t, model.AggSum, req.Aggregation.Function)
	assert.Equal(t, "duration_hours", req.Aggregation.Field)
	assert.Equal(t, []string{"project.name"}, req.Aggregation.GroupBy)
}

func TestLoadRequest_ListValue(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeRequest(t, "tags.json",
		`{"entity_type": "project", "filters": [{"field": "tags", "operator": "has_any_tag", "value": ["web", "ops"]}]}`)

	req, err := LoadRequest(path)
	require.NoError(t, err)
	require.Len(t, req.Filters, 1)
	assert.Equal(t, ir.List{ir.String("web"), ir.String("ops")}, req.Filters[0].Value)
}

func TestLoadRequest_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantCode string
	}{
		{"unsupported extension", "week.toml", `entity_type = "note"`, ErrCodeUnsupported},
		{"cue syntax", "bad.cue", `entity_type: "note" {`, ErrCodeParseFailed},
		{"yaml syntax", "bad.yaml", "entity_type: [note\n", ErrCodeParseFailed},
		{"empty yaml", "empty.yaml", "", ErrCodeParseFailed},
		{"missing entity_type", "nofield.yaml", "limit: 5\n", ErrCodeSchema},
		{"unknown top-level field", "extra.json", `{"entity_type": "note", "sort": "title"}`, ErrCodeSchema},
		{"non-integer limit", "limit.cue", `entity_type: "note", limit: "ten"`, ErrCodeSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			path := writeRequest(t, tt.file, tt.content)

			_, err := LoadRequest(path)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, loadErrorCode(err))
		})
	}
}

func TestLoadRequest_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadRequest("absent.cue")
	require.Error(t, err)
	assert.Equal(t, ErrCodeNotFound, loadErrorCode(err))
	assert.Contains(t, err.Error(), "absent.cue")
}

func TestLoadRequest_SemanticsLeftToEngine(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeRequest(t, "invoice.cue", `entity_type: "invoice"
filters: [{field: "total", operator: "roughly", value: 3}]
`)

	req, err := LoadRequest(path)
	require.NoError(t, err)
	assert.Equal(t, model.EntityType("invoice"), req.EntityType)
	assert.Equal(t, model.FilterOperator("roughly"), req.Filters[0].Operator)
}

func TestLoadErrorCode_NonLoadError(t *testing.T) {
	assert.Equal(t, ErrCodeGeneric, loadErrorCode(assert.AnError))
}

func TestLoadRequest_ShippedExamples(t *testing.T) {
	for _, name := range []string{"week.cue", "hours_by_project.yaml", "open_reminders.json"} {
		t.Run(name, func(t *testing.T) {
			req, err := LoadRequest(filepath.Join("..", "..", "examples", name))
			require.NoError(t, err)
			assert.True(t, req.EntityType.Valid())
		})
	}
}
