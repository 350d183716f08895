package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "worklens.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := writeConfig(t, `
database:
  path: /var/lib/worklens/work.db
query:
  default_limit: 25
  max_limit: 200
  timezone: Europe/Berlin
log:
  level: debug
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/worklens/work.db", cfg.Database.Path)
	assert.Equal(t, 25, cfg.Query.DefaultLimit)
	assert.Equal(t, 200, cfg.Query.MaxLimit)
	assert.Equal(t, "Europe/Berlin", cfg.Query.Timezone)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := writeConfig(t, "database:\n  path: from-file.db\n")
	t.Setenv("WORKLENS_DATABASE_PATH", "from-env.db")
	t.Setenv("WORKLENS_QUERY_MAX_LIMIT", "50")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.Database.Path)
	assert.Equal(t, 50, cfg.Query.MaxLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"default above max", "query:\n  default_limit: 500\n  max_limit: 100\n", "exceeds"},
		{"bad timezone", "query:\n  timezone: Mars/Olympus\n", "query.timezone"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"malformed yaml", "query: [\n", "read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
