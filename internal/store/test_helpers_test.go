package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/worklens/internal/model"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createFixtureStore creates a store loaded with testdata/fixtures.yaml.
func createFixtureStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	f, err := os.Open(filepath.Join("testdata", "fixtures.yaml"))
	if err != nil {
		t.Fatalf("open fixtures: %v", err)
	}
	defer f.Close()
	if _, err := s.ImportFixtures(context.Background(), f); err != nil {
		t.Fatalf("ImportFixtures() failed: %v", err)
	}
	return s
}

func rowIDs(records []model.RawRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i], _ = r["id"].(string)
	}
	return ids
}
