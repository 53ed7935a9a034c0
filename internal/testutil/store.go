package testutil

import (
	"testing"

	"github.com/casklist/casklist/internal/store"
)

// NewStore creates an in-memory SQLite store for testing.
// The store is automatically closed when the test completes.
func NewStore(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("testutil.NewStore: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
