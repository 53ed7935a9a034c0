package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/casklist/casklist/internal/store"
)

func openStore(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func countingMigrations(applied *int) []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create widgets table",
			Up: func(tx *sql.Tx) error {
				*applied++
				_, err := tx.Exec(`CREATE TABLE widgets (id TEXT PRIMARY KEY)`)
				return err
			},
		},
	}
}

func TestMigrate_AppliesOnce(t *testing.T) {
	ctx := context.Background()
	db := openStore(t)

	applied := 0
	migrations := countingMigrations(&applied)

	if err := db.Migrate(ctx, "widgets", migrations); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := db.Migrate(ctx, "widgets", migrations); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if applied != 1 {
		t.Errorf("migration ran %d times, want 1", applied)
	}

	// The table exists and is usable.
	if _, err := db.DB().ExecContext(ctx, `INSERT INTO widgets (id) VALUES ('w1')`); err != nil {
		t.Errorf("insert into migrated table: %v", err)
	}
}

func TestMigrate_ModulesTrackedIndependently(t *testing.T) {
	ctx := context.Background()
	db := openStore(t)

	mk := func(table string) []store.Migration {
		return []store.Migration{{
			Version:     1,
			Description: "create " + table,
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`CREATE TABLE ` + table + ` (id TEXT PRIMARY KEY)`)
				return err
			},
		}}
	}

	if err := db.Migrate(ctx, "alpha", mk("alpha_items")); err != nil {
		t.Fatalf("alpha migrate: %v", err)
	}
	if err := db.Migrate(ctx, "beta", mk("beta_items")); err != nil {
		t.Fatalf("beta migrate: %v", err)
	}
}

func TestTx_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	db := openStore(t)

	if _, err := db.DB().ExecContext(ctx, `CREATE TABLE items (id TEXT PRIMARY KEY)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	boom := errors.New("boom")
	err := db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO items (id) VALUES ('x')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Tx error = %v, want boom", err)
	}

	var count int
	if err := db.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("rolled-back insert persisted, count = %d", count)
	}
}
