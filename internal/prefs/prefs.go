// Package prefs persists festival-scoped user preferences: favorites
// with tasting history, ratings, and app settings. All state is keyed by
// (festival ID, product ID) so it survives restarts and full catalog
// refetches.
package prefs

import (
	"database/sql"
	"errors"

	"github.com/casklist/casklist/internal/store"
)

// Sentinel errors returned by repositories.
var (
	ErrNotFound    = errors.New("not found")
	ErrRatingRange = errors.New("rating must be between 1 and 5")
)

// migrations defines the database schema shared by the prefs
// repositories. Every repository constructor runs them; already-applied
// versions are skipped by the store's tracking table.
var migrations = []store.Migration{
	{
		Version:     1,
		Description: "create prefs_favorites table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE prefs_favorites (
					festival_id TEXT NOT NULL,
					product_id  TEXT NOT NULL,
					status      TEXT NOT NULL DEFAULT 'want_to_try',
					tries       TEXT NOT NULL DEFAULT '[]',
					notes       TEXT,
					updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (festival_id, product_id)
				)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "create prefs_ratings table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE prefs_ratings (
					festival_id TEXT    NOT NULL,
					product_id  TEXT    NOT NULL,
					rating      INTEGER NOT NULL,
					updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (festival_id, product_id)
				)`)
			return err
		},
	},
	{
		Version:     3,
		Description: "create prefs_settings table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE prefs_settings (
					key        TEXT PRIMARY KEY,
					value      TEXT NOT NULL,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`)
			return err
		},
	},
}
