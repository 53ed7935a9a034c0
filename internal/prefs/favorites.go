package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/casklist/casklist/internal/store"
)

// FavoriteStatus tracks where a favorited drink sits in the user's plan.
type FavoriteStatus string

const (
	StatusWantToTry FavoriteStatus = "want_to_try"
	StatusTasted    FavoriteStatus = "tasted"
)

// FavoriteEntry is the persisted state for one favorited drink.
type FavoriteEntry struct {
	Status FavoriteStatus `json:"status"`
	Tries  []time.Time    `json:"tries,omitempty"`
	Notes  string         `json:"notes,omitempty"`
}

// FavoritesRepository persists per-festival favorites and tasting history.
type FavoritesRepository interface {
	// Favorites returns all entries for a festival keyed by product ID.
	Favorites(ctx context.Context, festivalID string) (map[string]FavoriteEntry, error)

	// Add creates an entry in want_to_try state. Adding an existing
	// favorite is a no-op.
	Add(ctx context.Context, festivalID, productID string) error

	// Remove deletes an entry. Returns ErrNotFound if absent.
	Remove(ctx context.Context, festivalID, productID string) error

	// Toggle flips favorite membership and returns the new state.
	Toggle(ctx context.Context, festivalID, productID string) (bool, error)

	// MarkTasted appends a try timestamp and moves the entry to tasted
	// state, creating it directly in tasted state if absent.
	MarkTasted(ctx context.Context, festivalID, productID string, at time.Time) error

	// DeleteTry removes one try timestamp. Removing the last try reverts
	// the entry to want_to_try.
	DeleteTry(ctx context.Context, festivalID, productID string, at time.Time) error

	// UpdateNotes replaces the entry's notes; empty clears them.
	UpdateNotes(ctx context.Context, festivalID, productID, notes string) error
}

// Compile-time interface guard.
var _ FavoritesRepository = (*SQLiteFavoritesRepository)(nil)

// SQLiteFavoritesRepository implements FavoritesRepository using SQLite.
type SQLiteFavoritesRepository struct {
	st *store.DB
}

// NewSQLiteFavoritesRepository creates a FavoritesRepository and runs the
// prefs migrations.
func NewSQLiteFavoritesRepository(ctx context.Context, st *store.DB) (*SQLiteFavoritesRepository, error) {
	if err := st.Migrate(ctx, "prefs", migrations); err != nil {
		return nil, fmt.Errorf("prefs migrations: %w", err)
	}
	return &SQLiteFavoritesRepository{st: st}, nil
}

func (r *SQLiteFavoritesRepository) Favorites(ctx context.Context, festivalID string) (map[string]FavoriteEntry, error) {
	rows, err := r.st.DB().QueryContext(ctx, `
		SELECT product_id, status, tries, notes
		FROM prefs_favorites WHERE festival_id = ?`, festivalID)
	if err != nil {
		return nil, fmt.Errorf("list favorites for %q: %w", festivalID, err)
	}
	defer rows.Close()

	out := make(map[string]FavoriteEntry)
	for rows.Next() {
		var productID, status, triesJSON string
		var notes sql.NullString
		if err := rows.Scan(&productID, &status, &triesJSON, &notes); err != nil {
			return nil, fmt.Errorf("scan favorite row: %w", err)
		}
		out[productID] = decodeEntry(status, triesJSON, notes)
	}
	return out, rows.Err()
}

func (r *SQLiteFavoritesRepository) Add(ctx context.Context, festivalID, productID string) error {
	_, err := r.st.DB().ExecContext(ctx, `
		INSERT INTO prefs_favorites (festival_id, product_id, status, tries)
		VALUES (?, ?, ?, '[]')
		ON CONFLICT (festival_id, product_id) DO NOTHING`,
		festivalID, productID, StatusWantToTry,
	)
	if err != nil {
		return fmt.Errorf("add favorite %s/%s: %w", festivalID, productID, err)
	}
	return nil
}

func (r *SQLiteFavoritesRepository) Remove(ctx context.Context, festivalID, productID string) error {
	res, err := r.st.DB().ExecContext(ctx,
		`DELETE FROM prefs_favorites WHERE festival_id = ? AND product_id = ?`,
		festivalID, productID)
	if err != nil {
		return fmt.Errorf("remove favorite %s/%s: %w", festivalID, productID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteFavoritesRepository) Toggle(ctx context.Context, festivalID, productID string) (bool, error) {
	var favored bool
	err := r.st.Tx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM prefs_favorites WHERE festival_id = ? AND product_id = ?`,
			festivalID, productID,
		).Scan(&exists)
		if err != nil {
			return err
		}

		if exists > 0 {
			_, err = tx.ExecContext(ctx,
				`DELETE FROM prefs_favorites WHERE festival_id = ? AND product_id = ?`,
				festivalID, productID)
			favored = false
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO prefs_favorites (festival_id, product_id, status, tries)
			VALUES (?, ?, ?, '[]')`,
			festivalID, productID, StatusWantToTry)
		favored = true
		return err
	})
	if err != nil {
		return false, fmt.Errorf("toggle favorite %s/%s: %w", festivalID, productID, err)
	}
	return favored, nil
}

func (r *SQLiteFavoritesRepository) MarkTasted(ctx context.Context, festivalID, productID string, at time.Time) error {
	err := r.st.Tx(ctx, func(tx *sql.Tx) error {
		entry, found, err := loadEntry(ctx, tx, festivalID, productID)
		if err != nil {
			return err
		}

		entry.Status = StatusTasted
		entry.Tries = append(entry.Tries, at.UTC())
		if found {
			return saveEntry(ctx, tx, festivalID, productID, entry)
		}
		return insertEntry(ctx, tx, festivalID, productID, entry)
	})
	if err != nil {
		return fmt.Errorf("mark tasted %s/%s: %w", festivalID, productID, err)
	}
	return nil
}

func (r *SQLiteFavoritesRepository) DeleteTry(ctx context.Context, festivalID, productID string, at time.Time) error {
	return r.st.Tx(ctx, func(tx *sql.Tx) error {
		entry, found, err := loadEntry(ctx, tx, festivalID, productID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		kept := entry.Tries[:0]
		removed := false
		for _, tr := range entry.Tries {
			if !removed && tr.Equal(at) {
				removed = true
				continue
			}
			kept = append(kept, tr)
		}
		if !removed {
			return ErrNotFound
		}

		entry.Tries = kept
		if len(entry.Tries) == 0 {
			entry.Status = StatusWantToTry
		}
		return saveEntry(ctx, tx, festivalID, productID, entry)
	})
}

func (r *SQLiteFavoritesRepository) UpdateNotes(ctx context.Context, festivalID, productID, notes string) error {
	var value any
	if notes != "" {
		value = notes
	}
	res, err := r.st.DB().ExecContext(ctx, `
		UPDATE prefs_favorites SET notes = ?, updated_at = ?
		WHERE festival_id = ? AND product_id = ?`,
		value, time.Now().UTC(), festivalID, productID)
	if err != nil {
		return fmt.Errorf("update notes %s/%s: %w", festivalID, productID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// decodeEntry builds a FavoriteEntry from raw column values. Corrupted
// tries JSON or an unknown status degrade to zero values rather than
// surfacing a parse error.
func decodeEntry(status, triesJSON string, notes sql.NullString) FavoriteEntry {
	entry := FavoriteEntry{Status: FavoriteStatus(status)}
	if entry.Status != StatusWantToTry && entry.Status != StatusTasted {
		entry.Status = StatusWantToTry
	}
	if err := json.Unmarshal([]byte(triesJSON), &entry.Tries); err != nil {
		entry.Tries = nil
	}
	if notes.Valid {
		entry.Notes = notes.String
	}
	return entry
}

func loadEntry(ctx context.Context, tx *sql.Tx, festivalID, productID string) (FavoriteEntry, bool, error) {
	var status, triesJSON string
	var notes sql.NullString
	err := tx.QueryRowContext(ctx, `
		SELECT status, tries, notes FROM prefs_favorites
		WHERE festival_id = ? AND product_id = ?`,
		festivalID, productID,
	).Scan(&status, &triesJSON, &notes)
	if err == sql.ErrNoRows {
		return FavoriteEntry{}, false, nil
	}
	if err != nil {
		return FavoriteEntry{}, false, err
	}
	return decodeEntry(status, triesJSON, notes), true, nil
}

func saveEntry(ctx context.Context, tx *sql.Tx, festivalID, productID string, entry FavoriteEntry) error {
	triesJSON, err := encodeTries(entry.Tries)
	if err != nil {
		return err
	}
	var notes any
	if entry.Notes != "" {
		notes = entry.Notes
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE prefs_favorites SET status = ?, tries = ?, notes = ?, updated_at = ?
		WHERE festival_id = ? AND product_id = ?`,
		entry.Status, triesJSON, notes, time.Now().UTC(), festivalID, productID)
	return err
}

func insertEntry(ctx context.Context, tx *sql.Tx, festivalID, productID string, entry FavoriteEntry) error {
	triesJSON, err := encodeTries(entry.Tries)
	if err != nil {
		return err
	}
	var notes any
	if entry.Notes != "" {
		notes = entry.Notes
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO prefs_favorites (festival_id, product_id, status, tries, notes)
		VALUES (?, ?, ?, ?, ?)`,
		festivalID, productID, entry.Status, triesJSON, notes)
	return err
}

func encodeTries(tries []time.Time) (string, error) {
	if tries == nil {
		tries = []time.Time{}
	}
	b, err := json.Marshal(tries)
	if err != nil {
		return "", fmt.Errorf("encode tries: %w", err)
	}
	return string(b), nil
}
