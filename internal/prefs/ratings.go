package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/casklist/casklist/internal/store"
)

// RatingsRepository persists per-festival 1-5 drink ratings.
type RatingsRepository interface {
	// Rating returns the stored rating for a product. ErrNotFound when unset.
	Rating(ctx context.Context, festivalID, productID string) (int, error)

	// Ratings returns all ratings for a festival keyed by product ID.
	Ratings(ctx context.Context, festivalID string) (map[string]int, error)

	// SetRating stores a rating. Values outside [1,5] fail with
	// ErrRatingRange and leave prior state unchanged.
	SetRating(ctx context.Context, festivalID, productID string, rating int) error

	// RemoveRating deletes a rating. Returns ErrNotFound if absent.
	RemoveRating(ctx context.Context, festivalID, productID string) error
}

// Compile-time interface guard.
var _ RatingsRepository = (*SQLiteRatingsRepository)(nil)

// SQLiteRatingsRepository implements RatingsRepository using SQLite.
type SQLiteRatingsRepository struct {
	st *store.DB
}

// NewSQLiteRatingsRepository creates a RatingsRepository and runs the
// prefs migrations.
func NewSQLiteRatingsRepository(ctx context.Context, st *store.DB) (*SQLiteRatingsRepository, error) {
	if err := st.Migrate(ctx, "prefs", migrations); err != nil {
		return nil, fmt.Errorf("prefs migrations: %w", err)
	}
	return &SQLiteRatingsRepository{st: st}, nil
}

func (r *SQLiteRatingsRepository) Rating(ctx context.Context, festivalID, productID string) (int, error) {
	var rating int
	err := r.st.DB().QueryRowContext(ctx,
		`SELECT rating FROM prefs_ratings WHERE festival_id = ? AND product_id = ?`,
		festivalID, productID,
	).Scan(&rating)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get rating %s/%s: %w", festivalID, productID, err)
	}
	return rating, nil
}

func (r *SQLiteRatingsRepository) Ratings(ctx context.Context, festivalID string) (map[string]int, error) {
	rows, err := r.st.DB().QueryContext(ctx,
		`SELECT product_id, rating FROM prefs_ratings WHERE festival_id = ?`, festivalID)
	if err != nil {
		return nil, fmt.Errorf("list ratings for %q: %w", festivalID, err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var productID string
		var rating int
		if err := rows.Scan(&productID, &rating); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		out[productID] = rating
	}
	return out, rows.Err()
}

func (r *SQLiteRatingsRepository) SetRating(ctx context.Context, festivalID, productID string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrRatingRange
	}
	_, err := r.st.DB().ExecContext(ctx, `
		INSERT INTO prefs_ratings (festival_id, product_id, rating, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (festival_id, product_id) DO UPDATE
		SET rating = excluded.rating, updated_at = excluded.updated_at`,
		festivalID, productID, rating, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set rating %s/%s: %w", festivalID, productID, err)
	}
	return nil
}

func (r *SQLiteRatingsRepository) RemoveRating(ctx context.Context, festivalID, productID string) error {
	res, err := r.st.DB().ExecContext(ctx,
		`DELETE FROM prefs_ratings WHERE festival_id = ? AND product_id = ?`,
		festivalID, productID)
	if err != nil {
		return fmt.Errorf("remove rating %s/%s: %w", festivalID, productID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
