package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/casklist/casklist/internal/store"
)

// Setting keys used by the typed helpers.
const (
	keySelectedFestival = "selected_festival"
	keyHideUnavailable  = "hide_unavailable"
	keyTheme            = "theme"
)

// Setting represents a key-value configuration entry.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingsRepository provides access to app-level settings: the selected
// festival and global UI toggles.
type SettingsRepository interface {
	// Get returns a single setting by key. ErrNotFound when unset.
	Get(ctx context.Context, key string) (*Setting, error)

	// Set creates or updates a setting.
	Set(ctx context.Context, key, value string) error

	// Delete removes a setting by key. ErrNotFound when unset.
	Delete(ctx context.Context, key string) error

	// SelectedFestival returns the persisted festival ID, or "" when none
	// is selected.
	SelectedFestival(ctx context.Context) (string, error)

	// SetSelectedFestival persists the selected festival ID.
	SetSelectedFestival(ctx context.Context, festivalID string) error

	// ClearSelectedFestival removes the selection. Clearing an absent
	// selection is a no-op.
	ClearSelectedFestival(ctx context.Context) error

	// HideUnavailable returns the hide-unavailable toggle. Unset or
	// corrupted values read as false.
	HideUnavailable(ctx context.Context) (bool, error)

	// SetHideUnavailable persists the hide-unavailable toggle.
	SetHideUnavailable(ctx context.Context, hide bool) error

	// Theme returns the stored theme mode, or "" when unset.
	Theme(ctx context.Context) (string, error)

	// SetTheme persists the theme mode.
	SetTheme(ctx context.Context, theme string) error
}

// Compile-time interface guard.
var _ SettingsRepository = (*SQLiteSettingsRepository)(nil)

// SQLiteSettingsRepository implements SettingsRepository using SQLite.
type SQLiteSettingsRepository struct {
	st *store.DB
}

// NewSQLiteSettingsRepository creates a SettingsRepository and runs the
// prefs migrations.
func NewSQLiteSettingsRepository(ctx context.Context, st *store.DB) (*SQLiteSettingsRepository, error) {
	if err := st.Migrate(ctx, "prefs", migrations); err != nil {
		return nil, fmt.Errorf("prefs migrations: %w", err)
	}
	return &SQLiteSettingsRepository{st: st}, nil
}

func (r *SQLiteSettingsRepository) Get(ctx context.Context, key string) (*Setting, error) {
	var s Setting
	err := r.st.DB().QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM prefs_settings WHERE key = ?`, key,
	).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get setting %q: %w", key, err)
	}
	return &s, nil
}

func (r *SQLiteSettingsRepository) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC()
	_, err := r.st.DB().ExecContext(ctx, `
		INSERT INTO prefs_settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteSettingsRepository) Delete(ctx context.Context, key string) error {
	res, err := r.st.DB().ExecContext(ctx,
		`DELETE FROM prefs_settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteSettingsRepository) SelectedFestival(ctx context.Context) (string, error) {
	s, err := r.Get(ctx, keySelectedFestival)
	if err == ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.Value, nil
}

func (r *SQLiteSettingsRepository) SetSelectedFestival(ctx context.Context, festivalID string) error {
	return r.Set(ctx, keySelectedFestival, festivalID)
}

func (r *SQLiteSettingsRepository) ClearSelectedFestival(ctx context.Context) error {
	err := r.Delete(ctx, keySelectedFestival)
	if err == ErrNotFound {
		return nil
	}
	return err
}

func (r *SQLiteSettingsRepository) HideUnavailable(ctx context.Context) (bool, error) {
	s, err := r.Get(ctx, keyHideUnavailable)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(s.Value)
	if err != nil {
		// Corrupted stored value degrades to the default.
		return false, nil
	}
	return v, nil
}

func (r *SQLiteSettingsRepository) SetHideUnavailable(ctx context.Context, hide bool) error {
	return r.Set(ctx, keyHideUnavailable, strconv.FormatBool(hide))
}

func (r *SQLiteSettingsRepository) Theme(ctx context.Context) (string, error) {
	s, err := r.Get(ctx, keyTheme)
	if err == ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.Value, nil
}

func (r *SQLiteSettingsRepository) SetTheme(ctx context.Context, theme string) error {
	return r.Set(ctx, keyTheme, theme)
}
