package prefs_test

import (
	"context"
	"testing"

	"github.com/casklist/casklist/internal/prefs"
	"github.com/casklist/casklist/internal/testutil"
)

func newSettingsRepo(t *testing.T) prefs.SettingsRepository {
	t.Helper()
	st := testutil.NewStore(t)
	repo, err := prefs.NewSQLiteSettingsRepository(context.Background(), st)
	if err != nil {
		t.Fatalf("NewSQLiteSettingsRepository: %v", err)
	}
	return repo
}

func TestSettings_SetAndGet(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "site_name", "CaskList"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s, err := repo.Get(ctx, "site_name")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Key != "site_name" {
		t.Errorf("Key = %q, want %q", s.Key, "site_name")
	}
	if s.Value != "CaskList" {
		t.Errorf("Value = %q, want %q", s.Value, "CaskList")
	}
	if s.UpdatedAt.IsZero() {
		t.Error("UpdatedAt is zero")
	}
}

func TestSettings_SetOverwrite(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "theme", "light"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	s, err := repo.Get(ctx, "theme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.Value != "dark" {
		t.Errorf("Value = %q, want %q", s.Value, "dark")
	}
}

func TestSettings_GetNotFound(t *testing.T) {
	repo := newSettingsRepo(t)

	_, err := repo.Get(context.Background(), "nonexistent")
	if err != prefs.ErrNotFound {
		t.Errorf("Get nonexistent = %v, want ErrNotFound", err)
	}
}

func TestSettings_DeleteNotFound(t *testing.T) {
	repo := newSettingsRepo(t)

	err := repo.Delete(context.Background(), "nonexistent")
	if err != prefs.ErrNotFound {
		t.Errorf("Delete nonexistent = %v, want ErrNotFound", err)
	}
}

func TestSettings_SelectedFestivalLifecycle(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	// Unset reads as empty, not an error.
	id, err := repo.SelectedFestival(ctx)
	if err != nil {
		t.Fatalf("SelectedFestival unset: %v", err)
	}
	if id != "" {
		t.Errorf("SelectedFestival unset = %q, want empty", id)
	}

	if err := repo.SetSelectedFestival(ctx, "gbbf-2026"); err != nil {
		t.Fatalf("SetSelectedFestival: %v", err)
	}
	id, err = repo.SelectedFestival(ctx)
	if err != nil {
		t.Fatalf("SelectedFestival: %v", err)
	}
	if id != "gbbf-2026" {
		t.Errorf("SelectedFestival = %q, want gbbf-2026", id)
	}

	if err := repo.ClearSelectedFestival(ctx); err != nil {
		t.Fatalf("ClearSelectedFestival: %v", err)
	}
	id, _ = repo.SelectedFestival(ctx)
	if id != "" {
		t.Errorf("SelectedFestival after clear = %q, want empty", id)
	}

	// Clearing again is a no-op, not an error.
	if err := repo.ClearSelectedFestival(ctx); err != nil {
		t.Errorf("ClearSelectedFestival twice: %v", err)
	}
}

func TestSettings_HideUnavailable(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	hide, err := repo.HideUnavailable(ctx)
	if err != nil {
		t.Fatalf("HideUnavailable unset: %v", err)
	}
	if hide {
		t.Error("HideUnavailable default = true, want false")
	}

	if err := repo.SetHideUnavailable(ctx, true); err != nil {
		t.Fatalf("SetHideUnavailable: %v", err)
	}
	hide, _ = repo.HideUnavailable(ctx)
	if !hide {
		t.Error("HideUnavailable = false after set true")
	}
}

func TestSettings_HideUnavailableCorruptedValue(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "hide_unavailable", "banana"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	hide, err := repo.HideUnavailable(ctx)
	if err != nil {
		t.Fatalf("HideUnavailable should not propagate parse errors: %v", err)
	}
	if hide {
		t.Error("corrupted value should degrade to false")
	}
}

func TestSettings_Theme(t *testing.T) {
	repo := newSettingsRepo(t)
	ctx := context.Background()

	theme, err := repo.Theme(ctx)
	if err != nil {
		t.Fatalf("Theme unset: %v", err)
	}
	if theme != "" {
		t.Errorf("Theme unset = %q, want empty", theme)
	}

	if err := repo.SetTheme(ctx, "dark"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	theme, _ = repo.Theme(ctx)
	if theme != "dark" {
		t.Errorf("Theme = %q, want dark", theme)
	}
}
