package postgres

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
)

// TestStore_Integration tests PostgreSQL store with a real database
// Set POSTGRES_TEST_URL environment variable to run this test
// Example: POSTGRES_TEST_URL="postgres://habitkit_user@localhost:5432/habitkit_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	defer store.Close()

	t.Run("Settings", func(t *testing.T) {
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("failed to get settings: %v", err)
		}
		settings.MaxExports = 4
		if err := store.SaveSettings(settings); err != nil {
			t.Fatalf("failed to save settings: %v", err)
		}
		updated, err := store.GetSettings()
		if err != nil {
			t.Fatalf("failed to get updated settings: %v", err)
		}
		if updated.MaxExports != 4 {
			t.Errorf("expected max exports 4, got %d", updated.MaxExports)
		}
	})

	t.Run("Habits", func(t *testing.T) {
		day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		habit := models.Habit{
			ID:             uuid.New().String(),
			Title:          "Integration " + uuid.New().String()[:8],
			Type:           models.HabitTypeBoolean,
			IsWeekly:       true,
			CreationDate:   day,
			CompletedDates: []time.Time{day},
		}
		if err := habit.SetDuration(15, day); err != nil {
			t.Fatalf("failed to set duration: %v", err)
		}
		if err := store.AddHabit(habit); err != nil {
			t.Fatalf("failed to add habit: %v", err)
		}

		got, err := store.GetHabitByTitle(habit.Title)
		if err != nil {
			t.Fatalf("failed to get habit by title: %v", err)
		}
		if !got.IsWeekly || len(got.CompletedDates) != 1 || len(got.DurationHistory) != 1 {
			t.Errorf("habit did not round trip: %+v", got)
		}

		if err := store.DeleteHabit(habit.ID); err != nil {
			t.Fatalf("failed to delete habit: %v", err)
		}
		if _, err := store.GetHabit(habit.ID); !errors.Is(err, storage.ErrHabitNotFound) {
			t.Errorf("expected ErrHabitNotFound after delete, got %v", err)
		}
		if err := store.RestoreHabit(habit.ID); err != nil {
			t.Fatalf("failed to restore habit: %v", err)
		}
	})
}
