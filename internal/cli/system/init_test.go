package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage/postgres"
	"github.com/julianstephens/habitkit/internal/storage/sqlite"
)

var testNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func newTestContext(t *testing.T, dbPath string) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return &cli.Context{Store: store, Clock: func() time.Time { return testNow }}
}

func seedStore(t *testing.T, dbPath string, habits ...models.Habit) {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init source store: %v", err)
	}
	defer store.Close()

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	settings.Timezone = "UTC"
	settings.MaxExports = 3
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	for _, h := range habits {
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("failed to add habit: %v", err)
		}
	}
}

func testHabit(id, title string) models.Habit {
	return models.Habit{
		ID:             id,
		Title:          title,
		Type:           models.HabitTypeBoolean,
		CreationDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CompletedDates: []time.Time{time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
}

func TestInitCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "habitkit.db")
	ctx := newTestContext(t, dbPath)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file to exist: %v", err)
	}

	// Re-running init keeps existing data
	if err := ctx.Store.AddHabit(testHabit("h1", "Read")); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(habits) != 1 {
		t.Errorf("expected re-init to keep 1 habit, got %d", len(habits))
	}
}

func TestInitCmd_Force(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habitkit.db")
	seedStore(t, dbPath, testHabit("h1", "Read"))
	ctx := newTestContext(t, dbPath)
	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("expected a fresh database, got %d habits", len(habits))
	}
}

func TestInitCmd_ForceRejections(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habitkit.db")
	ctx := newTestContext(t, dbPath)

	if err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx); err == nil {
		t.Error("expected --force with source == destination to fail")
	}

	pgCtx := &cli.Context{Store: postgres.New("postgres://localhost/habitkit")}
	if err := (&InitCmd{Force: true}).Run(pgCtx); err == nil {
		t.Error("expected --force on PostgreSQL to fail")
	}
}

func TestInitCmd_CopyFromSource(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.db")
	seedStore(t, source, testHabit("h1", "Read"), testHabit("h2", "Write"))

	ctx := newTestContext(t, filepath.Join(dir, "dest.db"))
	if err := (&InitCmd{Source: source}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}

	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("expected 2 copied habits, got %d", len(habits))
	}
	for _, h := range habits {
		if len(h.CompletedDates) != 1 {
			t.Errorf("habit %s: expected its completion to be copied, got %v", h.Title, h.CompletedDates)
		}
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone != "UTC" || settings.MaxExports != 3 {
		t.Errorf("expected settings to be copied, got %+v", settings)
	}
}

func TestInitCmd_MissingSource(t *testing.T) {
	dir := t.TempDir()
	ctx := newTestContext(t, filepath.Join(dir, "dest.db"))
	if err := (&InitCmd{Source: filepath.Join(dir, "missing.db")}).Run(ctx); err == nil {
		t.Error("expected a missing source database to fail")
	}
}

func TestMigrateCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habitkit.db")
	seedStore(t, dbPath)
	ctx := newTestContext(t, dbPath)

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	m, ok := ctx.Store.(migrator)
	if !ok {
		t.Fatal("expected sqlite store to support migrations")
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() failed: %v", err)
	}
	if current != latest {
		t.Errorf("expected schema at latest version, got %d of %d", current, latest)
	}
}

func TestMigrateCmd_NotInitialized(t *testing.T) {
	ctx := newTestContext(t, filepath.Join(t.TempDir(), "missing.db"))
	if err := (&MigrateCmd{}).Run(ctx); err == nil {
		t.Error("expected migrate on a missing database to fail")
	}
}
