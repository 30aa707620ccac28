package backups

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/backup"
	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage/postgres"
	"github.com/julianstephens/habitkit/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, string, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{Store: store}
	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, dbPath, cleanup
}

func addHabit(t *testing.T, ctx *cli.Context, id, title string) {
	t.Helper()
	h := models.Habit{
		ID:           id,
		Title:        title,
		Type:         models.HabitTypeBoolean,
		CreationDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := ctx.Store.AddHabit(h); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, dbPath, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("list with no backups failed: %v", err)
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}

	backups, err := backup.NewManager(dbPath).ListBackups()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected 1 backup, got %d", len(backups))
	}

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("backup list failed: %v", err)
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, dbPath, cleanup := setupTestDB(t)
	defer cleanup()

	addHabit(t, ctx, "h1", "Read")
	mgr := backup.NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	addHabit(t, ctx, "h2", "Write")

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(backupPath), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("failed to reload store: %v", err)
	}
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(habits) != 1 || habits[0].ID != "h1" {
		t.Errorf("expected only the backed up habit after restore, got %+v", habits)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected the pre-restore snapshot to be kept, got %d backups", len(backups))
	}
}

func TestBackupRestore_NotFound(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	err := (&BackupRestoreCmd{BackupFile: "habitkit-20260101-000000.db", Yes: true}).Run(ctx)
	if err == nil {
		t.Error("expected restoring a missing backup to fail")
	}
}

func TestBackupCmds_Postgres(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://localhost/habitkit")}

	cmds := []interface{ Run(*cli.Context) error }{
		&BackupCreateCmd{},
		&BackupListCmd{},
		&BackupRestoreCmd{BackupFile: "x.db", Yes: true},
	}
	for _, cmd := range cmds {
		if err := cmd.Run(ctx); !errors.Is(err, errNotSQLite) {
			t.Errorf("%T: expected errNotSQLite, got %v", cmd, err)
		}
	}
}

func TestResolveBackupPath(t *testing.T) {
	backupDir := t.TempDir()
	inDir := filepath.Join(backupDir, "habitkit-20260301-120000.db")
	if err := os.WriteFile(inDir, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write backup: %v", err)
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"absolute path", inDir, inDir, false},
		{"file name in backup dir", "habitkit-20260301-120000.db", inDir, false},
		{"missing absolute path", filepath.Join(backupDir, "nope.db"), "", true},
		{"missing file name", "nope.db", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveBackupPath(tt.input, backupDir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveBackupPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveBackupPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
