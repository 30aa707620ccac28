package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/habitkit/internal/backup"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/storage/postgres"
	"github.com/julianstephens/habitkit/internal/storage/sqlite"
	"github.com/julianstephens/habitkit/internal/utils"
)

type Context struct {
	Store storage.Provider
	// Clock returns the current instant. Nil means time.Now.
	Clock func() time.Time
}

// OpenStore returns the provider for a resolved connection without opening it
func OpenStore(conn storage.Connection) storage.Provider {
	if conn.Backend == storage.BackendPostgres {
		return postgres.New(conn.Target)
	}
	return sqlite.NewStore(conn.Target)
}

// Location returns the calendar timezone from the stored settings
func (c *Context) Location() (*time.Location, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	return loc, nil
}

// Now returns the current time in the configured timezone. Commands read it
// once and pass it down so every calculation shares one "today".
func (c *Context) Now() (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	clock := c.Clock
	if clock == nil {
		clock = time.Now
	}
	return clock().In(loc), nil
}

// FindHabit looks a habit up by ID, then by title
func (c *Context) FindHabit(ref string) (models.Habit, error) {
	if habit, err := c.Store.GetHabit(ref); err == nil {
		return habit, nil
	}
	habit, err := c.Store.GetHabitByTitle(ref)
	if err != nil {
		return models.Habit{}, fmt.Errorf("%w: %q", storage.ErrHabitNotFound, ref)
	}
	return habit, nil
}

// FindDeletedHabit looks up a soft-deleted habit by ID or title
func (c *Context) FindDeletedHabit(ref string) (models.Habit, error) {
	habits, err := c.Store.GetAllHabits(true, true)
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if h.DeletedAt == nil {
			continue
		}
		if h.ID == ref || strings.EqualFold(h.Title, ref) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("%w: no deleted habit %q", storage.ErrHabitNotFound, ref)
}

// IsSQLite reports whether the store is backed by a local SQLite file
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// ConfigDir returns the directory holding the database, logs and exports.
// PostgreSQL stores fall back to the user config directory.
func (c *Context) ConfigDir() (string, error) {
	if c.IsSQLite() {
		return filepath.Dir(c.Store.GetConfigPath()), nil
	}
	return DefaultConfigDir()
}

// DefaultConfigDir returns ~/.config/habitkit or its platform equivalent
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, constants.AppName), nil
}

// PerformAutomaticBackup snapshots a SQLite database and only logs failures
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseDay parses a YYYY-MM-DD flag in now's timezone. An empty value means
// today. Days after today are rejected.
func ParseDay(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return utils.StartOfDay(now), nil
	}
	day, err := utils.ParseDateInLocation(value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", value)
	}
	if utils.IsAfterToday(day, now) {
		return time.Time{}, fmt.Errorf("date %s is in the future", value)
	}
	return day, nil
}
