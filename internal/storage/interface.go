package storage

import (
	"errors"

	"github.com/julianstephens/habitkit/internal/models"
)

var (
	// ErrHabitNotFound is returned when no habit matches the lookup
	ErrHabitNotFound = errors.New("habit not found")
	// ErrNotInitialized is returned by Load when the database has not been created yet
	ErrNotInitialized = errors.New("storage not initialized, run 'habitkit init' first")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByTitle(title string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	// UpdateHabit persists the whole record, including completions, counters
	// and duration history, in one transaction.
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Utils
	GetConfigPath() string
}
