package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/tui/components/habitlist"
	"github.com/julianstephens/habitkit/internal/validation"
)

// HabitFormModel backs the add and edit forms
type HabitFormModel struct {
	Title      string
	Motivation string
	Type       string
	Color      string
	Weekly     bool
	Duration   string
}

type Model struct {
	store             storage.Provider
	clock             func() time.Time
	state             constants.SessionState
	keys              KeyMap
	help              help.Model
	habitList         habitlist.Model
	form              *huh.Form
	habitForm         *HabitFormModel
	editingID         string
	detailID          string
	habitToDeleteID   string
	statusMessage     string
	validationWarning string
	quitting          bool
	width             int
	height            int
}

// NewModel builds the TUI over store. clock returns the current time in the
// calendar timezone.
func NewModel(store storage.Provider, clock func() time.Time) Model {
	m := Model{
		store:     store,
		clock:     clock,
		state:     constants.StateHabits,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		habitList: habitlist.New(nil, clock(), 0, 0),
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateDetail:
		return []key.Binding{m.keys.Back, m.keys.Quit}
	case constants.StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return []key.Binding{m.keys.Toggle, m.keys.Increment, m.keys.Add, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Quit, m.keys.Help, m.keys.Back}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}
	actions := []key.Binding{
		m.keys.Toggle, m.keys.Increment, m.keys.Decrement,
		m.keys.Add, m.keys.Edit, m.keys.Archive, m.keys.Delete, m.keys.Restore,
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads habits from storage and re-runs validation
func (m *Model) refresh() {
	habits, err := m.store.GetAllHabits(true, true)
	if err != nil {
		logger.Error("Failed to load habits", "error", err)
		m.statusMessage = fmt.Sprintf("Failed to load habits: %v", err)
		return
	}
	now := m.clock()
	m.habitList.SetHabits(habits, now)
	m.updateValidationStatus(habits, now)
}

// updateValidationStatus summarises data conflicts for the status bar
func (m *Model) updateValidationStatus(habits []models.Habit, now time.Time) {
	result := validation.New().ValidateHabits(habits, now)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s), run '%s doctor'", len(result.Conflicts), constants.AppName)
	} else {
		m.validationWarning = ""
	}
}

// mutate loads a habit, applies fn and saves it back
func (m *Model) mutate(id string, fn func(h *models.Habit, now time.Time)) {
	h, err := m.store.GetHabit(id)
	if err != nil {
		m.statusMessage = fmt.Sprintf("Habit not found: %v", err)
		return
	}
	fn(&h, m.clock())
	if err := m.store.UpdateHabit(h); err != nil {
		logger.Error("Failed to save habit", "id", id, "error", err)
		m.statusMessage = fmt.Sprintf("Failed to save habit: %v", err)
		return
	}
	m.statusMessage = ""
	m.refresh()
}
