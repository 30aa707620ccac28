package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitList.SetSize(msg.Width-4, msg.Height-6)
	}

	switch m.state {
	case constants.StateAddHabit:
		return m.updateForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case constants.StateDetail:
		return m.updateDetail(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{
			Type:  string(models.HabitTypeBoolean),
			Color: constants.DefaultHabitColor,
		}
		m.editingID = ""
		m.form = NewHabitForm(m.habitForm, false)
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habitlist.EditHabitMsg:
		h, err := m.store.GetHabit(msg.ID)
		if err != nil {
			m.statusMessage = fmt.Sprintf("Habit not found: %v", err)
			return m, nil
		}
		m.habitForm = newFormModel(h)
		m.editingID = h.ID
		m.form = NewHabitForm(m.habitForm, true)
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habitlist.SelectHabitMsg:
		m.detailID = msg.ID
		m.state = constants.StateDetail
		return m, nil

	case habitlist.ToggleHabitMsg:
		m.mutate(msg.ID, func(h *models.Habit, now time.Time) {
			if h.IsCounter() {
				if h.CounterValue(now) > 0 {
					h.SetCounterValue(0, now)
				} else {
					h.SetCounterValue(1, now)
				}
				h.CleanupDailyCounters()
				return
			}
			h.ToggleCompletion(now, 0)
		})
		return m, nil

	case habitlist.IncrementHabitMsg:
		m.mutate(msg.ID, func(h *models.Habit, now time.Time) {
			if h.IsCounter() {
				h.IncrementCounter(now)
			} else {
				h.AddCompletedDate(now)
			}
		})
		return m, nil

	case habitlist.DecrementHabitMsg:
		m.mutate(msg.ID, func(h *models.Habit, now time.Time) {
			if h.IsCounter() {
				h.DecrementCounter(now)
				h.CleanupDailyCounters()
			} else {
				h.RemoveCompletedDate(now)
			}
		})
		return m, nil

	case habitlist.ArchiveHabitMsg:
		h, err := m.store.GetHabit(msg.ID)
		if err != nil {
			m.statusMessage = fmt.Sprintf("Habit not found: %v", err)
			return m, nil
		}
		if h.ArchivedAt != nil {
			err = m.store.UnarchiveHabit(h.ID)
		} else {
			err = m.store.ArchiveHabit(h.ID)
		}
		if err != nil {
			m.statusMessage = fmt.Sprintf("Failed to archive habit: %v", err)
			return m, nil
		}
		m.refresh()
		return m, nil

	case habitlist.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.state = constants.StateConfirmDelete
		return m, nil

	case habitlist.RestoreHabitMsg:
		if err := m.store.RestoreHabit(msg.ID); err != nil {
			m.statusMessage = fmt.Sprintf("Failed to restore habit: %v", err)
			return m, nil
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.habitList, cmd = m.habitList.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveForm(); err != nil {
			// Stay in the form so the user can correct it or cancel with ESC
			m.statusMessage = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.statusMessage = ""
		m.state = constants.StateHabits
		m.refresh()
	case huh.StateAborted:
		m.state = constants.StateHabits
	}
	return m, cmd
}

func (m *Model) saveForm() error {
	if existing, err := m.store.GetHabitByTitle(m.habitForm.Title); err == nil && existing.ID != m.editingID {
		return fmt.Errorf("a habit named %q already exists", existing.Title)
	}

	if m.editingID == "" {
		h, err := buildHabit(m.habitForm, m.clock())
		if err != nil {
			return err
		}
		if err := m.store.AddHabit(h); err != nil {
			logger.Error("Failed to add habit", "error", err)
			return fmt.Errorf("failed to add habit: %w", err)
		}
		return nil
	}

	h, err := m.store.GetHabit(m.editingID)
	if err != nil {
		return err
	}
	if err := applyEdit(m.habitForm, &h); err != nil {
		return err
	}
	return m.store.UpdateHabit(h)
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.store.DeleteHabit(m.habitToDeleteID); err != nil {
			m.statusMessage = fmt.Sprintf("Failed to delete habit: %v", err)
		} else {
			m.refresh()
		}
		m.habitToDeleteID = ""
		m.state = constants.StateHabits
	case key.Matches(keyMsg, m.keys.Cancel):
		m.habitToDeleteID = ""
		m.state = constants.StateHabits
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Back), key.Matches(keyMsg, m.keys.Enter):
		m.detailID = ""
		m.state = constants.StateHabits
	}
	return m, nil
}
