package habitlist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitkit/internal/models"
)

type AddHabitMsg struct{}

type EditHabitMsg struct {
	ID string
}

type SelectHabitMsg struct {
	ID string
}

type ToggleHabitMsg struct {
	ID string
}

type IncrementHabitMsg struct {
	ID string
}

type DecrementHabitMsg struct {
	ID string
}

type ArchiveHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type RestoreHabitMsg struct {
	ID string
}

type Item struct {
	Habit models.Habit
	Now   time.Time
}

func (i Item) Title() string {
	h := i.Habit
	switch {
	case h.DeletedAt != nil:
		return "[DELETED] " + h.Title
	case h.ArchivedAt != nil:
		return "[ARCHIVED] " + h.Title
	case h.IsCounter():
		return fmt.Sprintf("%d× %s", h.CounterValue(i.Now), h.Title)
	case h.IsCompleted(i.Now):
		return "✓ " + h.Title
	default:
		return "○ " + h.Title
	}
}

func (i Item) Description() string {
	h := i.Habit
	if h.DeletedAt != nil {
		return "can restore with 'r'"
	}
	return fmt.Sprintf("streak %d %s | strength %d%%", h.Streak(i.Now), h.StreakUnit(), h.StrengthPercentage(i.Now))
}

func (i Item) FilterValue() string { return i.Habit.Title }

type KeyMap struct {
	Add       key.Binding
	Edit      key.Binding
	Select    key.Binding
	Toggle    key.Binding
	Increment key.Binding
	Decrement key.Binding
	Archive   key.Binding
	Delete    key.Binding
	Restore   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle today"),
		),
		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "count up"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "count down"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, now time.Time, width, height int) Model {
	l := list.New(toItems(habits, now), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Increment, keys.Add, keys.Select}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Select, keys.Toggle, keys.Increment, keys.Decrement, keys.Archive, keys.Delete, keys.Restore}
	}

	return Model{list: l, keys: keys}
}

func toItems(habits []models.Habit, now time.Time) []list.Item {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h, Now: now}
	}
	return items
}

func (m *Model) SetHabits(habits []models.Habit, now time.Time) {
	m.list.SetItems(toItems(habits, now))
}

// Selected returns the highlighted habit
func (m Model) Selected() (models.Habit, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Habit{}, false
	}
	return i.Habit, true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if c := m.handleKey(msg); c != nil {
			return m, c
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Add) {
		return func() tea.Msg { return AddHabitMsg{} }
	}

	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return nil
	}
	id := i.Habit.ID
	deleted := i.Habit.DeletedAt != nil
	active := i.Habit.IsActive()

	switch {
	case key.Matches(msg, m.keys.Select):
		return func() tea.Msg { return SelectHabitMsg{ID: id} }
	case key.Matches(msg, m.keys.Restore):
		if deleted {
			return func() tea.Msg { return RestoreHabitMsg{ID: id} }
		}
	case key.Matches(msg, m.keys.Delete):
		if !deleted {
			return func() tea.Msg { return DeleteHabitMsg{ID: id} }
		}
	case key.Matches(msg, m.keys.Archive):
		if !deleted {
			return func() tea.Msg { return ArchiveHabitMsg{ID: id} }
		}
	case key.Matches(msg, m.keys.Edit):
		if active {
			return func() tea.Msg { return EditHabitMsg{ID: id} }
		}
	case key.Matches(msg, m.keys.Toggle):
		if active {
			return func() tea.Msg { return ToggleHabitMsg{ID: id} }
		}
	case key.Matches(msg, m.keys.Increment):
		if active {
			return func() tea.Msg { return IncrementHabitMsg{ID: id} }
		}
	case key.Matches(msg, m.keys.Decrement):
		if active {
			return func() tea.Msg { return DecrementHabitMsg{ID: id} }
		}
	}
	return nil
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
