package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/tui/components/heatmap"
	"github.com/julianstephens/habitkit/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateAddHabit:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	case constants.StateDetail:
		content = m.viewDetail()
	default:
		content = docStyle.Render(m.habitList.View())
	}

	var status []string
	if m.statusMessage != "" {
		status = append(status, dangerStyle.Render(m.statusMessage))
	}
	if m.validationWarning != "" {
		status = append(status, warningStyle.Render(m.validationWarning))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(constants.AppName),
		content,
		strings.Join(status, "  "),
		m.help.View(m),
	)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Are you sure you want to delete this habit?"),
			mutedStyle.Render("It can be restored later with 'r'."),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewDetail() string {
	h, err := m.store.GetHabit(m.detailID)
	if err != nil {
		return docStyle.Render(fmt.Sprintf("Habit not found: %v", err))
	}
	return docStyle.Render(renderDetail(&h, m.clock()))
}

// renderDetail shows the overview figures above the completion heatmap
func renderDetail(h *models.Habit, now time.Time) string {
	o := h.Overview(now)
	heading := lipgloss.NewStyle().Bold(true).Foreground(heatmap.ColorFor(h.ColorOrDefault())).Render(h.Title)

	var b strings.Builder
	b.WriteString(heading + "\n")
	if h.Motivation != "" {
		b.WriteString(mutedStyle.Render(h.Motivation) + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Strength     %d%% (%+d%% month, %+d%% year)\n", o.Strength, o.StrengthGainMonth, o.StrengthGainYear)
	fmt.Fprintf(&b, "Streak       %d %s (longest %d %s)\n", o.Streak, o.StreakUnit, o.LongestStreak, o.StreakUnit)
	fmt.Fprintf(&b, "Completions  %d (%d month, %d year)\n", o.Completions, o.CompletionsMonth, o.CompletionsYear)
	if h.IsCounter() {
		fmt.Fprintf(&b, "Today        %d\n", h.CounterValue(now))
	}
	if o.TimeSpent > 0 {
		fmt.Fprintf(&b, "Time spent   %s (%s month, %s year)\n",
			utils.FormatMinutes(o.TimeSpent), utils.FormatMinutes(o.TimeSpentMonth), utils.FormatMinutes(o.TimeSpentYear))
	}
	b.WriteString("\n")
	b.WriteString(heatmap.Render(h, now, heatmap.DefaultWeeks))
	return b.String()
}
