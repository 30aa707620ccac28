package heatmap

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// DefaultWeeks is the number of week columns shown in the detail view
const DefaultWeeks = 26

var (
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	palette = map[string]lipgloss.Color{
		"blue":   lipgloss.Color("33"),
		"green":  lipgloss.Color("34"),
		"orange": lipgloss.Color("208"),
		"pink":   lipgloss.Color("205"),
		"purple": lipgloss.Color("135"),
		"red":    lipgloss.Color("196"),
		"teal":   lipgloss.Color("37"),
		"yellow": lipgloss.Color("220"),
	}

	dayLabels = [7]string{"Mon", "", "Wed", "", "Fri", "", "Sun"}
)

// ColorFor maps a habit color name to a terminal color
func ColorFor(name string) lipgloss.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return palette["blue"]
}

// Shade picks the cell glyph for an intensity between 0 and 1
func Shade(intensity float64) string {
	switch {
	case intensity <= 0:
		return "·"
	case intensity <= 0.4:
		return "░"
	case intensity <= 0.6:
		return "▒"
	case intensity < 1:
		return "▓"
	default:
		return "█"
	}
}

// StartDate returns the Monday that opens the first of weeks columns ending
// with the week containing now
func StartDate(now time.Time, weeks int) time.Time {
	today := utils.StartOfDay(now)
	offset := (int(today.Weekday()) + 6) % 7
	monday := utils.AddDays(today, -offset)
	return utils.AddDays(monday, -7*(weeks-1))
}

// Render draws one row per weekday and one column per week. Days after now
// are left blank.
func Render(h *models.Habit, now time.Time, weeks int) string {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}
	start := StartDate(now, weeks)
	filled := lipgloss.NewStyle().Foreground(ColorFor(h.ColorOrDefault()))

	var b strings.Builder
	for row := 0; row < 7; row++ {
		b.WriteString(labelStyle.Render(padLabel(dayLabels[row])))
		for col := 0; col < weeks; col++ {
			day := utils.AddDays(start, col*7+row)
			if utils.IsAfterToday(day, now) {
				b.WriteString("  ")
				continue
			}
			intensity := h.Intensity(day, now)
			glyph := Shade(intensity)
			if intensity > 0 {
				b.WriteString(" " + filled.Render(glyph))
			} else {
				b.WriteString(" " + emptyStyle.Render(glyph))
			}
		}
		if row < 6 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func padLabel(s string) string {
	return s + strings.Repeat(" ", 3-len(s))
}
