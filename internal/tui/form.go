package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// NewHabitForm builds the add form, or the edit form when editing is true.
// A habit's type cannot change once it has history, so edit hides it.
func NewHabitForm(fm *HabitFormModel, editing bool) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Value(&fm.Title).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("habit title cannot be empty")
				}
				return nil
			}),
		huh.NewInput().
			Title("Motivation").
			Value(&fm.Motivation),
	}
	if !editing {
		fields = append(fields,
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Yes / no", string(models.HabitTypeBoolean)),
					huh.NewOption("Counter", string(models.HabitTypeCounter)),
				).
				Value(&fm.Type),
			huh.NewInput().
				Title("Minutes per completion (optional)").
				Value(&fm.Duration).
				Validate(validateMinutes),
		)
	}
	fields = append(fields,
		huh.NewSelect[string]().
			Title("Color").
			Options(huh.NewOptions(constants.HabitColors...)...).
			Value(&fm.Color),
		huh.NewConfirm().
			Title("Weekly habit?").
			Value(&fm.Weekly),
	)
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeDracula())
}

func validateMinutes(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("minutes must be a non-negative whole number")
	}
	return nil
}

// newFormModel seeds the form from an existing habit
func newFormModel(h models.Habit) *HabitFormModel {
	return &HabitFormModel{
		Title:      h.Title,
		Motivation: h.Motivation,
		Type:       string(h.Type),
		Color:      h.ColorOrDefault(),
		Weekly:     h.IsWeekly,
	}
}

// buildHabit turns a submitted add form into a new habit created at now
func buildHabit(fm *HabitFormModel, now time.Time) (models.Habit, error) {
	h := models.Habit{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(fm.Title),
		Motivation:   strings.TrimSpace(fm.Motivation),
		Type:         models.ParseHabitType(fm.Type),
		Color:        fm.Color,
		IsWeekly:     fm.Weekly,
		CreationDate: now,
	}
	if d := strings.TrimSpace(fm.Duration); d != "" {
		minutes, err := strconv.Atoi(d)
		if err != nil {
			return models.Habit{}, fmt.Errorf("invalid minutes %q", d)
		}
		if minutes > 0 {
			if err := h.SetDuration(minutes, utils.StartOfDay(now)); err != nil {
				return models.Habit{}, err
			}
		}
	}
	if err := h.Validate(); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

// applyEdit copies edited fields onto h
func applyEdit(fm *HabitFormModel, h *models.Habit) error {
	h.Title = strings.TrimSpace(fm.Title)
	h.Motivation = strings.TrimSpace(fm.Motivation)
	h.Color = fm.Color
	h.IsWeekly = fm.Weekly
	return h.Validate()
}
