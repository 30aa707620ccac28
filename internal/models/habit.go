package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
)

// HabitType distinguishes yes/no habits from habits that count repetitions per day
type HabitType string

const (
	HabitTypeBoolean HabitType = "boolean"
	HabitTypeCounter HabitType = "counter"
)

// ParseHabitType converts a stored type name to a HabitType.
// Unknown or empty names fall back to HabitTypeBoolean.
func ParseHabitType(s string) HabitType {
	switch HabitType(strings.ToLower(strings.TrimSpace(s))) {
	case HabitTypeCounter:
		return HabitTypeCounter
	default:
		return HabitTypeBoolean
	}
}

// Habit represents a tracked practice together with its full history.
//
// CompletedDates holds one start-of-day entry per completed calendar day.
// DailyCounters maps YYYY-MM-DD keys to the count recorded on that day and is
// only meaningful for counter habits. DurationHistory is ordered by
// EffectiveDate.
//
// A Habit is a plain mutable record: the methods defined on it mutate its
// collections in place and never persist or signal anything. Callers save the
// habit through storage after mutating it and must not mutate one habit from
// several goroutines at once.
type Habit struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Motivation      string          `json:"motivation"`
	Color           string          `json:"color"`
	Type            HabitType       `json:"type"`
	IsWeekly        bool            `json:"is_weekly"`
	CreationDate    time.Time       `json:"creation_date"`
	CompletedDates  []time.Time     `json:"completed_dates"`
	DailyCounters   map[string]int  `json:"daily_counters"`
	DurationHistory []HabitDuration `json:"duration_history"`
	ArchivedAt      *time.Time      `json:"archived_at,omitempty"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
}

func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Title) == "" {
		return fmt.Errorf("habit title cannot be empty")
	}
	if h.Type != HabitTypeBoolean && h.Type != HabitTypeCounter {
		return fmt.Errorf("invalid habit type %q (expected %q or %q)", h.Type, HabitTypeBoolean, HabitTypeCounter)
	}
	if h.Color != "" && !slices.Contains(constants.HabitColors, h.Color) {
		return fmt.Errorf("invalid habit color %q (expected one of %s)", h.Color, strings.Join(constants.HabitColors, ", "))
	}
	for i, d := range h.DurationHistory {
		if d.Minutes < 0 {
			return fmt.Errorf("duration entry %d has negative minutes", i)
		}
	}
	return nil
}

// IsCounter returns true for habits that record a count per day
func (h *Habit) IsCounter() bool {
	return h.Type == HabitTypeCounter
}

// ColorOrDefault returns the habit color, or the default color when unset
func (h *Habit) ColorOrDefault() string {
	if h.Color == "" {
		return constants.DefaultHabitColor
	}
	return h.Color
}

// IsActive returns true if the habit is neither archived nor deleted
func (h *Habit) IsActive() bool {
	return h.ArchivedAt == nil && h.DeletedAt == nil
}

// StreakUnit returns the unit the streak of this habit is labelled with
func (h *Habit) StreakUnit() string {
	if h.IsWeekly {
		return "weeks"
	}
	return "days"
}
