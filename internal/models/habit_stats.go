package models

import (
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/utils"
)

// Overview is the summary shown on a habit's detail screen
type Overview struct {
	Strength          int
	StrengthGainMonth int
	StrengthGainYear  int
	Completions       int
	CompletionsMonth  int
	CompletionsYear   int
	Streak            int
	LongestStreak     int
	StreakUnit        string
	TimeSpent         int
	TimeSpentMonth    int
	TimeSpentYear     int
}

// CompletionsWithinLastDays counts completed dates in the last daysAgo days
func (h *Habit) CompletionsWithinLastDays(now time.Time, daysAgo int) int {
	count := 0
	for _, d := range h.CompletedDates {
		if utils.IsWithinLastDays(d, now, daysAgo) {
			count++
		}
	}
	return count
}

// TotalTimeSpent returns the minutes spent over the whole history. Each
// completed day contributes the duration in effect that day, multiplied by
// the day's count for counter habits.
func (h *Habit) TotalTimeSpent() int {
	return h.timeSpent(nil)
}

func (h *Habit) TotalTimeSpentInLastMonth(now time.Time) int {
	return h.timeSpent(func(d time.Time) bool {
		return utils.IsWithinLastDays(d, now, constants.MonthWindowDays)
	})
}

func (h *Habit) TotalTimeSpentInLastYear(now time.Time) int {
	return h.timeSpent(func(d time.Time) bool {
		return utils.IsWithinLastDays(d, now, constants.YearWindowDays)
	})
}

func (h *Habit) timeSpent(include func(time.Time) bool) int {
	total := 0
	for _, d := range h.CompletedDates {
		if include != nil && !include(d) {
			continue
		}
		count := 1
		if h.IsCounter() {
			count = h.CounterValue(d)
		}
		total += h.EffectiveDuration(d) * count
	}
	return total
}

// Overview gathers strength, streak, completion and time figures at now.
// Weekly habits report completions divided into weeks.
func (h *Habit) Overview(now time.Time) Overview {
	completions := len(h.CompletedDates)
	month := h.CompletionsWithinLastDays(now, constants.MonthWindowDays)
	year := h.CompletionsWithinLastDays(now, constants.YearWindowDays)
	if h.IsWeekly {
		completions /= constants.DaysPerWeek
		month /= constants.DaysPerWeek
		year /= constants.DaysPerWeek
	}
	return Overview{
		Strength:          h.StrengthPercentage(now),
		StrengthGainMonth: h.StrengthGainedWithinLastDays(now, constants.MonthWindowDays),
		StrengthGainYear:  h.StrengthGainedWithinLastDays(now, constants.YearWindowDays),
		Completions:       completions,
		CompletionsMonth:  month,
		CompletionsYear:   year,
		Streak:            h.Streak(now),
		LongestStreak:     h.LongestStreak(now),
		StreakUnit:        h.StreakUnit(),
		TimeSpent:         h.TotalTimeSpent(),
		TimeSpentMonth:    h.TotalTimeSpentInLastMonth(now),
		TimeSpentYear:     h.TotalTimeSpentInLastYear(now),
	}
}

// Intensity returns the heatmap shade for date between 0 and 1. Counter days
// scale up to a full shade at constants.MaxCounterIntensity; other completed
// days are fully shaded. Days after now are always 0.
func (h *Habit) Intensity(date, now time.Time) float64 {
	if utils.IsAfterToday(date, now) {
		return 0
	}
	if v := h.CounterValue(date); v > 0 {
		return min(float64(v)/constants.MaxCounterIntensity, 1)
	}
	if h.hasCompletedDay(date) {
		return 1
	}
	return 0
}
