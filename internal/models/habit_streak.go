package models

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/utils"
)

// ProcessDatesForStreakCalculation normalizes completed dates to the start of
// their day in now's location, drops days after now and duplicates, and
// sorts newest first.
func (h *Habit) ProcessDatesForStreakCalculation(now time.Time) []time.Time {
	seen := make(map[string]struct{}, len(h.CompletedDates))
	dates := make([]time.Time, 0, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		day := utils.DayIn(d, now.Location())
		if utils.IsAfterToday(day, now) {
			continue
		}
		key := utils.DayKey(day)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].After(dates[j])
	})
	return dates
}

// Streak returns the current run of consecutive completed days ending today.
// A habit not completed today has a streak of 0.
func (h *Habit) Streak(now time.Time) int {
	dates := h.ProcessDatesForStreakCalculation(now)
	if len(dates) == 0 || !utils.IsSameDay(dates[0], now) {
		return 0
	}

	streak := 1
	for i := 1; i < len(dates); i++ {
		if utils.DaysBetween(dates[i-1], dates[i]) > 1 {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completed days up to now
func (h *Habit) LongestStreak(now time.Time) int {
	dates := h.ProcessDatesForStreakCalculation(now)
	if len(dates) == 0 {
		return 0
	}

	longest, current := 1, 1
	for i := 1; i < len(dates); i++ {
		if utils.DaysBetween(dates[i-1], dates[i]) <= 1 {
			current++
		} else {
			current = 1
		}
		longest = max(longest, current)
	}
	return longest
}

// CalculateStrengthPercentage scores dates on a logarithmic 0-100 scale.
// Only distinct days inside the strength period ending at now are counted;
// completing every day of the period reaches the full score.
func CalculateStrengthPercentage(dates []time.Time, now time.Time) int {
	period := constants.StrengthCalculationPeriod
	unique := make(map[string]struct{})
	for _, d := range dates {
		if utils.IsWithinLastDays(d, now, period) {
			unique[utils.DayKey(d)] = struct{}{}
		}
	}

	logBase := math.Pow(float64(period), 1/float64(constants.StrengthScale))
	strength := int(math.Log(float64(len(unique)+1)) / math.Log(logBase))
	return min(strength, constants.StrengthScale)
}

// StrengthPercentage returns the strength of the habit at now
func (h *Habit) StrengthPercentage(now time.Time) int {
	return CalculateStrengthPercentage(h.CompletedDates, now)
}

// StrengthGainedWithinLastDays returns how much of the current strength comes
// from completions in the last daysAgo days.
func (h *Habit) StrengthGainedWithinLastDays(now time.Time, daysAgo int) int {
	older := make([]time.Time, 0, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		if !utils.IsWithinLastDays(d, now, daysAgo) {
			older = append(older, d)
		}
	}
	return h.StrengthPercentage(now) - CalculateStrengthPercentage(older, now)
}
