package models

import (
	"time"

	"github.com/julianstephens/habitkit/internal/utils"
)

// IsCompleted reports whether the habit was completed on date's calendar day.
// Boolean habits look at CompletedDates; counter habits need a positive count.
func (h *Habit) IsCompleted(date time.Time) bool {
	if h.IsCounter() {
		return h.CounterValue(date) > 0
	}
	return h.hasCompletedDay(date)
}

// IsCompletedDaysAgo reports completion for the day daysAgo days before now
func (h *Habit) IsCompletedDaysAgo(now time.Time, daysAgo int) bool {
	return h.IsCompleted(utils.TodayMinusDaysAgo(now, daysAgo))
}

// AddCompletedDate records date's calendar day as completed. It is a no-op
// when the day is already present in CompletedDates. Counters are untouched.
func (h *Habit) AddCompletedDate(date time.Time) {
	day := utils.StartOfDay(date)
	if h.hasCompletedDay(day) {
		return
	}
	h.CompletedDates = append(h.CompletedDates, day)
}

// RemoveCompletedDate drops every entry on date's calendar day. Counter habits
// also get that day's count reset to zero.
func (h *Habit) RemoveCompletedDate(date time.Time) {
	day := utils.StartOfDay(date)
	h.removeCompletedDay(day)
	if h.IsCounter() {
		h.setCounter(day, 0)
	}
}

// ToggleCompletion flips completion for the day daysAgo days before now
func (h *Habit) ToggleCompletion(now time.Time, daysAgo int) {
	day := utils.TodayMinusDaysAgo(now, daysAgo)
	if h.IsCompleted(day) {
		h.RemoveCompletedDate(day)
	} else {
		h.AddCompletedDate(day)
	}
}

// Backfill marks every day from start through now as done: boolean habits get
// a completed date, counter habits a count of one.
func (h *Habit) Backfill(start, now time.Time) {
	for day := utils.StartOfDay(start); !day.After(now); day = utils.AddDays(day, 1) {
		if h.IsCounter() {
			h.SetCounterValue(1, day)
		} else {
			h.AddCompletedDate(day)
		}
	}
	if h.IsCounter() {
		h.CleanupDailyCounters()
	}
}

func (h *Habit) hasCompletedDay(date time.Time) bool {
	for _, d := range h.CompletedDates {
		if utils.IsSameDay(d, date) {
			return true
		}
	}
	return false
}

func (h *Habit) removeCompletedDay(date time.Time) {
	kept := h.CompletedDates[:0]
	for _, d := range h.CompletedDates {
		if !utils.IsSameDay(d, date) {
			kept = append(kept, d)
		}
	}
	h.CompletedDates = kept
}
