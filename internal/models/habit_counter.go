package models

import (
	"time"

	"github.com/julianstephens/habitkit/internal/utils"
)

// CounterValue returns the count recorded on date's day, 0 when none was recorded
func (h *Habit) CounterValue(date time.Time) int {
	return h.DailyCounters[utils.DayKey(date)]
}

// SetCounterValue stores value for date's day, clamping negatives to zero.
// A positive value makes sure the day is in CompletedDates; zero removes it.
func (h *Habit) SetCounterValue(value int, date time.Time) {
	if value < 0 {
		value = 0
	}
	day := utils.StartOfDay(date)
	h.setCounter(day, value)
	if value > 0 {
		h.AddCompletedDate(day)
	} else {
		h.removeCompletedDay(day)
	}
}

func (h *Habit) IncrementCounter(date time.Time) {
	h.SetCounterValue(h.CounterValue(date)+1, date)
}

// DecrementCounter lowers the day's count by one, stopping at zero
func (h *Habit) DecrementCounter(date time.Time) {
	h.SetCounterValue(max(h.CounterValue(date)-1, 0), date)
}

// CleanupDailyCounters removes days whose count is zero
func (h *Habit) CleanupDailyCounters() {
	for day, count := range h.DailyCounters {
		if count <= 0 {
			delete(h.DailyCounters, day)
		}
	}
}

func (h *Habit) setCounter(day time.Time, value int) {
	if h.DailyCounters == nil {
		h.DailyCounters = make(map[string]int)
	}
	h.DailyCounters[utils.DayKey(day)] = value
}
