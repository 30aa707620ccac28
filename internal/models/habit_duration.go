package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitkit/internal/utils"
)

var ErrInvalidDuration = errors.New("invalid duration")

// HabitDuration is the time one completion takes, in minutes, over the
// half-open interval [EffectiveDate, ExpirationDate). A nil ExpirationDate
// means the entry never expires.
type HabitDuration struct {
	Minutes        int        `json:"minutes"`
	EffectiveDate  time.Time  `json:"effective_date"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// IsOpen returns true if the entry has no expiration
func (d HabitDuration) IsOpen() bool {
	return d.ExpirationDate == nil
}

// Valid reports whether the interval is non-empty
func (d HabitDuration) Valid() bool {
	return d.ExpirationDate == nil || d.ExpirationDate.After(d.EffectiveDate)
}

// InEffect reports whether date lies in [EffectiveDate, ExpirationDate)
func (d HabitDuration) InEffect(date time.Time) bool {
	if date.Before(d.EffectiveDate) {
		return false
	}
	return d.ExpirationDate == nil || date.Before(*d.ExpirationDate)
}

// EffectiveDuration returns the minutes of the entry in effect on date.
// When several entries overlap, the last one in DurationHistory wins.
// It returns 0 when no entry covers date.
func (h *Habit) EffectiveDuration(date time.Time) int {
	minutes := 0
	for _, d := range h.DurationHistory {
		if d.InEffect(date) {
			minutes = d.Minutes
		}
	}
	return minutes
}

// SetDuration makes minutes the duration from the start of from's day
// onwards. Entries starting on or after that day are replaced and entries
// still running at that day are closed there.
func (h *Habit) SetDuration(minutes int, from time.Time) error {
	if minutes < 0 {
		return fmt.Errorf("%w: minutes must not be negative, got %d", ErrInvalidDuration, minutes)
	}
	day := utils.StartOfDay(from)
	h.truncateDurationsAt(day)
	h.DurationHistory = append(h.DurationHistory, HabitDuration{
		Minutes:       minutes,
		EffectiveDate: day,
	})
	return nil
}

// StopDuration ends timing at the start of at's day. Completions from that
// day onwards no longer count towards time spent.
func (h *Habit) StopDuration(at time.Time) {
	h.truncateDurationsAt(utils.StartOfDay(at))
}

func (h *Habit) truncateDurationsAt(day time.Time) {
	kept := h.DurationHistory[:0]
	for _, d := range h.DurationHistory {
		if !d.EffectiveDate.Before(day) {
			continue
		}
		if d.ExpirationDate == nil || d.ExpirationDate.After(day) {
			exp := day
			d.ExpirationDate = &exp
		}
		kept = append(kept, d)
	}
	h.DurationHistory = kept
}
