package utils

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/julianstephens/habitkit/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	// Return the date at midnight in the specified timezone
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsSameDay reports whether a and b fall on the same calendar day.
// Each value is read on its own calendar, so a day loaded back from storage
// with a fixed offset still matches the same day in a DST-observing zone.
func IsSameDay(a, b time.Time) bool {
	return civilDay(a).Equal(civilDay(b))
}

// DayIn returns midnight in loc of t's own calendar day
func DayIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func civilDay(t time.Time) time.Time {
	return DayIn(t, time.UTC)
}

// DayKey returns the YYYY-MM-DD key of t's calendar day.
func DayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// DaysBetween returns the number of calendar days from earlier to later.
// Counting is done on each value's own calendar, so neither a DST transition
// nor a change of offset between the two values skews the result.
func DaysBetween(later, earlier time.Time) int {
	return int(civilDay(later).Sub(civilDay(earlier)).Hours() / 24)
}

// AddDays moves t by n calendar days, keeping the time of day.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// TodayMinusDaysAgo returns the start of the day daysAgo days before now.
func TodayMinusDaysAgo(now time.Time, daysAgo int) time.Time {
	return StartOfDay(AddDays(now, -daysAgo))
}

// IsWithinLastDays reports whether date falls inside the trailing window of
// daysAgo days ending at now. The window opens at the start of the day
// daysAgo days back and closes at now, so future dates are never inside it.
func IsWithinLastDays(date, now time.Time, daysAgo int) bool {
	windowStart := civilDay(TodayMinusDaysAgo(now, daysAgo))
	return !civilDay(date).Before(windowStart) && !date.After(now)
}

// IsAfterToday reports whether date falls on a calendar day after now.
func IsAfterToday(date, now time.Time) bool {
	return civilDay(date).After(civilDay(now))
}

// NextWeekdayAt returns the first instant strictly after t that falls on the
// given weekday at hour:00 in t's location.
func NextWeekdayAt(t time.Time, weekday time.Weekday, hour int) time.Time {
	candidate := time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
	offset := (int(weekday) - int(t.Weekday()) + 7) % 7
	candidate = candidate.AddDate(0, 0, offset)
	if !candidate.After(t) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// FormatMinutes renders a minute count as "Xh Ym", or "Ym" under an hour.
func FormatMinutes(minutes int) string {
	hours := minutes / 60
	remaining := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, remaining)
	}
	return fmt.Sprintf("%dm", remaining)
}
