package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

var ErrUnsupportedVersion = errors.New("unsupported export version")

// Document is the JSON file written by export and read by import.
// Dates are seconds since the Unix epoch.
type Document struct {
	Version    string        `json:"version"`
	ExportDate float64       `json:"exportDate"`
	Habits     []HabitRecord `json:"habits"`
}

type HabitRecord struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Motivation      string           `json:"motivation"`
	Color           string           `json:"color"`
	Type            string           `json:"type"`
	IsWeekly        bool             `json:"isWeekly"`
	CreationDate    float64          `json:"creationDate"`
	CompletedDates  []float64        `json:"completedDates"`
	DailyCounters   map[string]int   `json:"dailyCounters"`
	DurationHistory []DurationRecord `json:"durationHistory"`
}

type DurationRecord struct {
	Minutes        int      `json:"minutes"`
	EffectiveDate  float64  `json:"effectiveDate"`
	ExpirationDate *float64 `json:"expirationDate"`
}

// Encode serializes habits into an indented export document dated now.
// Counter days are keyed by the epoch of their start of day in now's location.
func Encode(habits []models.Habit, now time.Time) ([]byte, error) {
	doc := Document{
		Version:    constants.ExportVersion,
		ExportDate: toEpoch(now),
		Habits:     make([]HabitRecord, 0, len(habits)),
	}

	for _, h := range habits {
		rec := HabitRecord{
			ID:              h.ID,
			Title:           h.Title,
			Motivation:      h.Motivation,
			Color:           h.ColorOrDefault(),
			Type:            string(h.Type),
			IsWeekly:        h.IsWeekly,
			CreationDate:    toEpoch(h.CreationDate),
			CompletedDates:  make([]float64, 0, len(h.CompletedDates)),
			DailyCounters:   make(map[string]int, len(h.DailyCounters)),
			DurationHistory: make([]DurationRecord, 0, len(h.DurationHistory)),
		}
		for _, d := range h.CompletedDates {
			rec.CompletedDates = append(rec.CompletedDates, toEpoch(d))
		}
		for day, count := range h.DailyCounters {
			t, err := utils.ParseDateInLocation(day, now.Location())
			if err != nil {
				return nil, fmt.Errorf("habit %s: invalid counter day %q: %w", h.ID, day, err)
			}
			rec.DailyCounters[formatEpochKey(t)] = count
		}
		for _, d := range h.DurationHistory {
			dr := DurationRecord{
				Minutes:       d.Minutes,
				EffectiveDate: toEpoch(d.EffectiveDate),
			}
			if d.ExpirationDate != nil {
				exp := toEpoch(*d.ExpirationDate)
				dr.ExpirationDate = &exp
			}
			rec.DurationHistory = append(rec.DurationHistory, dr)
		}
		doc.Habits = append(doc.Habits, rec)
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses an export document. Dates are placed in loc, which decides
// the calendar day of every completion and counter. Duration entries keep
// their file order.
func Decode(data []byte, loc *time.Location) ([]models.Habit, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse export file: %w", err)
	}
	if doc.Version != constants.ExportVersion {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Version)
	}

	habits := make([]models.Habit, 0, len(doc.Habits))
	for i, rec := range doc.Habits {
		if rec.ID == "" {
			return nil, fmt.Errorf("habit %d has no id", i)
		}
		h := models.Habit{
			ID:              rec.ID,
			Title:           rec.Title,
			Motivation:      rec.Motivation,
			Color:           rec.Color,
			Type:            models.ParseHabitType(rec.Type),
			IsWeekly:        rec.IsWeekly,
			CreationDate:    fromEpoch(rec.CreationDate, loc),
			CompletedDates:  make([]time.Time, 0, len(rec.CompletedDates)),
			DailyCounters:   make(map[string]int, len(rec.DailyCounters)),
			DurationHistory: make([]models.HabitDuration, 0, len(rec.DurationHistory)),
		}
		for _, sec := range rec.CompletedDates {
			h.CompletedDates = append(h.CompletedDates, fromEpoch(sec, loc))
		}
		for key, count := range rec.DailyCounters {
			sec, err := strconv.ParseFloat(key, 64)
			if err != nil {
				return nil, fmt.Errorf("habit %s: invalid counter key %q: %w", rec.ID, key, err)
			}
			h.DailyCounters[utils.DayKey(fromEpoch(sec, loc))] += count
		}
		for _, dr := range rec.DurationHistory {
			d := models.HabitDuration{
				Minutes:       dr.Minutes,
				EffectiveDate: fromEpoch(dr.EffectiveDate, loc),
			}
			if dr.ExpirationDate != nil {
				exp := fromEpoch(*dr.ExpirationDate, loc)
				d.ExpirationDate = &exp
			}
			h.DurationHistory = append(h.DurationHistory, d)
		}
		habits = append(habits, h)
	}
	return habits, nil
}

func toEpoch(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

func fromEpoch(sec float64, loc *time.Location) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(math.Round(frac*float64(time.Second)))).In(loc)
}

// formatEpochKey renders whole seconds with a trailing ".0", the key form
// found in existing export files.
func formatEpochKey(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10) + ".0"
}
