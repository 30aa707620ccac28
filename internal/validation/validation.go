package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitTitle      ConflictType = "duplicate_habit_title"
	ConflictDuplicateCompletedDay    ConflictType = "duplicate_completed_day"
	ConflictFutureCompletion         ConflictType = "future_completion"
	ConflictCounterMissingCompletion ConflictType = "counter_missing_completion"
	ConflictCompletionWithoutCount   ConflictType = "completion_without_count"
	ConflictNegativeCounter          ConflictType = "negative_counter"
	ConflictInvalidDuration          ConflictType = "invalid_duration"
	ConflictOverlappingDurations     ConflictType = "overlapping_durations"
	ConflictDurationOrder            ConflictType = "duration_order"
)

// Conflict represents a data-quality problem found in a habit record
type Conflict struct {
	Type        ConflictType
	Description string
	HabitID     string
	HabitTitle  string
	Date        string   // YYYY-MM-DD format (if applicable)
	HabitIDs    []string // IDs of all habits involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action  string // Human-readable description of the action
	HabitID string
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks habit records for inconsistencies
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks every non-deleted habit and looks for duplicate titles
func (v *Validator) ValidateHabits(habits []models.Habit, now time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	titles := make(map[string][]string)
	var order []string
	for _, h := range habits {
		if h.DeletedAt != nil || h.Title == "" {
			continue
		}
		if _, ok := titles[h.Title]; !ok {
			order = append(order, h.Title)
		}
		titles[h.Title] = append(titles[h.Title], h.ID)
	}
	for _, title := range order {
		ids := titles[title]
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitTitle,
				Description: fmt.Sprintf("Duplicate habit title: %q (IDs: %v)", title, ids),
				HabitTitle:  title,
				HabitIDs:    ids,
			})
		}
	}

	for _, h := range habits {
		if h.DeletedAt != nil {
			continue
		}
		result.Conflicts = append(result.Conflicts, v.ValidateHabit(h, now).Conflicts...)
	}

	return result
}

// ValidateHabit checks a single habit's completions, counters and durations
func (v *Validator) ValidateHabit(h models.Habit, now time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	add := func(t ConflictType, day, format string, args ...any) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        t,
			Description: fmt.Sprintf("Habit %q: ", h.Title) + fmt.Sprintf(format, args...),
			HabitID:     h.ID,
			HabitTitle:  h.Title,
			Date:        day,
			HabitIDs:    []string{h.ID},
		})
	}

	completed := make(map[string]int)
	for _, d := range h.CompletedDates {
		day := utils.DayKey(d)
		completed[day]++
		if utils.IsAfterToday(d, now) && completed[day] == 1 {
			add(ConflictFutureCompletion, day, "completion recorded in the future on %s", day)
		}
	}
	for _, day := range sortedKeys(completed) {
		if completed[day] > 1 {
			add(ConflictDuplicateCompletedDay, day, "%d completions recorded on %s", completed[day], day)
		}
	}

	if h.IsCounter() {
		for _, day := range sortedKeys(h.DailyCounters) {
			count := h.DailyCounters[day]
			switch {
			case count < 0:
				add(ConflictNegativeCounter, day, "negative count %d on %s", count, day)
			case count > 0 && completed[day] == 0:
				add(ConflictCounterMissingCompletion, day, "count %d on %s but day is not marked completed", count, day)
			}
		}
		for _, day := range sortedKeys(completed) {
			if h.DailyCounters[day] <= 0 {
				add(ConflictCompletionWithoutCount, day, "%s is marked completed without a count", day)
			}
		}
	}

	for i, d := range h.DurationHistory {
		if !d.Valid() {
			add(ConflictInvalidDuration, utils.DayKey(d.EffectiveDate),
				"duration entry %d expires on or before it takes effect (%s)", i, utils.DayKey(d.EffectiveDate))
		}
		if i > 0 && d.EffectiveDate.Before(h.DurationHistory[i-1].EffectiveDate) {
			add(ConflictDurationOrder, utils.DayKey(d.EffectiveDate),
				"duration entry %d takes effect before entry %d", i, i-1)
		}
	}
	for i := 0; i < len(h.DurationHistory); i++ {
		for j := i + 1; j < len(h.DurationHistory); j++ {
			a, b := h.DurationHistory[i], h.DurationHistory[j]
			if a.Valid() && b.Valid() && durationsOverlap(a, b) {
				add(ConflictOverlappingDurations, utils.DayKey(b.EffectiveDate),
					"duration entries %d (%d min) and %d (%d min) overlap", i, a.Minutes, j, b.Minutes)
			}
		}
	}

	return result
}

// AutoFixHabit repairs the conflicts that have an unambiguous fix: duplicate
// completed days, counters out of sync with completed days, zero or negative
// counters and empty duration intervals. Overlapping durations are left for
// the user since the later entry already wins.
// Returns a slice of FixActions describing what was fixed
func AutoFixHabit(h *models.Habit) []FixAction {
	actions := []FixAction{}
	record := func(format string, args ...any) {
		actions = append(actions, FixAction{Action: fmt.Sprintf("Habit %q: ", h.Title) + fmt.Sprintf(format, args...), HabitID: h.ID})
	}

	seen := make(map[string]bool)
	deduped := make([]time.Time, 0, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		day := utils.DayKey(d)
		if seen[day] {
			continue
		}
		seen[day] = true
		deduped = append(deduped, utils.StartOfDay(d))
	}
	if removed := len(h.CompletedDates) - len(deduped); removed > 0 {
		record("removed %d duplicate completion(s)", removed)
	}
	h.CompletedDates = deduped

	if h.IsCounter() {
		for _, day := range sortedKeys(h.DailyCounters) {
			if h.DailyCounters[day] > 0 && !seen[day] {
				d, err := utils.ParseDateInLocation(day, locationOf(h))
				if err != nil {
					continue
				}
				h.AddCompletedDate(d)
				seen[day] = true
				record("marked %s completed to match its count", day)
			}
		}
		for _, d := range h.CompletedDates {
			day := utils.DayKey(d)
			if h.DailyCounters[day] <= 0 {
				h.SetCounterValue(1, d)
				record("set count of %s to 1 to match its completion", day)
			}
		}
		before := len(h.DailyCounters)
		h.CleanupDailyCounters()
		if removed := before - len(h.DailyCounters); removed > 0 {
			record("removed %d empty counter(s)", removed)
		}
	}

	kept := h.DurationHistory[:0]
	for _, d := range h.DurationHistory {
		if !d.Valid() {
			record("removed empty duration interval starting %s", utils.DayKey(d.EffectiveDate))
			continue
		}
		kept = append(kept, d)
	}
	h.DurationHistory = kept
	if !sort.SliceIsSorted(h.DurationHistory, func(i, j int) bool {
		return h.DurationHistory[i].EffectiveDate.Before(h.DurationHistory[j].EffectiveDate)
	}) {
		sort.SliceStable(h.DurationHistory, func(i, j int) bool {
			return h.DurationHistory[i].EffectiveDate.Before(h.DurationHistory[j].EffectiveDate)
		})
		record("sorted duration history by effective date")
	}

	return actions
}

// durationsOverlap reports whether two valid half-open intervals intersect
func durationsOverlap(a, b models.HabitDuration) bool {
	return endBefore(b.EffectiveDate, a.ExpirationDate) && endBefore(a.EffectiveDate, b.ExpirationDate)
}

// endBefore reports whether start lies before the possibly open end
func endBefore(start time.Time, end *time.Time) bool {
	return end == nil || start.Before(*end)
}

func locationOf(h *models.Habit) *time.Location {
	if len(h.CompletedDates) > 0 {
		return h.CompletedDates[0].Location()
	}
	return h.CreationDate.Location()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
