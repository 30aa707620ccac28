package export

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
)

var eastern = time.FixedZone("UTC-5", -5*60*60)

func sampleHabits() []models.Habit {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, eastern) }
	stop := day(10)

	counter := models.Habit{
		ID:           "c1",
		Title:        "Water",
		Color:        "teal",
		Type:         models.HabitTypeCounter,
		CreationDate: time.Date(2026, 3, 1, 7, 30, 0, 0, eastern),
	}
	counter.SetCounterValue(3, day(2))
	counter.SetCounterValue(1, day(3))
	counter.DurationHistory = []models.HabitDuration{
		{Minutes: 5, EffectiveDate: day(1), ExpirationDate: &stop},
		{Minutes: 10, EffectiveDate: stop},
	}

	boolean := models.Habit{
		ID:             "b1",
		Title:          "Read",
		Motivation:     "one chapter",
		Type:           models.HabitTypeBoolean,
		IsWeekly:       true,
		CreationDate:   day(1),
		CompletedDates: []time.Time{day(1), day(8)},
	}
	return []models.Habit{counter, boolean}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, eastern)
	data, err := Encode(sampleHabits(), now)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	habits, err := Decode(data, eastern)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(habits))
	}

	counter := habits[0]
	if counter.Type != models.HabitTypeCounter || counter.Color != "teal" {
		t.Errorf("counter fields differ: %+v", counter)
	}
	if !counter.CreationDate.Equal(time.Date(2026, 3, 1, 7, 30, 0, 0, eastern)) {
		t.Errorf("creation date = %v", counter.CreationDate)
	}
	if counter.DailyCounters["2026-03-02"] != 3 || counter.DailyCounters["2026-03-03"] != 1 {
		t.Errorf("counters differ: %v", counter.DailyCounters)
	}
	if got := counter.TotalTimeSpent(); got != 20 {
		t.Errorf("expected 20 minutes spent, got %d", got)
	}
	if len(counter.DurationHistory) != 2 || counter.DurationHistory[1].ExpirationDate != nil {
		t.Errorf("duration history differs: %+v", counter.DurationHistory)
	}

	boolean := habits[1]
	if !boolean.IsWeekly || boolean.Motivation != "one chapter" {
		t.Errorf("boolean fields differ: %+v", boolean)
	}
	if boolean.Color != "blue" {
		t.Errorf("expected default color on export, got %q", boolean.Color)
	}
	if len(boolean.CompletedDates) != 2 || !boolean.IsCompleted(time.Date(2026, 3, 8, 12, 0, 0, 0, eastern)) {
		t.Errorf("completed dates differ: %v", boolean.CompletedDates)
	}
}

func TestEncodeDocumentShape(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	data, err := Encode(sampleHabits()[:1], now)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if raw["version"] != "1.0" {
		t.Errorf("version = %v", raw["version"])
	}
	if raw["exportDate"] != float64(now.Unix()) {
		t.Errorf("exportDate = %v, want %d", raw["exportDate"], now.Unix())
	}

	habit := raw["habits"].([]any)[0].(map[string]any)
	counters := habit["dailyCounters"].(map[string]any)
	// 2026-03-02 00:00 at UTC-5
	if counters["1772427600.0"] != float64(3) {
		t.Errorf("expected epoch-keyed counter, got %v", counters)
	}
	durations := habit["durationHistory"].([]any)
	if last := durations[1].(map[string]any); last["expirationDate"] != nil {
		t.Errorf("expected null expiration, got %v", last["expirationDate"])
	}
}

func TestDecodeForeignDocument(t *testing.T) {
	data := []byte(`{
		"version": "1.0",
		"exportDate": 1735776000.25,
		"habits": [{
			"id": "A1B2",
			"title": "Stretch",
			"motivation": "",
			"color": "orange",
			"type": "mystery",
			"isWeekly": false,
			"creationDate": 1735689600,
			"completedDates": [1735732800.5],
			"dailyCounters": {"1735689600.0": 2, "1735689600": 1},
			"durationHistory": [{"minutes": 12, "effectiveDate": 1735689600, "expirationDate": null}]
		}]
	}`)

	habits, err := Decode(data, time.UTC)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	h := habits[0]
	if h.Type != models.HabitTypeBoolean {
		t.Errorf("unknown type should fall back to boolean, got %s", h.Type)
	}
	want := time.Date(2025, 1, 1, 12, 0, 0, 500000000, time.UTC)
	if !h.CompletedDates[0].Equal(want) {
		t.Errorf("completed date = %v, want %v", h.CompletedDates[0], want)
	}
	if h.DailyCounters["2025-01-01"] != 3 {
		t.Errorf("expected both keys of the same day to be summed, got %v", h.DailyCounters)
	}
	if h.EffectiveDuration(want) != 12 {
		t.Errorf("expected 12 minutes in effect, got %d", h.EffectiveDuration(want))
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"unsupported version", `{"version": "2.0", "habits": []}`, ErrUnsupportedVersion},
		{"missing version", `{"habits": []}`, ErrUnsupportedVersion},
		{"malformed json", `{"version": `, nil},
		{"missing id", `{"version": "1.0", "habits": [{"title": "x"}]}`, nil},
		{"bad counter key", `{"version": "1.0", "habits": [{"id": "x", "dailyCounters": {"monday": 1}}]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), time.UTC)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
