package export

import (
	"testing"
	"time"
)

func TestNextRun(t *testing.T) {
	tests := []struct {
		name  string
		after time.Time
		want  time.Time
	}{
		{
			name:  "sunday afternoon",
			after: time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
			want:  time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
		},
		{
			name:  "monday before the slot",
			after: time.Date(2026, 3, 16, 8, 59, 0, 0, time.UTC),
			want:  time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
		},
		{
			name:  "exactly at the slot",
			after: time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
			want:  time.Date(2026, 3, 23, 9, 0, 0, 0, time.UTC),
		},
		{
			name:  "monday evening",
			after: time.Date(2026, 3, 16, 20, 0, 0, 0, time.UTC),
			want:  time.Date(2026, 3, 23, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextRun(tt.after); !got.Equal(tt.want) {
				t.Errorf("NextRun() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDue(t *testing.T) {
	lastRun := time.Date(2026, 3, 16, 9, 5, 0, 0, time.UTC)

	tests := []struct {
		name    string
		lastRun *time.Time
		now     time.Time
		want    bool
	}{
		{"never exported", nil, time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC), true},
		{"same week", &lastRun, time.Date(2026, 3, 22, 23, 0, 0, 0, time.UTC), false},
		{"next slot reached", &lastRun, time.Date(2026, 3, 23, 9, 0, 0, 0, time.UTC), true},
		{"several weeks late", &lastRun, time.Date(2026, 4, 8, 10, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Due(tt.lastRun, tt.now); got != tt.want {
				t.Errorf("Due() = %v, want %v", got, tt.want)
			}
		})
	}
}
