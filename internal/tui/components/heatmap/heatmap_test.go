package heatmap

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitkit/internal/models"
)

// Wednesday
var testNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func TestShade(t *testing.T) {
	tests := []struct {
		intensity float64
		want      string
	}{
		{0, "·"},
		{0.2, "░"},
		{0.4, "░"},
		{0.6, "▒"},
		{0.8, "▓"},
		{1, "█"},
	}
	for _, tt := range tests {
		if got := Shade(tt.intensity); got != tt.want {
			t.Errorf("Shade(%v) = %q, want %q", tt.intensity, got, tt.want)
		}
	}
}

func TestStartDate(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		weeks int
		want  time.Time
	}{
		{"single week from wednesday", testNow, 1, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"two weeks", testNow, 2, time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)},
		{"sunday belongs to the week before", time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC), 1, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"monday opens its own week", time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), 1, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartDate(tt.now, tt.weeks); !got.Equal(tt.want) {
				t.Errorf("StartDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	h := &models.Habit{
		ID:           "h1",
		Title:        "Pushups",
		Type:         models.HabitTypeCounter,
		CreationDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	h.SetCounterValue(5, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	h.SetCounterValue(2, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))

	out := Render(h, testNow, 1)

	lines := strings.Split(out, "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(lines))
	}
	if got := strings.Count(out, "█"); got != 1 {
		t.Errorf("expected 1 full cell, got %d", got)
	}
	if got := strings.Count(out, "░"); got != 1 {
		t.Errorf("expected 1 light cell, got %d", got)
	}
	// Wednesday is empty; Thursday to Sunday are still ahead
	if got := strings.Count(out, "·"); got != 1 {
		t.Errorf("expected 1 empty cell, got %d", got)
	}
	if !strings.HasPrefix(stripANSI(lines[0]), "Mon") {
		t.Errorf("expected first row to be labelled Mon, got %q", lines[0])
	}
}

func TestColorFor(t *testing.T) {
	if got := ColorFor("teal"); got != lipgloss.Color("37") {
		t.Errorf("ColorFor(teal) = %v", got)
	}
	if got := ColorFor("unknown"); got != ColorFor("blue") {
		t.Errorf("expected unknown colors to fall back to blue, got %v", got)
	}
}

// stripANSI drops ANSI sequences so assertions work with or without a color profile
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && r == 'm':
			inEscape = false
		case !inEscape:
			b.WriteRune(r)
		}
	}
	return b.String()
}
