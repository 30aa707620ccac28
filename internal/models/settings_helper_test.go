package models

import (
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
)

func TestSettingsMapRoundTrip(t *testing.T) {
	last := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	in := Settings{
		Timezone:             "Europe/London",
		AutoExportEnabled:    true,
		ExportDir:            "/tmp/exports",
		MaxExports:           4,
		NotificationsEnabled: false,
		LastExportAt:         &last,
	}

	out, err := MapToSettings(SettingsToMap(in))
	if err != nil {
		t.Fatalf("failed to parse settings: %v", err)
	}
	if out.Timezone != in.Timezone || out.AutoExportEnabled != in.AutoExportEnabled ||
		out.ExportDir != in.ExportDir || out.MaxExports != in.MaxExports ||
		out.NotificationsEnabled != in.NotificationsEnabled {
		t.Errorf("settings mismatch: got %+v, want %+v", out, in)
	}
	if out.LastExportAt == nil || !out.LastExportAt.Equal(last) {
		t.Errorf("expected last export %v, got %v", last, out.LastExportAt)
	}
}

func TestMapToSettings_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data map[string]string
	}{
		{name: "max exports", data: map[string]string{constants.SettingMaxExports: "many"}},
		{name: "last export", data: map[string]string{constants.SettingLastExportAt: "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := MapToSettings(tt.data); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestApplyDefaultSettings(t *testing.T) {
	s := Settings{}
	ApplyDefaultSettings(&s)
	if s.Timezone != constants.DefaultTimezone {
		t.Errorf("expected default timezone, got %q", s.Timezone)
	}
	if s.MaxExports != constants.DefaultMaxExports {
		t.Errorf("expected default max exports, got %d", s.MaxExports)
	}

	d := DefaultSettings()
	if d.NotificationsEnabled != constants.DefaultNotificationsEnabled || d.LastExportAt != nil {
		t.Errorf("unexpected defaults: %+v", d)
	}
}
