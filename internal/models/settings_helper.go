package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingAutoExportEnabled:
			settings.AutoExportEnabled = value == "true"
		case constants.SettingExportDir:
			settings.ExportDir = value
		case constants.SettingMaxExports:
			if _, err := fmt.Sscanf(value, "%d", &settings.MaxExports); err != nil {
				return Settings{}, fmt.Errorf("parsing max_exports: %w", err)
			}
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingLastExportAt:
			if value == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing last_export_at: %w", err)
			}
			settings.LastExportAt = &t
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	lastExport := ""
	if settings.LastExportAt != nil {
		lastExport = settings.LastExportAt.Format(time.RFC3339)
	}
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingAutoExportEnabled:    fmt.Sprintf("%v", settings.AutoExportEnabled),
		constants.SettingExportDir:            settings.ExportDir,
		constants.SettingMaxExports:           fmt.Sprintf("%d", settings.MaxExports),
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingLastExportAt:         lastExport,
	}
}

// DefaultSettings returns the settings written by init.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		AutoExportEnabled:    constants.DefaultAutoExportEnabled,
		ExportDir:            constants.DefaultExportDir,
		MaxExports:           constants.DefaultMaxExports,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.MaxExports == 0 {
		settings.MaxExports = constants.DefaultMaxExports
	}
}
