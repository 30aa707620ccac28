package models

import "time"

// Settings represents application-wide settings
type Settings struct {
	Timezone             string     `json:"timezone"`              // IANA timezone name, or "Local" for the system timezone
	AutoExportEnabled    bool       `json:"auto_export_enabled"`   // whether the weekly export runs automatically
	ExportDir            string     `json:"export_dir"`            // directory exports are written to, empty for the default
	MaxExports           int        `json:"max_exports"`           // number of automatic exports kept before rotating
	NotificationsEnabled bool       `json:"notifications_enabled"` // whether the tray app is notified after an export
	LastExportAt         *time.Time `json:"last_export_at,omitempty"`
}
