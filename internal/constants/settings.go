package constants

const (
	SettingTimezone             = "timezone"
	SettingAutoExportEnabled    = "auto_export_enabled"
	SettingExportDir            = "export_dir"
	SettingMaxExports           = "max_exports"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingLastExportAt         = "last_export_at"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultAutoExportEnabled    = false
	DefaultExportDir            = "" // empty means <configdir>/exports
	DefaultMaxExports           = 12
	DefaultNotificationsEnabled = true

	// Export constants
	ExportVersion    = "1.0"
	ExportDirName    = "exports"
	ExportFilePrefix = "habits-"
	ExportFileSuffix = ".json"
	ExportHour       = 9 // weekly export runs Mondays at 09:00
)
