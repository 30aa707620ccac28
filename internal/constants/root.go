package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitkit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitkit/habitkit.db"
	Version            = "v0.3.0"

	// ConnectionEnvVar holds a PostgreSQL connection string when one is not passed on the command line
	ConnectionEnvVar = "HABITKIT_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitkit-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "habitkit-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitkit"
	TrayAppExecutable      = "habitkit-tray"

	// Session States
	StateHabits SessionState = iota
	StateDetail
	StateAddHabit
	StateConfirmDelete
)
