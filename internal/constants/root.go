package constants

import "time"

const (
	AppName            = "habitgarden"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitgarden/garden.db"
	Version            = "v0.3.0"

	// GuestUserID namespaces local data for anonymous use
	GuestUserID = "guest"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MonthFormat is the layout of Habit.CreatedMonth (YYYY-MM)
	MonthFormat = "2006-01"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "garden-"
	BackupFileSuffix = ".db"

	// Environment variables
	EnvDBConnection = "GARDEN_DB_CONNECTION"
	EnvAPIURL       = "GARDEN_API_URL"

	DefaultRemoteTimeout = 15 * time.Second
)
