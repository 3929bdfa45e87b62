package constants

const (
	// Collection names used to build "<collection>_<userId>" keys
	CollectionHabits          = "habits"
	CollectionCompletions     = "completions"
	CollectionUserPreferences = "userPreferences"

	// CurrentUserKey holds the email of the signed-in account on this device
	CurrentUserKey = "currentUser"

	// Server-side account records are stored under "user_<email>"
	CollectionUsers = "user"

	// SessionKeyringPrefix prefixes keyring entries holding bearer tokens
	SessionKeyringPrefix = "session:"
)
