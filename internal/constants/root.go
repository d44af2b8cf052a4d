package constants

const (
	AppName            = "tracker"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/tracker/tracker.db"
	DefaultConfigFile  = "~/.config/tracker/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the calendar-day key used for completion records (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// PinnedCategoryTitle is the synthetic category pinned trackers are moved into.
	// Users cannot create a category with this title.
	PinnedCategoryTitle = "Pinned"

	// Tracker types as persisted
	TrackerTypeHabit          = "habit"
	TrackerTypeIrregularEvent = "irregularEvent"

	// Filter modes
	FilterAll         = "all"
	FilterToday       = "today"
	FilterCompleted   = "completed"
	FilterUncompleted = "uncompleted"

	// Setting keys
	SettingChosenFilter = "chosen_filter"

	// Default setting values
	DefaultFilter   = FilterToday
	DefaultTimezone = "Local"

	// Environment variables
	EnvStore        = "TRACKER_STORE"
	EnvTimezone     = "TRACKER_TIMEZONE"
	EnvLogDir       = "TRACKER_LOG_DIR"
	EnvDebug        = "TRACKER_DEBUG"
	EnvDBConnection = "TRACKER_DB_CONNECTION"
)
