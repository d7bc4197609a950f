package config

const (
	// DefaultDatabasePath is the default path for the local storage database
	DefaultDatabasePath = "./polyglottos.db"
)
