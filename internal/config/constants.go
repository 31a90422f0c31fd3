package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default SQLite file for the catalog
	DefaultDatabasePath = "./library-catalog.db"
)
