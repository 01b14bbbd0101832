package coreinterfaces

import "database/sql"

/// Config is the interface for configuration

type Config interface {
	// OpenDB opens a connection pool to the database
	OpenDB() (*sql.DB, error)
}
