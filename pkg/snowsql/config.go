package snowsql

import (
	"database/sql"

	"github.com/pingcap-inc/sfadapter/pkg/relation"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/snowflakedb/gosnowflake"
	"go.uber.org/zap"
)

type SnowflakeConfig struct {
	AccountId string
	Warehouse string
	User      string
	Pass      string
	Role      string
	Database  string
	Schema    string
}

// RunConfig is the run-scoped, read-only configuration of the adapter.
type RunConfig struct {
	Quoting relation.QuotingConfig
	// Warehouse is the run's default warehouse.
	Warehouse string
}

// RunConfig derives the adapter's run configuration from the connection config.
func (config *SnowflakeConfig) RunConfig(quoting relation.QuotingConfig) RunConfig {
	return RunConfig{Quoting: quoting, Warehouse: config.Warehouse}
}

func (config *SnowflakeConfig) gosnowflakeConfig() *gosnowflake.Config {
	return &gosnowflake.Config{
		Account:   config.AccountId,
		User:      config.User,
		Password:  config.Pass,
		Role:      config.Role,
		Database:  config.Database,
		Schema:    config.Schema,
		Warehouse: config.Warehouse,
	}
}

// DSN renders the gosnowflake data source name of the config.
func (config *SnowflakeConfig) DSN() (string, error) {
	if config.AccountId == "" {
		return "", errors.New("Snowflake account id is empty")
	}
	dsn, err := gosnowflake.DSN(config.gosnowflakeConfig())
	if err != nil {
		return "", errors.Annotate(err, "Failed to generate Snowflake DSN")
	}
	return dsn, nil
}

/// Implement the Config interface.

// Open a connection pool to Snowflake.
func (config *SnowflakeConfig) OpenDB() (*sql.DB, error) {
	dsn, err := config.DSN()
	if err != nil {
		return nil, errors.Trace(err)
	}
	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, errors.Annotate(err, "Failed to open Snowflake connection")
	}
	// make sure the connection is available
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, errors.Annotate(err, "Failed to ping Snowflake")
	}
	log.Info("Snowflake connection established",
		zap.String("account", config.AccountId),
		zap.String("warehouse", config.Warehouse),
		zap.String("database", config.Database),
		zap.String("schema", config.Schema))
	return db, nil
}
