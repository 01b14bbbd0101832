package cmd

import (
	"context"
	"os"

	"github.com/pingcap-inc/sfadapter/pkg/metrics"
	"github.com/pingcap-inc/sfadapter/pkg/relation"
	"github.com/pingcap-inc/sfadapter/pkg/snowsql"
	"github.com/pingcap-inc/sfadapter/pkg/utils"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const passwordEnv = "SNOWFLAKE_PASSWORD"

// connectionFlags are shared by every command that talks to Snowflake.
type connectionFlags struct {
	snowflake snowsql.SnowflakeConfig
	quoting   relation.QuotingConfig
	logFile   string
	logLevel  string
}

func (f *connectionFlags) bind(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolP("help", "", false, "help for this command")
	cmd.Flags().StringVar(&f.snowflake.AccountId, "snowflake.account-id", "", "snowflake account id: <organization>-<account>")
	cmd.Flags().StringVar(&f.snowflake.Warehouse, "snowflake.warehouse", "COMPUTE_WH", "default warehouse of the run")
	cmd.Flags().StringVar(&f.snowflake.User, "snowflake.user", "", "snowflake user")
	cmd.Flags().StringVar(&f.snowflake.Pass, "snowflake.pass", "", "snowflake password, falls back to $"+passwordEnv)
	cmd.Flags().StringVar(&f.snowflake.Role, "snowflake.role", "", "snowflake role")
	cmd.Flags().StringVar(&f.snowflake.Database, "snowflake.database", "", "snowflake database")
	cmd.Flags().StringVar(&f.snowflake.Schema, "snowflake.schema", "", "snowflake schema")
	cmd.Flags().BoolVar(&f.quoting.Database, "quoting.database", false, "database names are quoted")
	cmd.Flags().BoolVar(&f.quoting.Schema, "quoting.schema", false, "schema names are quoted")
	cmd.Flags().BoolVar(&f.quoting.Identifier, "quoting.identifier", false, "relation names are quoted")
	cmd.Flags().StringVar(&f.logFile, "log.file", "", "log file path")
	cmd.Flags().StringVar(&f.logLevel, "log.level", "info", "log level")

	cmd.MarkFlagRequired("snowflake.account-id")
	cmd.MarkFlagRequired("snowflake.user")
}

func (f *connectionFlags) initLogger() (*zap.Logger, error) {
	logger, props, err := log.InitLogger(&log.Config{
		Level: f.logLevel,
		File:  log.FileLogConfig{Filename: f.logFile},
	})
	if err != nil {
		return nil, errors.Annotate(err, "Failed to init logger")
	}
	log.ReplaceGlobals(logger, props)
	return logger, nil
}

func (f *connectionFlags) resolvePassword() {
	if f.snowflake.Pass == "" {
		f.snowflake.Pass = os.Getenv(passwordEnv)
	}
}

// adapterSession is an adapter bound to one pinned Snowflake session.
type adapterSession struct {
	Adapter  *snowsql.SnowflakeAdapter
	Executor *snowsql.Session
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	close    func()
}

func (s *adapterSession) Close() {
	s.close()
	logMetrics(s.Logger, s.Metrics)
}

// logMetrics reports the counters of a finished command, which would
// otherwise be lost when the process exits.
func logMetrics(logger *zap.Logger, m *metrics.Metrics) {
	snapshot, err := m.Snapshot()
	if err != nil {
		logger.Warn("Failed to gather metrics", zap.Error(err))
		return
	}
	keys := maps.Keys(snapshot)
	slices.Sort(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, zap.Float64(key, snapshot[key]))
	}
	logger.Info("Adapter metrics", fields...)
}

func (f *connectionFlags) open(ctx context.Context) (*adapterSession, error) {
	logger, err := f.initLogger()
	if err != nil {
		return nil, errors.Trace(err)
	}
	f.resolvePassword()
	db, err := f.snowflake.OpenDB()
	if err != nil {
		return nil, errors.Trace(err)
	}
	m := metrics.NewMetrics()
	session, err := snowsql.NewSession(ctx, db, logger, m)
	if err != nil {
		db.Close()
		return nil, errors.Trace(err)
	}
	adapter := snowsql.NewSnowflakeAdapter(session, f.snowflake.RunConfig(f.quoting),
		snowsql.WithLogger(logger),
		snowsql.WithMetrics(m))
	return &adapterSession{
		Adapter:  adapter,
		Executor: session,
		Metrics:  m,
		Logger:   logger,
		close: func() {
			if err := session.Close(); err != nil {
				logger.Warn("Failed to close session", zap.Error(err))
			}
			db.Close()
		},
	}, nil
}

func parseRelation(fqn string) (relation.Relation, error) {
	rel, ok := utils.SplitRelationFQN(fqn)
	if !ok {
		return relation.Relation{}, errors.Errorf("invalid relation %q, expected [[database.]schema.]identifier", fqn)
	}
	return rel, nil
}
