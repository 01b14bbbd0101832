package snowsql

import (
	"context"

	"github.com/pingcap-inc/sfadapter/pkg/coreinterfaces"
	"github.com/pingcap-inc/sfadapter/pkg/metrics"
	"github.com/pingcap-inc/sfadapter/pkg/relation"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// AdapterSpecificConfigs are the model config keys only Snowflake understands.
var AdapterSpecificConfigs = []string{"transient", "cluster_by", "automatic_clustering"}

// SnowflakeAdapter serves the orchestrator for one database session.
// It implements the coreinterfaces.SQLAdapter interface.
type SnowflakeAdapter struct {
	exec       coreinterfaces.QueryExecutor
	macros     coreinterfaces.MacroDispatcher
	baseFilter coreinterfaces.CatalogFilter
	config     RunConfig
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

var _ coreinterfaces.SQLAdapter = (*SnowflakeAdapter)(nil)

type Option func(*SnowflakeAdapter)

// WithLogger sets the adapter's logger; the default is the global one.
func WithLogger(logger *zap.Logger) Option {
	return func(a *SnowflakeAdapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *SnowflakeAdapter) {
		a.metrics = m
	}
}

// WithMacros replaces the default SQLMacros dispatcher.
func WithMacros(macros coreinterfaces.MacroDispatcher) Option {
	return func(a *SnowflakeAdapter) {
		a.macros = macros
	}
}

// WithCatalogFilter replaces the default SchemaCatalogFilter.
func WithCatalogFilter(filter coreinterfaces.CatalogFilter) Option {
	return func(a *SnowflakeAdapter) {
		a.baseFilter = filter
	}
}

func NewSnowflakeAdapter(exec coreinterfaces.QueryExecutor, config RunConfig, opts ...Option) *SnowflakeAdapter {
	a := &SnowflakeAdapter{
		exec:       exec,
		macros:     NewSQLMacros(exec, config.Quoting),
		baseFilter: SchemaCatalogFilter{},
		config:     config,
		logger:     log.L(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CurrentTimestampExpression is the SQL expression of the current time.
func (a *SnowflakeAdapter) CurrentTimestampExpression() string {
	return "CURRENT_TIMESTAMP()"
}

// ServerTimestamp evaluates CurrentTimestampExpression on the warehouse.
func (a *SnowflakeAdapter) ServerTimestamp(ctx context.Context) (any, error) {
	_, table, err := a.exec.Execute(ctx, "SELECT "+a.CurrentTimestampExpression(), true)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if table == nil || len(table.Rows) == 0 || len(table.Rows[0]) == 0 {
		return nil, errors.New("CURRENT_TIMESTAMP() returned no rows")
	}
	return table.Rows[0][0], nil
}

// MakeMatchKwargs normalizes relation parts with the run's quoting config.
func (a *SnowflakeAdapter) MakeMatchKwargs(database, schema, identifier string) relation.MatchKwargs {
	return relation.MakeMatchKwargs(database, schema, identifier, a.config.Quoting)
}

// GetColumnsInRelation returns the live columns of rel in database order.
// Every call queries the warehouse.
func (a *SnowflakeAdapter) GetColumnsInRelation(ctx context.Context, rel relation.Relation) ([]coreinterfaces.Column, error) {
	columns, err := a.macros.ExecuteMacro(ctx, GetColumnsInRelationMacroName, map[string]any{"relation": rel})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return columns, nil
}
