package coreinterfaces

import (
	"context"

	"github.com/pingcap-inc/sfadapter/pkg/relation"
)

/// QueryExecutor is the only way the adapter talks to the warehouse.
/// It owns connection management, retries and auth.
/// One QueryExecutor is bound to one database session.

type QueryExecutor interface {
	// Execute runs sql. When fetch is true the result set is returned,
	// and the row count is the number of fetched rows; otherwise it is
	// the number of affected rows.
	Execute(ctx context.Context, sql string, fetch bool) (int64, *Table, error)
}

/// MacroDispatcher resolves a dialect-specific SQL template by its logical
/// name and runs it.

type MacroDispatcher interface {
	ExecuteMacro(ctx context.Context, name string, kwargs map[string]any) ([]Column, error)
}

/// CatalogFilter keeps the catalog rows that belong to the manifest.

type CatalogFilter interface {
	FilterCatalogTable(table *Table, manifest Manifest) (*Table, error)
}

/// SQLAdapter is what the orchestrator calls during a model's build.
/// Any data warehouse adapter should implement this interface.

type SQLAdapter interface {
	// GetColumnsInRelation returns the live columns of rel, in database order
	GetColumnsInRelation(ctx context.Context, rel relation.Relation) ([]Column, error)
	// HasSchemaChanged compares the columns of two relations
	HasSchemaChanged(ctx context.Context, reference, target relation.Relation) (bool, error)
	// MakeMatchKwargs normalizes relation parts for matching
	MakeMatchKwargs(database, schema, identifier string) relation.MatchKwargs
	// PreModelHook prepares the session for a model, returning what PostModelHook needs to restore
	PreModelHook(ctx context.Context, config ModelConfig) (*WarehouseToken, error)
	// PostModelHook restores the session after a model
	PostModelHook(ctx context.Context, config ModelConfig, token *WarehouseToken) error
	// FilterCatalogTable filters raw catalog output down to the manifest
	FilterCatalogTable(table *Table, manifest Manifest) (*Table, error)
	// CurrentTimestampExpression is the SQL expression for the current time
	CurrentTimestampExpression() string
}
