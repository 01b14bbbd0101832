package snowsql

import (
	"context"

	"github.com/pingcap-inc/sfadapter/pkg/coreinterfaces"
	"github.com/pingcap-inc/sfadapter/pkg/relation"
	"github.com/pingcap/errors"
)

const GetColumnsInRelationMacroName = "snowflake__get_columns_in_relation"

// Macro is a named SQL procedure run by SQLMacros.
type Macro func(ctx context.Context, exec coreinterfaces.QueryExecutor, quoting relation.QuotingConfig, kwargs map[string]any) ([]coreinterfaces.Column, error)

// SQLMacros is the default MacroDispatcher. It runs Snowflake macros by
// their logical name against one QueryExecutor.
type SQLMacros struct {
	exec    coreinterfaces.QueryExecutor
	quoting relation.QuotingConfig
	macros  map[string]Macro
}

func NewSQLMacros(exec coreinterfaces.QueryExecutor, quoting relation.QuotingConfig) *SQLMacros {
	return &SQLMacros{
		exec:    exec,
		quoting: quoting,
		macros: map[string]Macro{
			GetColumnsInRelationMacroName: getColumnsInRelation,
		},
	}
}

// Register adds or replaces a macro.
func (m *SQLMacros) Register(name string, macro Macro) {
	m.macros[name] = macro
}

func (m *SQLMacros) ExecuteMacro(ctx context.Context, name string, kwargs map[string]any) ([]coreinterfaces.Column, error) {
	macro, ok := m.macros[name]
	if !ok {
		return nil, ErrUnknownMacro.GenWithStackByArgs(name)
	}
	return macro(ctx, m.exec, m.quoting, kwargs)
}

func getColumnsInRelation(ctx context.Context, exec coreinterfaces.QueryExecutor, quoting relation.QuotingConfig, kwargs map[string]any) ([]coreinterfaces.Column, error) {
	rel, ok := kwargs["relation"].(relation.Relation)
	if !ok {
		return nil, ErrMacroArgument.GenWithStackByArgs(GetColumnsInRelationMacroName, "relation is required")
	}
	sql, err := GenColumnsInRelation(rel, quoting)
	if err != nil {
		return nil, ErrMacroArgument.GenWithStackByArgs(GetColumnsInRelationMacroName, err.Error())
	}
	_, table, err := exec.Execute(ctx, sql, true)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if table == nil {
		return nil, ErrCatalogColumnMissing.GenWithStackByArgs("name", []string(nil))
	}

	nameIdx := table.ColumnIndexFold("name")
	if nameIdx < 0 {
		return nil, ErrCatalogColumnMissing.GenWithStackByArgs("name", table.ColumnNames)
	}
	typeIdx := table.ColumnIndexFold("type")
	if typeIdx < 0 {
		return nil, ErrCatalogColumnMissing.GenWithStackByArgs("type", table.ColumnNames)
	}

	columns := make([]coreinterfaces.Column, 0, len(table.Rows))
	for _, row := range table.Rows {
		name, _ := asString(row[nameIdx])
		dataType, _ := asString(row[typeIdx])
		columns = append(columns, coreinterfaces.Column{Name: name, DataType: dataType})
	}
	return columns, nil
}

// asString converts a scanned value to a string. NULL reports false.
func asString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case []byte:
		return string(val), true
	default:
		return "", false
	}
}
