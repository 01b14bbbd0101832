package snowsql

import (
	"strings"

	"github.com/pingcap-inc/sfadapter/pkg/coreinterfaces"
	"github.com/pingcap/errors"
)

// FilterCatalogTable lower-cases the column names of a raw catalog table and
// hands it to the base catalog filter. QUOTED_IDENTIFIERS_IGNORE_CASE lets
// Snowflake report the catalog columns in either case.
func (a *SnowflakeAdapter) FilterCatalogTable(table *coreinterfaces.Table, manifest coreinterfaces.Manifest) (*coreinterfaces.Table, error) {
	lowered := make([]string, len(table.ColumnNames))
	for i, name := range table.ColumnNames {
		lowered[i] = strings.ToLower(name)
	}
	renamed, err := table.Rename(lowered)
	if err != nil {
		return nil, errors.Trace(err)
	}
	filtered, err := a.baseFilter.FilterCatalogTable(renamed, manifest)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return filtered, nil
}

// SchemaCatalogFilter keeps the catalog rows of the schemas a manifest uses.
// Database and schema names are compared case-insensitively.
// It implements the coreinterfaces.CatalogFilter interface.
type SchemaCatalogFilter struct{}

func (SchemaCatalogFilter) FilterCatalogTable(table *coreinterfaces.Table, manifest coreinterfaces.Manifest) (*coreinterfaces.Table, error) {
	dbIdx := table.ColumnIndex("table_database")
	if dbIdx < 0 {
		return nil, ErrCatalogColumnMissing.GenWithStackByArgs("table_database", table.ColumnNames)
	}
	schemaIdx := table.ColumnIndex("table_schema")
	if schemaIdx < 0 {
		return nil, ErrCatalogColumnMissing.GenWithStackByArgs("table_schema", table.ColumnNames)
	}

	used := manifest.UsedSchemas()
	filtered := &coreinterfaces.Table{
		ColumnNames: append([]string(nil), table.ColumnNames...),
		Rows:        make([][]any, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		database, _ := asString(row[dbIdx])
		schema, _ := asString(row[schemaIdx])
		key := coreinterfaces.SchemaRef{Database: strings.ToLower(database), Schema: strings.ToLower(schema)}
		if _, ok := used[key]; ok {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	return filtered, nil
}
