package snowsql

import (
	"github.com/pingcap-inc/sfadapter/pkg/relation"
	"github.com/pingcap/errors"
	"gitlab.com/tymonx/go-formatter/formatter"
)

const currentWarehouseQuery = "SELECT CURRENT_WAREHOUSE() AS warehouse"

// GenUseWarehouse renders the statement switching the session's warehouse.
// Warehouse names are used verbatim, unquoted.
func GenUseWarehouse(warehouse string) (string, error) {
	sql, err := formatter.Format(`USE WAREHOUSE {warehouse}`, formatter.Named{
		"warehouse": warehouse,
	})
	if err != nil {
		return "", errors.Trace(err)
	}
	return sql, nil
}

// GenColumnsInRelation renders the statement listing the columns of rel in
// ordinal order. DESCRIBE TABLE reports each type with its size and precision,
// e.g. VARCHAR(100), NUMBER(38,0), BINARY(10), TIMESTAMP_NTZ(9).
// Unquoted parts are left for Snowflake to fold.
func GenColumnsInRelation(rel relation.Relation, quoting relation.QuotingConfig) (string, error) {
	if rel.Identifier == "" {
		return "", errors.Errorf("relation %s has no identifier", rel)
	}
	// db.table would be read as schema.table
	if rel.Database != "" && rel.Schema == "" {
		return "", errors.Errorf("relation %s has a database but no schema", rel)
	}

	sql, err := formatter.Format(`DESCRIBE TABLE {relation}`, formatter.Named{
		"relation": rel.Render(quoting),
	})
	if err != nil {
		return "", errors.Trace(err)
	}
	return sql, nil
}
