package snowsql

import (
	"testing"

	"github.com/pingcap-inc/sfadapter/pkg/relation"
	"github.com/stretchr/testify/require"
)

func TestGenUseWarehouse(t *testing.T) {
	sql, err := GenUseWarehouse("TRANSFORM_WH")
	require.NoError(t, err)
	require.Equal(t, "USE WAREHOUSE TRANSFORM_WH", sql)
}

func TestGenColumnsInRelation(t *testing.T) {
	sql, err := GenColumnsInRelation(relation.Relation{Database: "analytics", Schema: "dbt", Identifier: "orders"}, relation.QuotingConfig{})
	require.NoError(t, err)
	require.Equal(t, "DESCRIBE TABLE analytics.dbt.orders", sql)

	sql, err = GenColumnsInRelation(relation.Relation{Database: "Analytics", Schema: "dbt", Identifier: `My"Table`}, relation.QuotingConfig{Database: true, Identifier: true})
	require.NoError(t, err)
	require.Equal(t, `DESCRIBE TABLE "Analytics".dbt."My""Table"`, sql)

	sql, err = GenColumnsInRelation(relation.Relation{Identifier: "orders"}, relation.QuotingConfig{})
	require.NoError(t, err)
	require.Equal(t, "DESCRIBE TABLE orders", sql)

	_, err = GenColumnsInRelation(relation.Relation{Schema: "dbt"}, relation.QuotingConfig{})
	require.Error(t, err)
	_, err = GenColumnsInRelation(relation.Relation{Database: "analytics", Identifier: "orders"}, relation.QuotingConfig{})
	require.Error(t, err)
}

func TestSnowflakeConfigDSN(t *testing.T) {
	config := &SnowflakeConfig{
		AccountId: "myorg-myaccount",
		User:      "dbt",
		Pass:      "secret",
		Warehouse: "COMPUTE_WH",
		Database:  "ANALYTICS",
		Schema:    "DBT",
	}
	dsn, err := config.DSN()
	require.NoError(t, err)
	require.Contains(t, dsn, "myorg-myaccount")
	require.Contains(t, dsn, "warehouse=COMPUTE_WH")

	_, err = (&SnowflakeConfig{}).DSN()
	require.Error(t, err)

	run := config.RunConfig(relation.QuotingConfig{Identifier: true})
	require.Equal(t, "COMPUTE_WH", run.Warehouse)
	require.True(t, run.Quoting.Identifier)
}
