package snowsql

import (
	"context"
	"testing"

	"github.com/pingcap-inc/sfadapter/pkg/coreinterfaces"
	"github.com/pingcap-inc/sfadapter/pkg/metrics"
	"github.com/pingcap-inc/sfadapter/pkg/relation"
	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeMacros serves column lists by relation identifier.
type fakeMacros struct {
	columns map[string][]coreinterfaces.Column
	errs    map[string]error
	calls   []relation.Relation
}

func (f *fakeMacros) ExecuteMacro(_ context.Context, name string, kwargs map[string]any) ([]coreinterfaces.Column, error) {
	if name != GetColumnsInRelationMacroName {
		return nil, ErrUnknownMacro.GenWithStackByArgs(name)
	}
	rel := kwargs["relation"].(relation.Relation)
	f.calls = append(f.calls, rel)
	if err := f.errs[rel.Identifier]; err != nil {
		return nil, err
	}
	return f.columns[rel.Identifier], nil
}

// fakeExecutor answers fetch statements from a script and records every statement.
type fakeExecutor struct {
	tables     map[string]*coreinterfaces.Table
	errs       map[string]error
	statements []string
}

func (f *fakeExecutor) Execute(_ context.Context, sql string, fetch bool) (int64, *coreinterfaces.Table, error) {
	f.statements = append(f.statements, sql)
	if err := f.errs[sql]; err != nil {
		return 0, nil, err
	}
	if !fetch {
		return 0, nil, nil
	}
	table, ok := f.tables[sql]
	if !ok {
		table = &coreinterfaces.Table{}
	}
	return int64(len(table.Rows)), table, nil
}

// noResultExecutor succeeds without a result set, even for fetches.
type noResultExecutor struct{}

func (noResultExecutor) Execute(context.Context, string, bool) (int64, *coreinterfaces.Table, error) {
	return 0, nil, nil
}

var (
	refRel    = relation.Relation{Database: "analytics", Schema: "dbt", Identifier: "orders"}
	targetRel = relation.Relation{Database: "analytics", Schema: "dbt", Identifier: "orders__dbt_tmp"}
)

func cols(pairs ...string) []coreinterfaces.Column {
	columns := make([]coreinterfaces.Column, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		columns = append(columns, coreinterfaces.Column{Name: pairs[i], DataType: pairs[i+1]})
	}
	return columns
}

func newTestAdapter(t *testing.T, exec coreinterfaces.QueryExecutor, macros coreinterfaces.MacroDispatcher, opts ...Option) *SnowflakeAdapter {
	config := RunConfig{Warehouse: "COMPUTE_WH"}
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	if macros != nil {
		opts = append(opts, WithMacros(macros))
	}
	return NewSnowflakeAdapter(exec, config, opts...)
}

func TestHasSchemaChanged(t *testing.T) {
	cases := []struct {
		name      string
		reference []coreinterfaces.Column
		target    []coreinterfaces.Column
		changed   bool
	}{
		{
			name:      "identical",
			reference: cols("ID", "NUMBER(38,0)", "NAME", "VARCHAR(100)"),
			target:    cols("ID", "NUMBER(38,0)", "NAME", "VARCHAR(100)"),
			changed:   false,
		},
		{
			name:      "column added to target",
			reference: cols("ID", "NUMBER(38,0)", "NAME", "VARCHAR(100)"),
			target:    cols("ID", "NUMBER(38,0)", "NAME", "VARCHAR(100)", "EMAIL", "VARCHAR(255)"),
			changed:   true,
		},
		{
			name:      "column removed from target",
			reference: cols("ID", "NUMBER(38,0)", "NAME", "VARCHAR(100)"),
			target:    cols("ID", "NUMBER(38,0)"),
			changed:   true,
		},
		{
			name:      "size changed",
			reference: cols("ID", "NUMBER(38,0)", "NAME", "VARCHAR(10)"),
			target:    cols("ID", "NUMBER(38,0)", "NAME", "VARCHAR(20)"),
			changed:   true,
		},
		{
			name:      "base type changed",
			reference: cols("ID", "NUMBER(38,0)"),
			target:    cols("ID", "FLOAT"),
			changed:   true,
		},
		{
			name:      "column renamed",
			reference: cols("ID", "NUMBER(38,0)", "NAME", "VARCHAR(100)"),
			target:    cols("ID", "NUMBER(38,0)", "FULL_NAME", "VARCHAR(100)"),
			changed:   true,
		},
		{
			name:      "columns reordered",
			reference: cols("ID", "NUMBER(38,0)", "NAME", "VARCHAR(100)"),
			target:    cols("NAME", "VARCHAR(100)", "ID", "NUMBER(38,0)"),
			changed:   false,
		},
		{
			name:      "both empty",
			reference: nil,
			target:    nil,
			changed:   false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			macros := &fakeMacros{columns: map[string][]coreinterfaces.Column{
				refRel.Identifier:    c.reference,
				targetRel.Identifier: c.target,
			}}
			adapter := newTestAdapter(t, &fakeExecutor{}, macros)

			changed, err := adapter.HasSchemaChanged(context.Background(), refRel, targetRel)
			require.NoError(t, err)
			require.Equal(t, c.changed, changed)
			require.Equal(t, []relation.Relation{refRel, targetRel}, macros.calls)
		})
	}
}

func TestHasSchemaChangedSameRelation(t *testing.T) {
	macros := &fakeMacros{columns: map[string][]coreinterfaces.Column{
		refRel.Identifier: cols("ID", "NUMBER(38,0)", "NAME", "VARCHAR(100)"),
	}}
	adapter := newTestAdapter(t, &fakeExecutor{}, macros)

	changed, err := adapter.HasSchemaChanged(context.Background(), refRel, refRel)
	require.NoError(t, err)
	require.False(t, changed)
	// the relation is read twice, never cached
	require.Len(t, macros.calls, 2)
}

func TestHasSchemaChangedPropagatesFetchError(t *testing.T) {
	boom := errors.New("SQL compilation error: Object does not exist")

	for _, failing := range []string{refRel.Identifier, targetRel.Identifier} {
		macros := &fakeMacros{
			columns: map[string][]coreinterfaces.Column{
				refRel.Identifier:    cols("ID", "NUMBER(38,0)"),
				targetRel.Identifier: cols("ID", "NUMBER(38,0)"),
			},
			errs: map[string]error{failing: boom},
		}
		m := metrics.NewMetrics()
		adapter := newTestAdapter(t, &fakeExecutor{}, macros, WithMetrics(m))

		changed, err := adapter.HasSchemaChanged(context.Background(), refRel, targetRel)
		require.Error(t, err)
		require.Equal(t, boom, errors.Cause(err))
		require.False(t, changed)
		require.Equal(t, float64(1), m.ErrorCount("has_schema_changed"))
		require.Equal(t, float64(0), m.SchemaCheckCount("unchanged"))
	}
}

func TestHasSchemaChangedMetrics(t *testing.T) {
	macros := &fakeMacros{columns: map[string][]coreinterfaces.Column{
		refRel.Identifier:    cols("ID", "NUMBER(38,0)"),
		targetRel.Identifier: cols("ID", "NUMBER(38,0)", "EMAIL", "VARCHAR(255)"),
	}}
	m := metrics.NewMetrics()
	adapter := newTestAdapter(t, &fakeExecutor{}, macros, WithMetrics(m))

	changed, err := adapter.HasSchemaChanged(context.Background(), refRel, targetRel)
	require.NoError(t, err)
	require.True(t, changed)
	changed, err = adapter.HasSchemaChanged(context.Background(), refRel, refRel)
	require.NoError(t, err)
	require.False(t, changed)

	require.Equal(t, float64(1), m.SchemaCheckCount("changed"))
	require.Equal(t, float64(1), m.SchemaCheckCount("unchanged"))
}

func TestCompareColumnSets(t *testing.T) {
	set := func(pairs ...string) map[string]coreinterfaces.Column {
		return columnsByName(cols(pairs...))
	}

	change, _ := CompareColumnSets(set("ID", "NUMBER(38,0)"), set("ID", "NUMBER(38,0)", "EMAIL", "TEXT"))
	require.Equal(t, COLUMN_COUNT, change)

	change, column := CompareColumnSets(set("ID", "NUMBER(38,0)", "NAME", "TEXT"), set("ID", "NUMBER(38,0)", "FULL_NAME", "TEXT"))
	require.Equal(t, COLUMN_REMOVED, change)
	require.Equal(t, "NAME", column)

	change, column = CompareColumnSets(set("ID", "NUMBER(38,0)"), set("ID", "NUMBER(18,0)"))
	require.Equal(t, COLUMN_TYPE, change)
	require.Equal(t, "ID", column)

	change, _ = CompareColumnSets(set("ID", "NUMBER(38,0)"), set("ID", "NUMBER(38,0)"))
	require.Equal(t, UNCHANGED, change)
	require.Equal(t, "unchanged", change.String())

	change, column = CompareColumnSets(map[string]coreinterfaces.Column{}, set("ID", "NUMBER(38,0)"))
	require.Equal(t, COLUMN_COUNT, change)
	require.Equal(t, "", column)
}

func TestColumnsByNameLastWins(t *testing.T) {
	set := columnsByName(cols("ID", "NUMBER(38,0)", "ID", "VARCHAR(10)"))
	require.Len(t, set, 1)
	require.Equal(t, "VARCHAR(10)", set["ID"].DataType)
}

func TestGetColumnsInRelation(t *testing.T) {
	macros := &fakeMacros{columns: map[string][]coreinterfaces.Column{
		refRel.Identifier: cols("ID", "NUMBER(38,0)", "NAME", "VARCHAR(100)"),
	}}
	adapter := newTestAdapter(t, &fakeExecutor{}, macros)

	columns, err := adapter.GetColumnsInRelation(context.Background(), refRel)
	require.NoError(t, err)
	require.Equal(t, cols("ID", "NUMBER(38,0)", "NAME", "VARCHAR(100)"), columns)

	_, err = adapter.GetColumnsInRelation(context.Background(), refRel)
	require.NoError(t, err)
	require.Len(t, macros.calls, 2)
}

func TestMakeMatchKwargsUsesRunQuoting(t *testing.T) {
	adapter := NewSnowflakeAdapter(&fakeExecutor{}, RunConfig{
		Quoting: relation.QuotingConfig{Identifier: true},
	}, WithLogger(zap.NewNop()))

	require.Equal(t, relation.MatchKwargs{
		"database":   "ANALYTICS",
		"identifier": "Orders",
	}, adapter.MakeMatchKwargs("analytics", "", "Orders"))
}

func TestCurrentTimestamp(t *testing.T) {
	exec := &fakeExecutor{tables: map[string]*coreinterfaces.Table{
		"SELECT CURRENT_TIMESTAMP()": {
			ColumnNames: []string{"CURRENT_TIMESTAMP()"},
			Rows:        [][]any{{"2026-10-15 10:00:00.000 -0700"}},
		},
	}}
	adapter := newTestAdapter(t, exec, nil)

	require.Equal(t, "CURRENT_TIMESTAMP()", adapter.CurrentTimestampExpression())
	ts, err := adapter.ServerTimestamp(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2026-10-15 10:00:00.000 -0700", ts)

	adapter = newTestAdapter(t, noResultExecutor{}, nil)
	_, err = adapter.ServerTimestamp(context.Background())
	require.Error(t, err)
}

func TestAdapterSpecificConfigs(t *testing.T) {
	require.ElementsMatch(t, []string{"transient", "cluster_by", "automatic_clustering"}, AdapterSpecificConfigs)
}
