package snowsql

import (
	"context"

	"github.com/pingcap-inc/sfadapter/pkg/coreinterfaces"
	"github.com/pingcap-inc/sfadapter/pkg/relation"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type schemaChange int8

const (
	UNCHANGED        schemaChange = iota // 0
	COLUMN_COUNT                         // 1
	COLUMN_REMOVED                       // reference column missing in target
	COLUMN_TYPE                          // same name, different data type text
	COLUMN_ADDED                         // target column missing in reference
)

func (c schemaChange) String() string {
	switch c {
	case COLUMN_COUNT:
		return "number of columns differ"
	case COLUMN_REMOVED:
		return "reference column not found in target"
	case COLUMN_TYPE:
		return "data type differs"
	case COLUMN_ADDED:
		return "target column not found in reference"
	default:
		return "unchanged"
	}
}

// columnsByName indexes columns by name. Later duplicates win.
func columnsByName(columns []coreinterfaces.Column) map[string]coreinterfaces.Column {
	m := make(map[string]coreinterfaces.Column, len(columns))
	for _, c := range columns {
		m[c.Name] = c
	}
	return m
}

// CompareColumnSets reports the first schema change found between two
// name-keyed column sets, and the column it was found on.
func CompareColumnSets(reference, target map[string]coreinterfaces.Column) (schemaChange, string) {
	if len(reference) != len(target) {
		return COLUMN_COUNT, ""
	}
	for name, refCol := range reference {
		targetCol, ok := target[name]
		if !ok {
			return COLUMN_REMOVED, name
		}
		// data types are compared as text, size and precision included
		if refCol.DataType != targetCol.DataType {
			return COLUMN_TYPE, name
		}
	}
	for name := range target {
		if _, ok := reference[name]; !ok {
			return COLUMN_ADDED, name
		}
	}
	return UNCHANGED, ""
}

// HasSchemaChanged reports whether the columns of target differ from those
// of reference: a column added or removed, or a data type changed in any
// way. Column order is ignored. Both relations are read from the warehouse.
func (a *SnowflakeAdapter) HasSchemaChanged(ctx context.Context, reference, target relation.Relation) (bool, error) {
	refColumns, err := a.GetColumnsInRelation(ctx, reference)
	if err != nil {
		a.metrics.ObserveError("has_schema_changed")
		return false, errors.Annotatef(err, "failed to get columns of %s", reference)
	}
	targetColumns, err := a.GetColumnsInRelation(ctx, target)
	if err != nil {
		a.metrics.ObserveError("has_schema_changed")
		return false, errors.Annotatef(err, "failed to get columns of %s", target)
	}

	refSet, targetSet := columnsByName(refColumns), columnsByName(targetColumns)
	change, column := CompareColumnSets(refSet, targetSet)
	if change == UNCHANGED {
		a.metrics.ObserveSchemaCheck("unchanged")
		a.logger.Debug("No schema difference detected",
			zap.Stringer("reference", reference),
			zap.Stringer("target", target))
		return false, nil
	}

	a.metrics.ObserveSchemaCheck("changed")
	if ce := a.logger.Check(zap.DebugLevel, "Schema difference detected"); ce != nil {
		refNames, targetNames := maps.Keys(refSet), maps.Keys(targetSet)
		slices.Sort(refNames)
		slices.Sort(targetNames)
		ce.Write(
			zap.Stringer("reason", change),
			zap.String("column", column),
			zap.Stringer("reference", reference),
			zap.Stringer("target", target),
			zap.Strings("reference-columns", refNames),
			zap.Strings("target-columns", targetNames))
	}
	return true, nil
}
