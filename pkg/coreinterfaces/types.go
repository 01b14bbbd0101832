package coreinterfaces

import (
	"strconv"
	"strings"

	"github.com/pingcap/errors"
)

// Column describes one column of a relation as reported by the warehouse.
// Size and precision are encoded in DataType, e.g. VARCHAR(100) or NUMBER(38,0).
type Column struct {
	Name     string
	DataType string
}

var (
	stringTypes  = map[string]struct{}{"VARCHAR": {}, "CHAR": {}, "CHARACTER": {}, "STRING": {}, "TEXT": {}}
	numericTypes = map[string]struct{}{"NUMBER": {}, "DECIMAL": {}, "NUMERIC": {}}
)

// splitDataType splits "NUMBER(38,0)" into "NUMBER" and ["38", "0"].
func splitDataType(dataType string) (string, []string) {
	tp := strings.TrimSpace(dataType)
	open := strings.IndexByte(tp, '(')
	if open < 0 || !strings.HasSuffix(tp, ")") {
		return strings.ToUpper(tp), nil
	}
	base := strings.ToUpper(strings.TrimSpace(tp[:open]))
	args := strings.Split(tp[open+1:len(tp)-1], ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return base, args
}

// BaseType is the data type without its size arguments.
func (c Column) BaseType() string {
	base, _ := splitDataType(c.DataType)
	return base
}

func (c Column) IsString() bool {
	_, ok := stringTypes[c.BaseType()]
	return ok
}

func (c Column) IsNumeric() bool {
	_, ok := numericTypes[c.BaseType()]
	return ok
}

// StringSize returns the declared character length of a string column.
func (c Column) StringSize() (int, bool) {
	if !c.IsString() {
		return 0, false
	}
	_, args := splitDataType(c.DataType)
	if len(args) != 1 {
		return 0, false
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	return size, true
}

// NumericPrecisionScale returns the declared precision and scale of a numeric column.
func (c Column) NumericPrecisionScale() (int, int, bool) {
	if !c.IsNumeric() {
		return 0, 0, false
	}
	_, args := splitDataType(c.DataType)
	if len(args) == 0 || len(args) > 2 {
		return 0, 0, false
	}
	precision, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, false
	}
	scale := 0
	if len(args) == 2 {
		if scale, err = strconv.Atoi(args[1]); err != nil {
			return 0, 0, false
		}
	}
	return precision, scale, true
}

// Table is a fetched result set.
type Table struct {
	ColumnNames []string
	Rows        [][]any
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, n := range t.ColumnNames {
		if n == name {
			return i
		}
	}
	return -1
}

// ColumnIndexFold is ColumnIndex with case-insensitive matching.
func (t *Table) ColumnIndexFold(name string) int {
	for i, n := range t.ColumnNames {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}

// Rename returns a copy of the table with new column names. Rows are shared.
func (t *Table) Rename(columnNames []string) (*Table, error) {
	if len(columnNames) != len(t.ColumnNames) {
		return nil, errors.Errorf("rename expects %d column names, got %d", len(t.ColumnNames), len(columnNames))
	}
	names := make([]string, len(columnNames))
	copy(names, columnNames)
	return &Table{ColumnNames: names, Rows: t.Rows}, nil
}

// SchemaRef names a schema used by a run.
type SchemaRef struct {
	Database string
	Schema   string
}

// Manifest is the part of the orchestrator's manifest the catalog filter needs.
type Manifest struct {
	Schemas []SchemaRef
}

// UsedSchemas returns the manifest's schemas, lower-cased.
func (m Manifest) UsedSchemas() map[SchemaRef]struct{} {
	used := make(map[SchemaRef]struct{}, len(m.Schemas))
	for _, s := range m.Schemas {
		used[SchemaRef{Database: strings.ToLower(s.Database), Schema: strings.ToLower(s.Schema)}] = struct{}{}
	}
	return used
}

// ModelConfig is the adapter-relevant part of a model's configuration.
type ModelConfig struct {
	// Warehouse to run the model on; empty means the run's default.
	Warehouse           string
	Transient           bool
	ClusterBy           []string
	AutomaticClustering bool
}

// WarehouseToken remembers the warehouse a session used before a model
// switched away from it. It can be restored once.
type WarehouseToken struct {
	previous string
	restored bool
}

func NewWarehouseToken(previous string) *WarehouseToken {
	return &WarehouseToken{previous: previous}
}

// Previous is the warehouse to switch back to.
func (t *WarehouseToken) Previous() string {
	return t.previous
}

// Restore marks the token used. It reports false if it was used before.
func (t *WarehouseToken) Restore() (string, bool) {
	if t.restored {
		return t.previous, false
	}
	t.restored = true
	return t.previous, true
}
