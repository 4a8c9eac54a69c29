package storage

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/paradb/paradb/internal/types"
)

// Column is the ordered storage for one attribute: one entry per row, in
// insertion order. Its length equals the table's row count at every point
// observed under the table's lock.
type Column struct {
	Name   string
	Type   types.DataType
	values []types.Value
}

// Table stores rows column-oriented under a fixed schema. Structure never
// changes after creation and rows are never removed; the table grows by
// insert only.
//
// The table performs no locking itself. The shared/exclusive lock is a
// separate capability the orchestrator brackets around every multi-step
// operation, because releasing it between the filter and assembly phases
// would let a writer mutate columns mid-scan.
type Table struct {
	name   string
	cols   []*Column // schema order, for deterministic output
	byName map[string]*Column
	size   int

	mu sync.RWMutex
	// bracket marks a Begin/End transaction holding mu exclusively; see tx.go.
	bracket atomic.Bool
}

// NewTable builds an empty table from parallel name/type-token sequences.
func NewTable(name string, columns, typeTokens []string) (*Table, error) {
	if len(columns) == 0 || len(typeTokens) == 0 {
		return nil, fmt.Errorf("%w: column names and types are required", types.ErrNullOrEmptyInput)
	}
	if len(columns) != len(typeTokens) {
		return nil, fmt.Errorf("%w: %d column names, %d types",
			types.ErrInvalidShape, len(columns), len(typeTokens))
	}

	t := &Table{
		name:   name,
		cols:   make([]*Column, 0, len(columns)),
		byName: make(map[string]*Column, len(columns)),
	}
	for i, colName := range columns {
		dt, err := types.ParseDataType(typeTokens[i])
		if err != nil {
			return nil, err
		}
		if _, exists := t.byName[colName]; exists {
			return nil, fmt.Errorf("%w: %q", types.ErrDuplicateColumn, colName)
		}
		col := &Column{Name: colName, Type: dt}
		t.cols = append(t.cols, col)
		t.byName[colName] = col
	}
	return t, nil
}

// Name returns the table's name.
func (t *Table) Name() string { return t.name }

// TypeOf resolves a column name to its declared type. It satisfies
// parser.ColumnTypes.
func (t *Table) TypeOf(column string) (types.DataType, bool) {
	col, ok := t.byName[column]
	if !ok {
		return 0, false
	}
	return col.Type, true
}

// ColumnNames returns the column names in schema order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		names[i] = col.Name
	}
	return names
}

// Size returns the row count. Callers must hold at least the shared lock.
func (t *Table) Size() int { return t.size }

// column resolves a column by name.
func (t *Table) column(name string) (*Column, bool) {
	col, ok := t.byName[name]
	return col, ok
}

// validateRow checks a row's arity and per-position types against the
// schema. Nothing is mutated, so a failure commits no partial write.
func (t *Table) validateRow(row []types.Value) error {
	if len(row) == 0 {
		return fmt.Errorf("%w: row", types.ErrNullOrEmptyInput)
	}
	if len(row) != len(t.cols) {
		return fmt.Errorf("%w: row has %d values, table %s has %d columns",
			types.ErrInvalidShape, len(row), t.name, len(t.cols))
	}
	for i, v := range row {
		if v.Type != t.cols[i].Type {
			return fmt.Errorf("%w: column %s is %s, value %q is %s",
				types.ErrInvalidDataType, t.cols[i].Name, t.cols[i].Type, v, v.Type)
		}
	}
	return nil
}

// insert validates the row fully and then appends one value to every column.
// The caller must hold the exclusive lock: the append is not atomic across
// columns.
func (t *Table) insert(row []types.Value) error {
	if err := t.validateRow(row); err != nil {
		return err
	}
	for i, col := range t.cols {
		col.values = append(col.values, row[i])
	}
	t.size++
	return nil
}

// overwrite replaces every column's value at each matched index with the
// corresponding value of row. The row must already be validated and the
// caller must hold the exclusive lock.
func (t *Table) overwrite(row []types.Value, matched []int) {
	for _, idx := range matched {
		for i, col := range t.cols {
			col.values[idx] = row[i]
		}
	}
}

// lockShared acquires the table's shared lock and returns its release.
// While a Begin/End bracket holds the table, the bracket already provides
// exclusivity and the acquisition is skipped.
func (t *Table) lockShared() func() {
	if t.bracket.Load() {
		return func() {}
	}
	t.mu.RLock()
	return t.mu.RUnlock
}

// lockExclusive acquires the table's exclusive lock and returns its release,
// with the same bracket short-circuit as lockShared.
func (t *Table) lockExclusive() func() {
	if t.bracket.Load() {
		return func() {}
	}
	t.mu.Lock()
	return t.mu.Unlock
}
