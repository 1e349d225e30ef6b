// Package table provides the in-memory table that the loader produces,
// the sanitizer passes mutate and the writer serializes.
//
// A Table is an ordered set of uniquely named columns. Every column holds
// the same number of cells, one per row, so a row is addressed by index
// across all columns.
package table

import (
	"errors"
	"fmt"
)

// Errors returned by table construction and validation.
var (
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrRaggedTable     = errors.New("table is not rectangular")
	ErrRowOutOfRange   = errors.New("row index out of range")
)

// Column is a named, kinded sequence of cells.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.Cells) }

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.IsMissing() {
			n++
		}
	}
	return n
}

// Table is a rectangular, column-oriented table.
type Table struct {
	cols  []*Column
	index map[string]int
}

// New creates an empty table with the given textual columns.
func New(names ...string) (*Table, error) {
	t := &Table{index: make(map[string]int, len(names))}
	for _, name := range names {
		if err := t.AddColumn(name, Textual, nil); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a column. Cells must match the current row count
// unless the table has no columns yet.
func (t *Table) AddColumn(name string, kind Kind, cells []Cell) error {
	if _, ok := t.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if len(t.cols) > 0 && len(cells) != t.NumRows() {
		return fmt.Errorf("%w: column %q has %d cells, table has %d rows",
			ErrRaggedTable, name, len(cells), t.NumRows())
	}
	t.index[name] = len(t.cols)
	t.cols = append(t.cols, &Column{Name: name, Kind: kind, Cells: cells})
	return nil
}

// AppendRow appends one cell per column, in column order.
func (t *Table) AppendRow(cells ...Cell) error {
	if len(cells) != len(t.cols) {
		return fmt.Errorf("%w: row has %d cells, table has %d columns",
			ErrRaggedTable, len(cells), len(t.cols))
	}
	for i, c := range t.cols {
		c.Cells = append(c.Cells, cells[i])
	}
	return nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Cells)
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the columns in order. The slice is shared with the table.
func (t *Table) Columns() []*Column { return t.cols }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Row returns a copy of row i.
func (t *Table) Row(i int) ([]Cell, error) {
	if i < 0 || i >= t.NumRows() {
		return nil, fmt.Errorf("%w: %d (rows: %d)", ErrRowOutOfRange, i, t.NumRows())
	}
	row := make([]Cell, len(t.cols))
	for j, c := range t.cols {
		row[j] = c.Cells[i]
	}
	return row, nil
}

// Record returns row i keyed by column name. Numeric cells are float64,
// textual cells are string and missing cells are nil.
func (t *Table) Record(i int) (map[string]any, error) {
	row, err := t.Row(i)
	if err != nil {
		return nil, err
	}
	rec := make(map[string]any, len(row))
	for j, cell := range row {
		rec[t.cols[j].Name] = cell.Value()
	}
	return rec, nil
}

// DropColumns removes the named columns, keeping the order of the rest.
// Unknown names are ignored.
func (t *Table) DropColumns(names ...string) {
	if len(names) == 0 {
		return
	}
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := t.cols[:0]
	for _, c := range t.cols {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	t.cols = kept
	t.reindex()
}

// KeepRows retains only rows whose keep flag is true, preserving order.
func (t *Table) KeepRows(keep []bool) error {
	if len(keep) != t.NumRows() {
		return fmt.Errorf("%w: keep mask has %d entries, table has %d rows",
			ErrRaggedTable, len(keep), t.NumRows())
	}
	for _, c := range t.cols {
		kept := c.Cells[:0]
		for i, cell := range c.Cells {
			if keep[i] {
				kept = append(kept, cell)
			}
		}
		c.Cells = kept
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		cols:  make([]*Column, len(t.cols)),
		index: make(map[string]int, len(t.cols)),
	}
	for i, c := range t.cols {
		cells := make([]Cell, len(c.Cells))
		copy(cells, c.Cells)
		out.cols[i] = &Column{Name: c.Name, Kind: c.Kind, Cells: cells}
		out.index[c.Name] = i
	}
	return out
}

// Validate checks rectangularity and name uniqueness.
func (t *Table) Validate() error {
	seen := make(map[string]bool, len(t.cols))
	rows := t.NumRows()
	for _, c := range t.cols {
		if seen[c.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = true
		if len(c.Cells) != rows {
			return fmt.Errorf("%w: column %q has %d cells, expected %d",
				ErrRaggedTable, c.Name, len(c.Cells), rows)
		}
	}
	return nil
}

// MissingCount returns the number of missing cells across the table.
func (t *Table) MissingCount() int {
	n := 0
	for _, c := range t.cols {
		n += c.MissingCount()
	}
	return n
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.cols))
	for i, c := range t.cols {
		t.index[c.Name] = i
	}
}
