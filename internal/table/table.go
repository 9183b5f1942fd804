// Package table defines the in-memory data model shared by every pipeline
// stage: an ordered set of named text columns plus ordered rows of cells.
// All values are opaque text; no type inference is ever attempted.
package table

// Row maps a column name to its cell value. Keys absent from a row
// serialize as blank cells.
type Row map[string]string

// Table is an ordered collection of named text columns and ordered rows.
// Column names are unique and case-sensitive. Every row's key set is a
// subset of Columns once a stage has materialized the table.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given column order.
func New(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// InsertColumnFront makes name the first column. If the column already
// exists its position is unchanged; only the order of a new column is
// affected. Cell values are not touched.
func (t *Table) InsertColumnFront(name string) {
	if t.HasColumn(name) {
		return
	}
	t.Columns = append([]string{name}, t.Columns...)
}

// AppendColumn adds name as the last column if not already present.
func (t *Table) AppendColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.Columns = append(t.Columns, name)
}

// DropColumn removes name from the column order and deletes its cells
// from every row. No-op when the column is absent.
func (t *Table) DropColumn(name string) {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	for _, r := range t.Rows {
		delete(r, name)
	}
}

// SetAll assigns value to column for every row.
func (t *Table) SetAll(column, value string) {
	for _, r := range t.Rows {
		r[column] = value
	}
}

// Cell returns the value at (row, column), or "" when the row has no cell
// for that column.
func (t *Table) Cell(row int, column string) string {
	return t.Rows[row][column]
}

// Append adds a row to the end of the table.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
