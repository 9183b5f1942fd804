package merge

import "github.com/backmassage/csvmerge/internal/table"

// Concat concatenates reconciled tables into one, in input order: row
// order is file order, then original row order within each file. Cell
// content is never changed. Input tables must already share one column
// list (the Reconcile postcondition).
func Concat(tables []*table.Table) *table.Table {
	if len(tables) == 0 {
		return table.New(nil)
	}
	out := table.New(tables[0].Columns)
	for _, t := range tables {
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out
}
