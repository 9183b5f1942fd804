package merge

import (
	"errors"
	"fmt"

	"github.com/backmassage/csvmerge/internal/config"
	"github.com/backmassage/csvmerge/internal/table"
)

// ErrSchemaMismatch is returned in strict mode when any input table's
// column list (including order) differs from the first table's.
var ErrSchemaMismatch = errors.New("files have different columns; use --mode union or intersection instead")

// Reconcile aligns the column sets of the per-file tables according to
// mode and returns tables that all share one final column list.
//
// Column order is always derived from first-occurrence order in
// file-processing order (files arrive sorted by path), never alphabetical,
// so output stays deterministic and human-predictable.
func Reconcile(tables []*table.Table, mode config.Mode) ([]*table.Table, error) {
	if len(tables) == 0 {
		return tables, nil
	}
	switch mode {
	case config.ModeIntersection:
		return reconcileIntersection(tables), nil
	case config.ModeStrict:
		return tables, checkStrict(tables)
	default:
		return reconcileUnion(tables), nil
	}
}

// reconcileUnion gives every table the union of all columns, ordered by
// first appearance across tables. Rows from tables lacking a column keep
// no cell for it and serialize blank.
func reconcileUnion(tables []*table.Table) []*table.Table {
	var final []string
	seen := make(map[string]struct{})
	for _, t := range tables {
		for _, col := range t.Columns {
			if _, ok := seen[col]; !ok {
				seen[col] = struct{}{}
				final = append(final, col)
			}
		}
	}

	out := make([]*table.Table, len(tables))
	for i, t := range tables {
		out[i] = &table.Table{Columns: final, Rows: t.Rows}
	}
	return out
}

// reconcileIntersection keeps only columns present in every table, ordered
// by their appearance in the first table. Cells outside the intersection
// are dropped from every row.
func reconcileIntersection(tables []*table.Table) []*table.Table {
	counts := make(map[string]int)
	for _, t := range tables {
		for _, col := range t.Columns {
			counts[col]++
		}
	}
	var common []string
	for _, col := range tables[0].Columns {
		if counts[col] == len(tables) {
			common = append(common, col)
		}
	}

	out := make([]*table.Table, len(tables))
	for i, t := range tables {
		nt := table.New(common)
		for _, row := range t.Rows {
			trimmed := make(table.Row, len(common))
			for _, col := range common {
				if v, ok := row[col]; ok {
					trimmed[col] = v
				}
			}
			nt.Append(trimmed)
		}
		out[i] = nt
	}
	return out
}

// checkStrict requires every table's column list to equal the first
// table's, order included.
func checkStrict(tables []*table.Table) error {
	first := tables[0].Columns
	for i, t := range tables[1:] {
		if !columnsEqual(first, t.Columns) {
			return fmt.Errorf("file %d: %w", i+2, ErrSchemaMismatch)
		}
	}
	return nil
}

func columnsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
