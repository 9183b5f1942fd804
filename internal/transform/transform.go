// Package transform applies the per-file row transformations that run
// between parsing and reconciliation: source tagging, project filtering,
// identifying-column removal, and derived month columns.
//
// Every step degrades gracefully: a column required by an optional feature
// that is absent from the file logs a diagnostic and skips that feature
// for that table only. Nothing here aborts the run.
package transform

import (
	"strings"

	"github.com/backmassage/csvmerge/internal/table"
)

// SourceColumn is inserted as the first column when source tagging is on.
const SourceColumn = "source_file"

// ProjectColumn is the column project filters evaluate against.
const ProjectColumn = "project_name"

// IdentifyingColumns are considered sensitive and are removed unless the
// caller keeps them. Modeled as a set so it can grow without changing the
// transformer's contract.
var IdentifyingColumns = []string{ProjectColumn}

// Timestamp source columns and the helper columns derived from them.
const (
	StartTimeISOColumn = "start_time_iso"
	EndTimeISOColumn   = "end_time_iso"
	StartMonthColumn   = "start_month"
	EndMonthColumn     = "end_month"
)

// Logger is the minimal logging interface the transformer needs for its
// diagnostics. Defined here (rather than importing the logging package) so
// transform stays dependency-light and testable with a mock logger.
type Logger interface {
	Warn(string, ...interface{})
}

// Options carries the resolved per-file transformation policy. The
// precedence between --keep-identifying-info and the project filters is
// resolved by the caller; RemoveIdentifying arrives here as a plain
// boolean.
type Options struct {
	AddSource  bool
	SourceName string // base name of the input file; used when AddSource is set

	OnlyProjects    map[string]struct{}
	ExcludeProjects map[string]struct{}

	RemoveIdentifying bool
}

// Apply runs the transformation steps on t in order: source tagging,
// project filtering, identifying-column removal, derived month columns.
// The table is modified in place and returned.
func Apply(t *table.Table, opts Options, log Logger) *table.Table {
	if opts.AddSource {
		tagSource(t, opts.SourceName)
	}
	if len(opts.OnlyProjects) > 0 || len(opts.ExcludeProjects) > 0 {
		filterProjects(t, opts, log)
	}
	if opts.RemoveIdentifying {
		for _, col := range IdentifyingColumns {
			t.DropColumn(col)
		}
	}
	addMonthColumns(t, log)
	return t
}

// tagSource sets SourceColumn to name for every row. A new column is
// inserted first; an existing one keeps its position but is overwritten
// so stale values from a previous merge cannot survive.
func tagSource(t *table.Table, name string) {
	t.InsertColumnFront(SourceColumn)
	t.SetAll(SourceColumn, name)
}

// filterProjects keeps or drops rows by their ProjectColumn value. When
// both sets are non-empty the only-list wins; the exclude-list is ignored.
func filterProjects(t *table.Table, opts Options, log Logger) {
	if !t.HasColumn(ProjectColumn) {
		log.Warn("Skipping project filter; missing column: %s", ProjectColumn)
		return
	}

	kept := t.Rows[:0]
	for _, row := range t.Rows {
		name := row[ProjectColumn]
		if len(opts.OnlyProjects) > 0 {
			if _, ok := opts.OnlyProjects[name]; ok {
				kept = append(kept, row)
			}
			continue
		}
		if _, ok := opts.ExcludeProjects[name]; !ok {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
}

// addMonthColumns appends StartMonthColumn and EndMonthColumn, holding
// "2006-01 January" style labels derived from the ISO timestamp columns
// in UTC. Unparseable timestamps yield blank cells, not errors. When
// either source column is missing the step is skipped for this table.
func addMonthColumns(t *table.Table, log Logger) {
	var missing []string
	for _, col := range []string{StartTimeISOColumn, EndTimeISOColumn} {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		log.Warn("Skipping helper columns; missing columns: %s", strings.Join(missing, ", "))
		return
	}

	t.AppendColumn(StartMonthColumn)
	t.AppendColumn(EndMonthColumn)
	for _, row := range t.Rows {
		row[StartMonthColumn] = MonthLabel(row[StartTimeISOColumn])
		row[EndMonthColumn] = MonthLabel(row[EndTimeISOColumn])
	}
}
