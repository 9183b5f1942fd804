package merge

import (
	"fmt"
	"strings"

	"github.com/backmassage/csvmerge/internal/table"
)

// DedupeKey is the fixed composite key used to detect duplicate records.
// Not configurable at runtime; duplicate removal is opt-in by schema
// match — tables lacking any of these columns pass through untouched.
var DedupeKey = []string{
	"start_time",
	"end_time",
	"start_time_iso",
	"end_time_iso",
	"amount_value",
	"amount_currency",
	"line_item",
	"project_id",
	"organization_id",
}

// Logger is the minimal logging interface Dedupe needs for its
// missing-column diagnostic.
type Logger interface {
	Warn(string, ...interface{})
}

// Dedupe removes rows that collide on DedupeKey, keeping the first row
// seen for each distinct combination, and returns the count removed. When
// any key column is missing from the table it logs a diagnostic and
// removes nothing. Running Dedupe on its own output removes zero rows.
func Dedupe(t *table.Table, log Logger) int {
	var missing []string
	for _, col := range DedupeKey {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		log.Warn("Skipping duplicate removal; missing columns: %s", strings.Join(missing, ", "))
		return 0
	}

	seen := make(map[string]struct{}, t.Len())
	kept := t.Rows[:0]
	var sb strings.Builder
	for _, row := range t.Rows {
		sb.Reset()
		// Length-prefix each cell so the encoding is injective: no choice
		// of cell contents can make distinct value tuples share a key.
		for _, col := range DedupeKey {
			v := row[col]
			fmt.Fprintf(&sb, "%d:", len(v))
			sb.WriteString(v)
		}
		key := sb.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	removed := len(t.Rows) - len(kept)
	t.Rows = kept
	return removed
}
