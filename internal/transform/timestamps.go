package transform

import "time"

// Timestamp layouts tried in order. Zone-less layouts parse as UTC, which
// matches how the month labels are defined.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MonthLabel converts an ISO timestamp string into a human-readable
// "year-month, month-name" label (e.g. "2024-03 March") in UTC. Blank or
// unparseable input yields "".
func MonthLabel(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts.UTC().Format("2006-01 January")
		}
	}
	return ""
}
