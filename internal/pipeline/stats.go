package pipeline

// RunStats tracks aggregate counters across a merge run.
type RunStats struct {
	FilesFound        int
	FilesMerged       int
	RowsRead          int
	RowsWritten       int
	Columns           int
	DuplicatesRemoved int
	OutputBytes       int64
	Wrote             bool
}

// RowsDropped returns the number of input rows that did not reach the
// output (project filtering plus duplicate removal).
func (s *RunStats) RowsDropped() int {
	return s.RowsRead - s.RowsWritten
}
