package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/backmassage/csvmerge/internal/table"
)

// WriteError reports that the destination file could not be written
// (permissions, disk full, invalid path).
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// WriteFile serializes a Table to path: header row first, then every row
// in order, with absent cells written as blank. Parent directories are
// created when missing.
func WriteFile(path string, t *table.Table, delimiter rune, enc encoding.Encoding) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	tw := transform.NewWriter(f, enc.NewEncoder())
	w := csv.NewWriter(tw)
	w.Comma = delimiter

	if err := w.Write(t.Columns); err != nil {
		f.Close()
		return &WriteError{Path: path, Err: err}
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return &WriteError{Path: path, Err: err}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := tw.Close(); err != nil {
		f.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
