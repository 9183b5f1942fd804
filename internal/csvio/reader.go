package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/backmassage/csvmerge/internal/table"
)

// ParseError reports an input file that matched the pattern but could not
// be parsed (bad encoding, wrong delimiter, ragged rows, corrupt content).
// It aborts the whole run.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadFile parses one delimited text file into a Table. The first record
// is the header and defines the column names; every following record must
// have the same field count. The file handle is fully consumed and closed
// before ReadFile returns, so callers can process large input sets without
// accumulating open descriptors.
func ReadFile(path string, delimiter rune, enc encoding.Encoding) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, enc.NewDecoder()))
	r.Comma = delimiter

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: path, Err: errors.New("file is empty (no header row)")}
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	if err := checkHeader(header); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	t := table.New(header)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		row := make(table.Row, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		t.Append(row)
	}
	return t, nil
}

// checkHeader rejects duplicate column names. The table model requires
// unique columns; letting duplicates through would corrupt reconciliation
// and the output schema.
func checkHeader(header []string) error {
	seen := make(map[string]struct{}, len(header))
	for _, col := range header {
		if _, dup := seen[col]; dup {
			return fmt.Errorf("duplicate column name %q in header", col)
		}
		seen[col] = struct{}{}
	}
	return nil
}
