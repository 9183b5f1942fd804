// Package csvio reads and writes delimited text files as tables of string
// cells, with user-selectable character encodings.
package csvio

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// ResolveEncoding maps a user-supplied encoding name to an encoding.
// Names are matched case-insensitively through the WHATWG alias table, so
// the common spellings ("utf-8", "cp1252", "latin1", "windows-1252", …)
// all resolve. "utf-8-sig" selects a BOM-aware UTF-8: the decoder strips a
// leading BOM and the encoder writes one, matching the convention used by
// spreadsheet exports.
func ResolveEncoding(name string) (encoding.Encoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "":
		return unicode.UTF8, nil
	case "utf-8-sig", "utf8-sig":
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(n)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return enc, nil
}
