package tabular

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Assembler accumulates rows and serializes them to CSV text. The
// serialization is done by hand because the artifact must round-trip
// values containing commas, quotes, and newlines exactly as written,
// and because the same text is handed verbatim to the file export.
type Assembler struct {
	rows [][]string
}

// NewAssembler returns an empty table.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// AppendRaw stores a row of already-stringified cells. Used for the
// header row.
func (a *Assembler) AppendRaw(cells []string) {
	row := make([]string, len(cells))
	copy(row, cells)
	a.rows = append(a.rows, row)
}

// Append stringifies and stores one data row. Row length is not
// validated against the header: ragged rows pass through.
func (a *Assembler) Append(values []any) {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = Stringify(v)
	}
	a.rows = append(a.rows, row)
}

// Len reports the number of stored rows, header included.
func (a *Assembler) Len() int {
	return len(a.rows)
}

// Finalize serializes the table: cells joined by commas, rows
// terminated by CRLF, cells containing a comma, double quote, or
// newline wrapped in double quotes with internal quotes doubled.
func (a *Assembler) Finalize() string {
	var b strings.Builder
	for _, row := range a.rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escape(cell))
		}
		b.WriteString("\r\n")
	}
	return b.String()
}

// Stringify renders one stream value as CSV cell text. Nulls become
// empty strings.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func escape(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
