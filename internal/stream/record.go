package stream

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecordKind discriminates the four stream record types.
type RecordKind string

const (
	KindHeader RecordKind = "header"
	KindRow    RecordKind = "row"
	KindError  RecordKind = "error"
	KindDone   RecordKind = "done"
)

// Record is one parsed line of the generation stream.
type Record interface {
	Kind() RecordKind
}

// Header declares the output column order. Exactly one is expected,
// before any rows.
type Header struct {
	Columns []string
}

func (Header) Kind() RecordKind { return KindHeader }

// Row carries one generated record. Values past the source-column
// count are generated fields, one per active template.
type Row struct {
	Values []any
}

func (Row) Kind() RecordKind { return KindRow }

// ErrorRecord terminates the stream with a failure reason. No further
// records are valid after it.
type ErrorRecord struct {
	Detail string
}

func (ErrorRecord) Kind() RecordKind { return KindError }

// Done marks successful end of stream in full mode.
type Done struct{}

func (Done) Kind() RecordKind { return KindDone }

type envelope struct {
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
	Detail string          `json:"detail"`
}

// ParseRecord parses one complete line into a Record. Bare NaN tokens
// are rewritten to null first: the generation endpoint emits NaN for
// missing numeric values, which is not valid JSON.
func ParseRecord(line string) (Record, error) {
	var env envelope
	if err := json.Unmarshal([]byte(sanitizeNaN(line)), &env); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}

	switch env.Type {
	case "header":
		var cols []string
		if err := json.Unmarshal(env.Data, &cols); err != nil {
			return nil, fmt.Errorf("parse header data: %w", err)
		}
		return Header{Columns: cols}, nil
	case "row":
		dec := json.NewDecoder(strings.NewReader(string(env.Data)))
		dec.UseNumber()
		var values []any
		if err := dec.Decode(&values); err != nil {
			return nil, fmt.Errorf("parse row data: %w", err)
		}
		return Row{Values: values}, nil
	case "error":
		return ErrorRecord{Detail: env.Detail}, nil
	case "done":
		return Done{}, nil
	default:
		return nil, fmt.Errorf("unknown record type %q", env.Type)
	}
}

// sanitizeNaN replaces unquoted NaN tokens with null, leaving string
// literals untouched.
func sanitizeNaN(line string) string {
	if !strings.Contains(line, "NaN") {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + 4)
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inString {
			b.WriteByte(c)
			switch c {
			case '\\':
				if i+1 < len(line) {
					i++
					b.WriteByte(line[i])
				}
			case '"':
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == 'N' && strings.HasPrefix(line[i:], "NaN"):
			b.WriteString("null")
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
