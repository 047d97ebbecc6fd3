package generation

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRows indicates the stream ended before any row arrived.
	ErrNoRows = errors.New("stream ended before any row")
	// ErrTruncated indicates a full-mode stream ended without a done
	// marker. Nothing is finalized.
	ErrTruncated = errors.New("stream ended without done marker")
)

// StreamError carries a terminal error record's detail. It is the
// failure reason surfaced to the caller, not merely logged.
type StreamError struct {
	Detail string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("generation stream error: %s", e.Detail)
}
