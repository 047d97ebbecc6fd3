package stream

import "strings"

// Framer reassembles complete lines from a stream of arbitrarily
// chunked text. Chunk boundaries carry no meaning: a line split across
// any number of chunks is emitted once, whole, in arrival order.
type Framer struct {
	pending string
}

// Feed appends a chunk and returns every line completed by it. The
// trailing fragment after the last terminator is held until the next
// chunk or Flush. Blank lines are emitted as-is; suppressing them is
// the caller's concern.
func (f *Framer) Feed(chunk string) []string {
	if chunk == "" {
		return nil
	}
	parts := strings.Split(f.pending+chunk, "\n")
	f.pending = parts[len(parts)-1]
	lines := make([]string, 0, len(parts)-1)
	for _, line := range parts[:len(parts)-1] {
		lines = append(lines, strings.TrimSuffix(line, "\r"))
	}
	return lines
}

// Flush emits the unterminated trailing fragment, if any. Call once
// when the stream ends.
func (f *Framer) Flush() (string, bool) {
	if f.pending == "" {
		return "", false
	}
	line := strings.TrimSuffix(f.pending, "\r")
	f.pending = ""
	return line, true
}
