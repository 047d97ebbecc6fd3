package stream_test

import (
	"testing"

	"github.com/persoforge/persofeed/internal/stream"
	"github.com/stretchr/testify/require"
)

func collect(f *stream.Framer, chunks []string) []string {
	var lines []string
	for _, chunk := range chunks {
		lines = append(lines, f.Feed(chunk)...)
	}
	if line, ok := f.Flush(); ok {
		lines = append(lines, line)
	}
	return lines
}

func TestFramer_SingleChunk(t *testing.T) {
	f := &stream.Framer{}
	lines := collect(f, []string{"one\ntwo\nthree\n"})
	require.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestFramer_SplitAcrossChunks(t *testing.T) {
	f := &stream.Framer{}
	lines := collect(f, []string{"on", "e\ntw", "o\nthr", "ee\n"})
	require.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestFramer_ByteAtATimeMatchesWholeInput(t *testing.T) {
	input := "alpha\nbeta\n\ngamma\ndelta"

	whole := collect(&stream.Framer{}, []string{input})

	var bytewise []string
	f := &stream.Framer{}
	for i := 0; i < len(input); i++ {
		bytewise = append(bytewise, f.Feed(input[i:i+1])...)
	}
	if line, ok := f.Flush(); ok {
		bytewise = append(bytewise, line)
	}

	require.Equal(t, whole, bytewise)
	require.Equal(t, []string{"alpha", "beta", "", "gamma", "delta"}, whole)
}

func TestFramer_TrailingFragmentEmittedOnFlush(t *testing.T) {
	f := &stream.Framer{}
	require.Empty(t, f.Feed("partial"))

	line, ok := f.Flush()
	require.True(t, ok)
	require.Equal(t, "partial", line)

	_, ok = f.Flush()
	require.False(t, ok, "flush should be a one-shot drain")
}

func TestFramer_CRLFTerminators(t *testing.T) {
	f := &stream.Framer{}
	lines := collect(f, []string{"one\r\ntwo\r", "\nthree"})
	require.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestFramer_EmptyChunksAreNoOps(t *testing.T) {
	f := &stream.Framer{}
	require.Empty(t, f.Feed(""))
	lines := collect(f, []string{"a\n", "", "b\n"})
	require.Equal(t, []string{"a", "b"}, lines)
}
