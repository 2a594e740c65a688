package weave

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, w interface{ Write([]byte) (int, error) }, lines []string) {
	t.Helper()
	for _, l := range lines {
		_, err := w.Write([]byte(l + "\n"))
		require.NoError(t, err)
	}
}

func parseAll(t *testing.T, path string, target int) []string {
	t.Helper()
	headers, body, err := readWeaveFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, headers)
	content, err := extractDelta(body, target)
	require.NoError(t, err)
	return content
}

func TestNewWeaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	naming := NewSimpleNaming(dir, "sample", "weave")

	nw, err := NewNewWeave(naming, Tags{"name": "initial"})
	require.NoError(t, err)
	writeLines(t, nw, []string{"1", "2", "3"})
	require.NoError(t, nw.Close())

	got := parseAll(t, naming.MainPath(), 1)
	require.Equal(t, []string{"1", "2", "3"}, got)
}

func TestDeltaWriterTwoDeltas(t *testing.T) {
	dir := t.TempDir()
	naming := NewSimpleNaming(dir, "sample", "weave")

	nw, err := NewNewWeave(naming, Tags{"name": "initial"})
	require.NoError(t, err)
	writeLines(t, nw, []string{"1", "2", "3"})
	require.NoError(t, nw.Close())

	dw, err := NewDeltaWriter(naming, Tags{"name": "second"}, 1)
	require.NoError(t, err)
	writeLines(t, dw, []string{"1", "2a", "3", "4"})
	require.NoError(t, dw.Close())

	require.Equal(t, []string{"1", "2", "3"}, parseAll(t, naming.MainPath(), 1))
	require.Equal(t, []string{"1", "2a", "3", "4"}, parseAll(t, naming.MainPath(), 2))
}

func TestDeltaWriterThreeDeltasPreservesHistory(t *testing.T) {
	dir := t.TempDir()
	naming := NewSimpleNaming(dir, "sample", "weave")

	nw, err := NewNewWeave(naming, Tags{"name": "v1"})
	require.NoError(t, err)
	writeLines(t, nw, []string{"a", "b", "c"})
	require.NoError(t, nw.Close())

	d2, err := NewDeltaWriter(naming, Tags{"name": "v2"}, 1)
	require.NoError(t, err)
	writeLines(t, d2, []string{"a", "b", "c", "d"})
	require.NoError(t, d2.Close())

	d3, err := NewDeltaWriter(naming, Tags{"name": "v3"}, 2)
	require.NoError(t, err)
	writeLines(t, d3, []string{"a", "c", "d"})
	require.NoError(t, d3.Close())

	require.Equal(t, []string{"a", "b", "c"}, parseAll(t, naming.MainPath(), 1))
	require.Equal(t, []string{"a", "b", "c", "d"}, parseAll(t, naming.MainPath(), 2))
	require.Equal(t, []string{"a", "c", "d"}, parseAll(t, naming.MainPath(), 3))
}

func TestParserParseToIncrementalStop(t *testing.T) {
	body := strings.Join([]string{
		"\x01I 1",
		"one",
		"two",
		"three",
		"\x01E 1",
	}, "\n")

	sink := &collectSink{}
	p := NewParser(strings.NewReader(body), sink, 1)

	stop, err := p.ParseTo(2)
	require.NoError(t, err)
	require.Equal(t, 2, stop)
	require.Equal(t, []string{"one"}, sink.lines)

	stop, err = p.ParseTo(0)
	require.NoError(t, err)
	require.Zero(t, stop)
	require.Equal(t, []string{"one", "two", "three"}, sink.lines)
}

func TestParserRejectsUnmatchedEnd(t *testing.T) {
	sink := &collectSink{}
	p := NewParser(strings.NewReader("\x01E 1\n"), sink, 1)
	_, err := p.ParseTo(0)
	require.Error(t, err)
}

func TestParserRejectsNestingMismatch(t *testing.T) {
	body := "\x01I 1\nx\n\x01E 2\n"
	sink := &collectSink{}
	p := NewParser(strings.NewReader(body), sink, 1)
	_, err := p.ParseTo(0)
	require.Error(t, err)
}

func TestWeaveSCCSStylePermutations(t *testing.T) {
	dir := t.TempDir()
	naming := NewSimpleNaming(dir, "sample", "weave")

	nums := make([]string, 20)
	for i := range nums {
		nums[i] = string(rune('a' + i%26))
	}
	perms := make([][]string, 10)
	cur := append([]string(nil), nums...)
	// Deterministic pseudo-shuffle: rotate by a growing offset each round,
	// mirroring the spec's "random permutations" scenario without
	// depending on a non-deterministic RNG in a test.
	for i := range perms {
		off := (i + 1) % len(cur)
		cur = append(append([]string(nil), cur[off:]...), cur[:off]...)
		perms[i] = append([]string(nil), cur...)
	}

	nw, err := NewNewWeave(naming, Tags{"name": "1"})
	require.NoError(t, err)
	writeLines(t, nw, perms[0])
	require.NoError(t, nw.Close())

	for i := 1; i < len(perms); i++ {
		dw, err := NewDeltaWriter(naming, Tags{"name": ""}, i)
		require.NoError(t, err)
		writeLines(t, dw, perms[i])
		require.NoError(t, dw.Close())
	}

	for i, want := range perms {
		got := parseAll(t, naming.MainPath(), i+1)
		require.Equalf(t, want, got, "delta %d", i+1)
	}
}

func TestReadHeadersRoundTripsEmptyTagValue(t *testing.T) {
	dir := t.TempDir()
	naming := NewSimpleNaming(dir, "sample", "weave")

	nw, err := NewNewWeave(naming, Tags{"name": "", "kind": "snapshot"})
	require.NoError(t, err)
	writeLines(t, nw, []string{"1"})
	require.NoError(t, nw.Close())

	headers, err := ReadHeaders(naming.MainPath())
	require.NoError(t, err)
	require.Len(t, headers, 1)
	v, ok := headers[0].Tags["name"]
	require.True(t, ok)
	require.Empty(t, v)
	require.Equal(t, "snapshot", headers[0].Tags["kind"])
}
