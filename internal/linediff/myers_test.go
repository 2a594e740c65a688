package linediff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func apply(old []string, changes []Change, next []string) []string {
	var out []string
	oi := 0
	for _, c := range changes {
		out = append(out, old[oi:c.P1]...)
		out = append(out, next[c.P2:c.P2+c.Ins]...)
		oi = c.P1 + c.Del
	}
	out = append(out, old[oi:]...)
	return out
}

func TestDiffEmptyInputs(t *testing.T) {
	require.Nil(t, Diff[string](nil, nil))
	require.Equal(t, []Change{{Ins: 2}}, Diff[string](nil, []string{"a", "b"}))
	require.Equal(t, []Change{{Del: 2}}, Diff[string]([]string{"a", "b"}, nil))
}

func TestDiffIdentical(t *testing.T) {
	lines := []string{"a", "b", "c"}
	require.Nil(t, Diff(lines, lines))
}

func TestDiffReconstructsTarget(t *testing.T) {
	cases := [][2][]string{
		{{"a", "b", "c"}, {"a", "x", "c"}},
		{{"a", "b", "c"}, {"a", "b", "c", "d"}},
		{{"a", "b", "c"}, {"b", "c"}},
		{{"one", "two", "three", "four"}, {"one", "three", "four", "five"}},
	}
	for _, tc := range cases {
		old, next := tc[0], tc[1]
		changes := Diff(old, next)
		require.Equal(t, next, apply(old, changes, next))
	}
}

func TestDiffPureInsertAndDelete(t *testing.T) {
	changes := Diff([]string{"a", "c"}, []string{"a", "b", "c"})
	require.Len(t, changes, 1)
	require.Equal(t, 0, changes[0].Del)
	require.Equal(t, 1, changes[0].Ins)

	changes2 := Diff([]string{"a", "b", "c"}, []string{"a", "c"})
	require.Len(t, changes2, 1)
	require.Equal(t, 1, changes2[0].Del)
	require.Equal(t, 0, changes2[0].Ins)
}
