package attr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscapeRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("hello"),
		[]byte("weird=name with\tspace"),
		[]byte{0x00, 0x01, 0x7f, 0xff},
		[]byte(""),
		[]byte("a=b\\c d"),
	}
	for _, raw := range cases {
		enc := Escape(raw)
		got, err := Unescape(enc)
		require.NoError(t, err)
		require.Equal(t, raw, got)
	}
}

func TestEscapePassesPrintableThrough(t *testing.T) {
	require.Equal(t, "abcXYZ019", Escape([]byte("abcXYZ019")))
}

func TestEscapeEscapesSpaceEqualsBackslash(t *testing.T) {
	require.Equal(t, "=20=3d=5c", Escape([]byte(" =\\")))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := Map{
		"uid":  []byte("1000"),
		"gid":  []byte("1000"),
		"perm": []byte("755"),
		"targ": []byte("some dir/with space"),
	}
	line := Encode(m)
	got, err := Decode(line)
	require.NoError(t, err)
	require.True(t, m.Equal(got))
}

func TestEncodeSortsKeys(t *testing.T) {
	m := Map{"zzz": []byte("1"), "aaa": []byte("2"), "mmm": []byte("3")}
	require.Equal(t, "aaa 2 mmm 3 zzz 1", Encode(m))
}

func TestDecodeRejectsOddTokens(t *testing.T) {
	_, err := Decode("uid 1000 gid")
	require.Error(t, err)
}

func TestDecodeRejectsBadEscape(t *testing.T) {
	_, err := Decode("uid =zz")
	require.Error(t, err)
}

func TestDecodeEmptyLine(t *testing.T) {
	m, err := Decode("")
	require.NoError(t, err)
	require.Empty(t, m)
}

func TestEncodeDecodeRoundTripsEmptyValue(t *testing.T) {
	m := Map{
		"uid":  []byte("1000"),
		"name": []byte(""),
		"gid":  []byte("1000"),
	}
	line := Encode(m)
	got, err := Decode(line)
	require.NoError(t, err)
	require.True(t, m.Equal(got))
	v, ok := got["name"]
	require.True(t, ok)
	require.Empty(t, v)
}
