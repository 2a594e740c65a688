// Package attr implements the wire codec for per-node metadata: sorted
// "key value" pairs on a single line, with byte-for-byte escaping of
// anything outside a small printable-ASCII safe set.
package attr

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/ruonli/rsure/errs"
)

// Map holds a node's attribute set: ASCII keys to arbitrary-byte
// values. A nil Map encodes as the empty string.
type Map map[string][]byte

// Clone returns a deep copy of m.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		cp := make([]byte, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// Equal reports whether m and other hold the same keys and values.
func (m Map) Equal(other Map) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		ov, ok := other[k]
		if !ok || string(v) != string(ov) {
			return false
		}
	}
	return true
}

// needsEscape reports whether b must be written as "=HH".
func needsEscape(b byte) bool {
	if b < 0x21 || b > 0x7e {
		return true
	}
	switch b {
	case '=', '\\', ' ':
		return true
	}
	return false
}

// Escape renders raw as the wire encoding used for both attribute
// values and node names: printable ASCII passes through, everything
// else becomes "=HH" (lowercase hex).
func Escape(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		if needsEscape(c) {
			b.WriteByte('=')
			b.WriteString(hex.EncodeToString([]byte{c}))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Unescape reverses Escape. A malformed "=" escape (missing or
// non-hex digits) is a FormatError.
func Unescape(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '=' {
			out = append(out, c)
			continue
		}
		if i+2 >= len(s) {
			return nil, errs.NewFormatError(errs.FormatAttribute, 0, fmt.Sprintf("truncated escape in %q", s))
		}
		b, err := hex.DecodeString(s[i+1 : i+3])
		if err != nil || len(b) != 1 {
			return nil, errs.NewFormatError(errs.FormatAttribute, 0, fmt.Sprintf("bad escape %q", s[i:i+3]))
		}
		out = append(out, b[0])
		i += 2
	}
	return out, nil
}

// Encode renders m as sorted "key value" pairs separated by single
// spaces. Keys are assumed to already be safe ASCII identifiers (the
// fixed set in spec.md §3) and are never escaped; values always are.
func Encode(m Map) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		parts = append(parts, k, Escape(m[k]))
	}
	return strings.Join(parts, " ")
}

// Decode parses a line produced by Encode. Tokens are split on single
// spaces rather than collapsed runs of whitespace, so a key whose
// value encoded empty (Escape of a zero-length value) still produces
// two tokens instead of vanishing. An odd number of tokens, or a
// malformed escape, is a FormatError.
func Decode(line string) (Map, error) {
	if line == "" {
		return Map{}, nil
	}
	fields := strings.Split(line, " ")
	if len(fields)%2 != 0 {
		return nil, errs.NewFormatError(errs.FormatAttribute, 0, fmt.Sprintf("odd attribute token count in %q", line))
	}
	m := make(Map, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		key := fields[i]
		val, err := Unescape(fields[i+1])
		if err != nil {
			return nil, err
		}
		if _, dup := m[key]; dup {
			return nil, errs.NewFormatError(errs.FormatAttribute, 0, fmt.Sprintf("duplicate attribute key %q", key))
		}
		m[key] = val
	}
	return m, nil
}
