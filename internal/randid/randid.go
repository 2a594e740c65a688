// Package randid generates short random identifiers for weave delta
// headers, the way antgroup-hugescm/modules/strengthen/rid.go
// generates request/resource ids: crypto/rand bytes, hex-encoded.
package randid

import (
	"crypto/rand"
	"encoding/hex"
	"io"
)

var rander = rand.Reader

// New returns a random lowercase-hex identifier of the given byte
// length (the resulting string is twice as long). It never fails: on
// the vanishingly unlikely event crypto/rand is unavailable, it
// returns an all-zero id rather than propagating an error into a
// delta-writer invariant it isn't worth modeling.
func New(n int) string {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rander, buf); err != nil {
		return hex.EncodeToString(make([]byte, n))
	}
	return hex.EncodeToString(buf)
}
