// Package weave implements an SCCS-compatible interleaved weave: a
// single text file holding every historical delta of a line-oriented
// document, retrievable by delta number without replaying each
// intermediate version.
package weave

// Control opcodes recognized in the body. Any other single-byte
// opcode after the leading SOH is a header/meta line and is skipped
// by the body parser without being handed to a Sink.
const (
	opInsert = 'I'
	opDelete = 'D'
	opEnd    = 'E'
	opStart  = 's'
	opTag    = 't'
	opTerm   = 'T'
)

const soh = '\x01'

// Tags is the set of name/value pairs recorded against a single
// delta, e.g. {"name": "initial"} in the first delta of a weave.
type Tags map[string]string

// DeltaHeader describes one delta's header record: its number, the
// length recorded at write time (the count of body lines the delta's
// content held), a random id distinguishing otherwise-identical
// deltas, and its tags.
type DeltaHeader struct {
	Number int
	Len    int
	Random string
	Tags   Tags
}

// Sink receives parser callbacks. Insert/Delete/End report block
// boundaries; Plain reports every body line together with whether it
// is part of the content visible at the parser's target delta.
// Embed BaseSink to get no-op Insert/Delete/End and implement only
// Plain, the way most callers do.
type Sink interface {
	Insert(delta int) error
	Delete(delta int) error
	End(delta int) error
	Plain(text string, keep bool) error
}

// BaseSink supplies no-op Insert/Delete/End for Sink implementations
// that only care about body content.
type BaseSink struct{}

func (BaseSink) Insert(int) error { return nil }
func (BaseSink) Delete(int) error { return nil }
func (BaseSink) End(int) error    { return nil }
