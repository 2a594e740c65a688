package weave

import (
	"bufio"
	"strconv"

	"github.com/ruonli/rsure/errs"
	"github.com/ruonli/rsure/internal/linediff"
	"github.com/ruonli/rsure/internal/randid"
)

// DeltaWriter appends a new delta to an existing weave, computed as a
// line diff against an existing base delta.
type DeltaWriter struct {
	lineAccumulator
	naming Naming
	tags   Tags
	base   int
}

// NewDeltaWriter prepares to append a delta based on delta number
// base. Nothing is read or written until Close.
func NewDeltaWriter(naming Naming, tags Tags, base int) (*DeltaWriter, error) {
	return &DeltaWriter{naming: naming, tags: tags, base: base}, nil
}

// Close computes the diff between base's content and everything
// written so far, splices new control markers into the existing
// weave, and atomically installs the result.
func (d *DeltaWriter) Close() error {
	newContent := d.Lines()

	headers, body, err := readWeaveFile(d.naming.MainPath())
	if err != nil {
		return err
	}
	baseContent, err := extractDelta(body, d.base)
	if err != nil {
		return err
	}

	t := maxDeltaNumber(headers) + 1
	changes := linediff.Diff(baseContent, newContent)

	newBody, err := spliceBody(body, d.base, t, changes, newContent)
	if err != nil {
		return err
	}

	newHeader := DeltaHeader{Number: t, Len: len(newContent), Random: randid.New(4), Tags: d.tags}
	allHeaders := append([]DeltaHeader{newHeader}, headers...)

	return atomicWriteWeave(d.naming, func(w *bufio.Writer) error {
		for _, h := range allHeaders {
			if err := writeHeader(w, h); err != nil {
				return err
			}
		}
		for _, l := range newBody {
			if _, err := w.WriteString(l); err != nil {
				return err
			}
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
		return nil
	})
}

// spliceBody re-emits body verbatim, splicing in I t / D t / E t
// markers that encode changes relative to delta base, expressed as
// 0-based positions and counts into the base's kept content
// (linediff.Change{P1,P2,Del,Ins}). Positions are tracked purely in
// terms of how many base-kept lines have been emitted so far, so
// interleaved control lines from older deltas never perturb them.
//
// A deleted span of base lines is simply wrapped in D t where it
// already sits in the stream: the lines still need whatever older
// insert put them there to stay active for targets before t. A brand
// new inserted span must NOT inherit any currently open block, though
// -- an enclosing older insert would wrongly make it visible for
// targets before t, and an enclosing older delete would wrongly hide
// it for targets at or after t. So before splicing in new content,
// every block still open at that point is closed (innermost first)
// and reopened (outermost first) once the new I t / E t is written,
// isolating it from the surrounding context.
func spliceBody(body []string, base, t int, changes []linediff.Change, newContent []string) ([]string, error) {
	stack := make([]block, 0, 4)
	keep := func() bool { return keepFromStack(stack, base) }

	var out []string
	emit := func(s string) { out = append(out, s) }
	emitMarker := func(op byte, n int) { emit(string([]byte{soh, op}) + " " + strconv.Itoa(n)) }

	closeStack := func() {
		for i := len(stack) - 1; i >= 0; i-- {
			emitMarker(opEnd, stack[i].n)
		}
	}
	reopenStack := func() {
		for _, b := range stack {
			emitMarker(b.op, b.n)
		}
	}
	emitInsert := func(lines []string) {
		closeStack()
		emitMarker(opInsert, t)
		for _, l := range lines {
			emit(l)
		}
		emitMarker(opEnd, t)
		reopenStack()
	}

	kept := 0
	ci := 0

	emitPureInsertsAt := func(at int) {
		for ci < len(changes) && changes[ci].P1 == at && changes[ci].Del == 0 && changes[ci].Ins > 0 {
			c := changes[ci]
			emitInsert(newContent[c.P2 : c.P2+c.Ins])
			ci++
		}
	}

	var openDelete *linediff.Change
	emitPureInsertsAt(0)

	for _, raw := range body {
		kind, op, n, _ := classify(raw)
		if kind == lineControl {
			switch op {
			case opInsert, opDelete:
				stack = append(stack, block{op: op, n: n})
			case opEnd:
				if len(stack) == 0 {
					return nil, errs.NewFormatError(errs.FormatWeave, 0, "unmatched E while splicing")
				}
				stack = stack[:len(stack)-1]
			}
			emit(raw)
			continue
		}
		if kind == lineHeader {
			emit(raw)
			continue
		}

		lineKeep := keep()
		if lineKeep && openDelete == nil && ci < len(changes) && changes[ci].P1 == kept && changes[ci].Del > 0 {
			emitMarker(opDelete, t)
			c := changes[ci]
			openDelete = &c
		}
		emit(raw)
		if lineKeep {
			kept++
			if openDelete != nil && kept == openDelete.P1+openDelete.Del {
				emitMarker(opEnd, t)
				if openDelete.Ins > 0 {
					emitInsert(newContent[openDelete.P2 : openDelete.P2+openDelete.Ins])
				}
				ci++
				openDelete = nil
			}
			emitPureInsertsAt(kept)
		}
	}

	if openDelete != nil || ci != len(changes) {
		return nil, errs.NewWeaveInvariant("diff hunks did not align with base content while splicing weave")
	}
	return out, nil
}
