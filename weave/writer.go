package weave

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/ruonli/rsure/attr"
	"github.com/ruonli/rsure/errs"
	"github.com/ruonli/rsure/internal/randid"
)

// lineAccumulator buffers text written through io.Writer.Write into
// discrete lines, the way the original crate's Write impl let callers
// use writeln! against a weave writer. A weave's header cannot be
// finalized until every line of its content is known (the header
// records a line count), so both NewWeave and DeltaWriter buffer
// their content and only touch disk on Close.
type lineAccumulator struct {
	lines []string
	carry []byte
}

func (a *lineAccumulator) Write(p []byte) (int, error) {
	a.carry = append(a.carry, p...)
	for {
		i := bytes.IndexByte(a.carry, '\n')
		if i < 0 {
			break
		}
		a.lines = append(a.lines, string(a.carry[:i]))
		a.carry = a.carry[i+1:]
	}
	return len(p), nil
}

// Lines flushes any trailing partial line and returns everything
// written so far.
func (a *lineAccumulator) Lines() []string {
	if len(a.carry) > 0 {
		a.lines = append(a.lines, string(a.carry))
		a.carry = nil
	}
	return a.lines
}

// NewWeave writes the first delta of a fresh weave.
type NewWeave struct {
	lineAccumulator
	naming Naming
	tags   Tags
}

// NewNewWeave begins a new weave named by naming, recording tags
// against its first delta. Nothing touches disk until Close.
func NewNewWeave(naming Naming, tags Tags) (*NewWeave, error) {
	return &NewWeave{naming: naming, tags: tags}, nil
}

// Close finalizes delta 1's header, fsyncs, and atomically installs
// the weave at naming.MainPath().
func (w *NewWeave) Close() error {
	lines := w.Lines()
	header := DeltaHeader{Number: 1, Len: len(lines), Random: randid.New(4), Tags: w.tags}
	return atomicWriteWeave(w.naming, func(bw *bufio.Writer) error {
		if err := writeHeader(bw, header); err != nil {
			return err
		}
		if err := writeBlock(bw, opInsert, 1, lines); err != nil {
			return err
		}
		return nil
	})
}

// writeHeader emits one delta's "s"/"t"*/"T" record.
func writeHeader(w *bufio.Writer, h DeltaHeader) error {
	if _, err := fmt.Fprintf(w, "%c%c %d %d %s\n", soh, opStart, h.Number, h.Len, h.Random); err != nil {
		return err
	}
	keys := make([]string, 0, len(h.Tags))
	for k := range h.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%c%c %s %s\n", soh, opTag, k, attr.Escape([]byte(h.Tags[k]))); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%c%c\n", soh, opTerm); err != nil {
		return err
	}
	return nil
}

// writeBlock emits an open marker for op (I or D), every line verbatim,
// then the matching close marker.
func writeBlock(w *bufio.Writer, op byte, delta int, lines []string) error {
	if _, err := fmt.Fprintf(w, "%c%c %d\n", soh, op, delta); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s\n", l); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%c%c %d\n", soh, opEnd, delta)
	return err
}

// atomicWriteWeave stages fn's output into naming.TempPath(), fsyncs
// it, rotates any existing main file to naming.BackupPath(), then
// renames the temp file into place -- the same create/write/fsync/
// rename/remove-on-error sequence as the teacher's config atomicEncode.
func atomicWriteWeave(naming Naming, fn func(*bufio.Writer) error) error {
	tmp := naming.TempPath()
	f, err := os.Create(tmp)
	if err != nil {
		return errs.NewIoError(tmp, err)
	}
	bw := bufio.NewWriter(f)
	writeErr := fn(bw)
	if writeErr == nil {
		writeErr = bw.Flush()
	}
	if writeErr == nil {
		writeErr = f.Sync()
	}
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmp)
		return errs.NewIoError(tmp, writeErr)
	}

	main := naming.MainPath()
	if _, statErr := os.Stat(main); statErr == nil {
		if err := os.Rename(main, naming.BackupPath()); err != nil {
			os.Remove(tmp)
			return errs.NewIoError(naming.BackupPath(), err)
		}
	}
	if err := os.Rename(tmp, main); err != nil {
		return errs.NewIoError(main, err)
	}
	return nil
}
