// Package progress renders an advisory file/byte counter on stderr
// while a scan or hash pass runs. A quiet Bar is a valid zero value
// and does nothing, so callers never need to branch on whether
// progress display was requested.
package progress

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/ruonli/rsure/tree"
)

// Bar adapts an mpb bar to tree.Progress. Its zero value is a no-op,
// matching the quiet-mode pattern: construct with New only when
// output is wanted, and pass a bare &Bar{} (or nil) otherwise.
type Bar struct {
	prog  *mpb.Progress
	bar   *mpb.Bar
	files atomic.Int64
}

// New starts a progress bar tracking bytes hashed against est, with a
// files-done counter alongside it. description labels the bar, e.g.
// "hashing". Passing a zero Estimate (unknown total) renders an
// indeterminate bar instead of a percentage.
func New(description string, est tree.Estimate) *Bar {
	b := &Bar{}
	b.prog = mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithAutoRefresh(),
	)
	b.bar = b.prog.New(est.Bytes,
		mpb.BarStyle().Filler("#").Padding(" "),
		mpb.PrependDecorators(
			decor.Name(description, decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.Any(func(decor.Statistics) string {
				return fmt.Sprintf("%d/%d files", b.files.Load(), est.Files)
			}, decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Total(decor.SizeB1024(0), "% .2f", decor.WCSyncWidth),
			decor.EwmaSpeed(decor.SizeB1024(0), "% .2f/s ", 30),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30), "done",
			),
		),
	)
	return b
}

// Update implements tree.Progress.
func (b *Bar) Update(files int, bytes int64) {
	if b == nil || b.bar == nil {
		return
	}
	b.files.Store(int64(files))
	b.bar.SetCurrent(bytes)
}

// Done marks the bar complete and waits for the renderer to flush.
// Safe to call on a quiet (zero-value or nil) Bar.
func (b *Bar) Done() {
	if b == nil || b.bar == nil {
		return
	}
	if !b.bar.Completed() {
		b.bar.SetCurrent(b.bar.Current())
		b.bar.Abort(false)
	}
	b.prog.Wait()
}

var _ tree.Progress = (*Bar)(nil)
