package tree

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// stdoutVisitor renders comparison events as one line each, in the
// style of classic Unix file-integrity tools: a leading marker column
// followed by the path.
type stdoutVisitor struct {
	w io.Writer
}

// StdoutVisitor returns a Visitor that prints each event to stdout.
// Enter/Leave are silent; only Added/Removed/Changed produce output.
func StdoutVisitor() Visitor {
	return &stdoutVisitor{w: os.Stdout}
}

func (v *stdoutVisitor) Enter(string) {}
func (v *stdoutVisitor) Leave(string) {}

func (v *stdoutVisitor) Added(p string, kind Kind) {
	fmt.Fprintf(v.w, "+ %-6s %s\n", kind, p)
}

func (v *stdoutVisitor) Removed(p string, kind Kind) {
	fmt.Fprintf(v.w, "- %-6s %s\n", kind, p)
}

func (v *stdoutVisitor) Changed(p string, kind Kind, attrsDiff []string) {
	fmt.Fprintf(v.w, "c %-6s %s [%s]\n", kind, p, strings.Join(attrsDiff, ","))
}
