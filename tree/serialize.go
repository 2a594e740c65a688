package tree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ruonli/rsure/errs"
	"github.com/ruonli/rsure/attr"
)

// Magic is the first line of every serialized tree stream.
const Magic = "asure-2.0"

const maxLineSize = 16 * 1024 * 1024

// Encode writes t to w using the grammar in spec.md §4.D: a magic
// header, a blank line, then a depth-first recursive-descent
// rendering of the tree with children in canonical order.
func Encode(w io.Writer, t *Tree) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n\n", Magic); err != nil {
		return err
	}
	if err := encodeDir(bw, t.Root); err != nil {
		return err
	}
	return bw.Flush()
}

func encodeDir(w *bufio.Writer, n *Node) error {
	if err := writeHeaderLine(w, 'd', n.Name, n.Attrs); err != nil {
		return err
	}
	for _, d := range n.Dirs {
		if err := encodeDir(w, d); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "-"); err != nil {
		return err
	}
	for _, f := range n.Files {
		c, ok := kindChars[f.Kind]
		if !ok {
			return fmt.Errorf("rsure/tree: node %q has unencodable kind %s", f.Name, f.Kind)
		}
		if err := writeHeaderLine(w, c, f.Name, f.Attrs); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "u")
	return err
}

func writeHeaderLine(w *bufio.Writer, kindByte byte, name []byte, attrs attr.Map) error {
	if err := w.WriteByte(kindByte); err != nil {
		return err
	}
	if _, err := w.WriteString(attr.Escape(name)); err != nil {
		return err
	}
	if encoded := attr.Encode(attrs); encoded != "" {
		if err := w.WriteByte(' '); err != nil {
			return err
		}
		if _, err := w.WriteString(encoded); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// parser drives the recursive-descent reader over a serialized tree
// stream, one line at a time.
type parser struct {
	sc     *bufio.Scanner
	lineNo int
	line   string
}

func (p *parser) next() bool {
	if !p.sc.Scan() {
		return false
	}
	p.lineNo++
	p.line = p.sc.Text()
	return true
}

func (p *parser) errf(format string, a ...any) error {
	return errs.NewFormatError(errs.FormatTree, p.lineNo, fmt.Sprintf(format, a...))
}

// Decode parses a stream previously written by Encode.
func Decode(r io.Reader) (*Tree, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	p := &parser{sc: sc}

	if !p.next() {
		return nil, p.errf("empty stream, expected magic %q", Magic)
	}
	if p.line != Magic {
		return nil, p.errf("bad magic %q, expected %q", p.line, Magic)
	}
	if !p.next() {
		return nil, p.errf("truncated stream, expected blank line")
	}
	if p.line != "" {
		return nil, p.errf("expected blank line after magic, got %q", p.line)
	}
	if !p.next() {
		return nil, p.errf("truncated stream, expected root directory")
	}
	root, err := p.readDir()
	if err != nil {
		return nil, err
	}
	if err := sc.Err(); err != nil {
		return nil, errs.NewIoError("", err)
	}
	return New(root)
}

// readDir assumes p.line holds the current directory's own "d..."
// header line, and on return leaves p.line positioned on that
// directory's closing "u" line.
func (p *parser) readDir() (*Node, error) {
	name, attrs, err := p.parseHeaderLine('d')
	if err != nil {
		return nil, err
	}

	var dirs []*Node
	for {
		if !p.next() {
			return nil, p.errf("truncated directory %q: expected '-' or child", name)
		}
		if p.line == "-" {
			break
		}
		if len(p.line) == 0 || p.line[0] != 'd' {
			return nil, p.errf("expected child directory or '-', got %q", p.line)
		}
		child, err := p.readDir()
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, child)
	}

	var files []*Node
	for {
		if !p.next() {
			return nil, p.errf("truncated directory %q: expected file entry or 'u'", name)
		}
		if p.line == "u" {
			break
		}
		kind, fname, fattrs, err := p.parseFileLine()
		if err != nil {
			return nil, err
		}
		leaf, err := NewLeaf(fname, kind, fattrs)
		if err != nil {
			return nil, p.errf("%v", err)
		}
		files = append(files, leaf)
	}

	node, err := NewDir(name, attrs, dirs, files)
	if err != nil {
		return nil, p.errf("%v", err)
	}
	return node, nil
}

func splitNameAttrs(rest string) (string, string) {
	idx := strings.IndexByte(rest, ' ')
	if idx < 0 {
		return rest, ""
	}
	return rest[:idx], rest[idx+1:]
}

func (p *parser) parseHeaderLine(want byte) ([]byte, attr.Map, error) {
	if len(p.line) == 0 || p.line[0] != want {
		return nil, nil, p.errf("expected directory line starting with %q, got %q", string(want), p.line)
	}
	nameStr, attrsStr := splitNameAttrs(p.line[1:])
	name, err := attr.Unescape(nameStr)
	if err != nil {
		return nil, nil, err
	}
	attrs, err := attr.Decode(attrsStr)
	if err != nil {
		return nil, nil, err
	}
	return name, attrs, nil
}

func (p *parser) parseFileLine() (Kind, []byte, attr.Map, error) {
	if len(p.line) == 0 {
		return 0, nil, nil, p.errf("empty file entry line")
	}
	kind, ok := charKinds[p.line[0]]
	if !ok {
		return 0, nil, nil, p.errf("unknown node kind char %q", string(p.line[0]))
	}
	nameStr, attrsStr := splitNameAttrs(p.line[1:])
	name, err := attr.Unescape(nameStr)
	if err != nil {
		return 0, nil, nil, err
	}
	attrs, err := attr.Decode(attrsStr)
	if err != nil {
		return 0, nil, nil, err
	}
	return kind, name, attrs, nil
}
