package tree

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/ruonli/rsure/attr"
)

// Node represents one filesystem entry: a directory, file, symlink, or
// special device/socket/fifo node. Name is a raw byte-sequence
// basename -- not necessarily valid Unicode, per spec.md §3.
type Node struct {
	Name  []byte
	Kind  Kind
	Attrs attr.Map

	// Dirs and Files are populated only when Kind == DIR. Dirs holds
	// child directories, Files holds every other child (regular
	// files, symlinks, device nodes). Both are kept in canonical
	// byte-lexicographic order by Name -- the ordering invariant that
	// every consumer (serializer, hasher, comparator) relies on.
	Dirs  []*Node
	Files []*Node
}

// NewLeaf builds a non-directory Node, validating that attrs carries
// every attribute Kind requires.
func NewLeaf(name []byte, kind Kind, attrs attr.Map) (*Node, error) {
	if kind == DIR {
		return nil, fmt.Errorf("rsure/tree: NewLeaf called with kind DIR, use NewDir")
	}
	if err := checkRequired(kind, attrs); err != nil {
		return nil, err
	}
	return &Node{Name: append([]byte(nil), name...), Kind: kind, Attrs: attrs.Clone()}, nil
}

// NewDir builds a directory Node from its children. dirs and files are
// sorted in place if not already in canonical order; duplicate names
// within either slice are rejected.
func NewDir(name []byte, attrs attr.Map, dirs, files []*Node) (*Node, error) {
	if err := checkRequired(DIR, attrs); err != nil {
		return nil, err
	}
	sortNodes(dirs)
	sortNodes(files)
	if err := checkUnique(dirs); err != nil {
		return nil, err
	}
	if err := checkUnique(files); err != nil {
		return nil, err
	}
	return &Node{
		Name:  append([]byte(nil), name...),
		Kind:  DIR,
		Attrs: attrs.Clone(),
		Dirs:  dirs,
		Files: files,
	}, nil
}

func checkRequired(kind Kind, attrs attr.Map) error {
	for _, key := range kind.RequiredAttrs() {
		if _, ok := attrs[key]; !ok {
			return fmt.Errorf("rsure/tree: %s node missing required attribute %q", kind, key)
		}
	}
	return nil
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return bytes.Compare(nodes[i].Name, nodes[j].Name) < 0
	})
}

func checkUnique(nodes []*Node) error {
	for i := 1; i < len(nodes); i++ {
		if bytes.Equal(nodes[i-1].Name, nodes[i].Name) {
			return fmt.Errorf("rsure/tree: duplicate child name %q", nodes[i].Name)
		}
	}
	return nil
}

// SetHash is the only post-construction mutation a Node supports: it
// records the SHA-1 of a FILE's content, as a lowercase hex string. It
// is the Tree Hasher's exclusive entry point.
func (n *Node) SetHash(sum []byte) {
	if n.Attrs == nil {
		n.Attrs = attr.Map{}
	}
	n.Attrs["sha1"] = []byte(hex.EncodeToString(sum))
}

// Sha1 returns the node's sha1 attribute (lowercase hex string) and
// whether it is present.
func (n *Node) Sha1() (string, bool) {
	v, ok := n.Attrs["sha1"]
	return string(v), ok
}

// IsDir reports whether n is a directory.
func (n *Node) IsDir() bool { return n.Kind == DIR }
