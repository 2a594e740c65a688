package tree

import "fmt"

// Tree is a canonical, hashed, serializable snapshot of a filesystem
// subtree. Its Root is always a DIR node. A Tree is exclusively owned
// by its creator -- comparison and serialization only ever borrow it
// read-only; SetHash (via the hasher) is the sole mutation.
type Tree struct {
	Root *Node
}

// New wraps root as a Tree, requiring it to be a DIR node.
func New(root *Node) (*Tree, error) {
	if root == nil || root.Kind != DIR {
		return nil, fmt.Errorf("rsure/tree: tree root must be a DIR node")
	}
	return &Tree{Root: root}, nil
}

// Estimate summarizes the work a Hasher would have to do, without
// opening any file. See Hasher.Estimate.
type Estimate struct {
	Files int
	Bytes int64
}

// walkNode visits every node in canonical order, directories before
// their own children's siblings are visited (parent first).
func walkNode(n *Node, fn func(path []string, node *Node)) {
	var rec func(path []string, node *Node)
	rec = func(path []string, node *Node) {
		fn(path, node)
		if !node.IsDir() {
			return
		}
		for _, d := range node.Dirs {
			rec(append(append([]string(nil), path...), string(d.Name)), d)
		}
		for _, f := range node.Files {
			rec(append(append([]string(nil), path...), string(f.Name)), f)
		}
	}
	rec(nil, n)
}
