package tree

import (
	"bytes"
	"path"
	"sort"
)

// Visitor receives the events of a Comparator's depth-first traversal,
// in canonical byte-lex order, per spec.md §4.F and §5. Implementers
// may back it with a struct of function pointers or a small interface;
// the comparator assumes nothing about dispatch beyond these five
// calls.
type Visitor interface {
	Enter(p string)
	Leave(p string)
	Added(p string, kind Kind)
	Removed(p string, kind Kind)
	Changed(p string, kind Kind, attrsDiff []string)
}

// attrsAlwaysIgnored are attribute keys that, changed alone on a FILE,
// never produce a Changed event: inode churn is not informative on
// its own.
var attrsAlwaysIgnored = map[string]bool{
	"ino":   true,
	"ctime": true,
}

// significant are the FILE attribute keys whose change always is
// reported, even when ino/ctime also differ.
var significant = map[string]bool{
	"sha1":  true,
	"size":  true,
	"mtime": true,
	"perm":  true,
}

// Compare streams the differences between old and new to visitor,
// in depth-first canonical order.
func Compare(old, new *Tree, visitor Visitor) {
	compareDirs("", old.Root, new.Root, visitor)
}

// compareDirs merges the two (already canonically sorted) child
// sequences of old and new, the way a two-way merge over sorted lists
// does in O(n) -- the same technique the teacher's merkletrie
// doubleiter uses to step two noder sequences in lockstep.
func compareDirs(base string, old, new *Node, visitor Visitor) {
	p := joinPath(base, "")
	visitor.Enter(p)
	compareChildren(base, old.Dirs, new.Dirs, visitor, true)
	compareChildren(base, old.Files, new.Files, visitor, false)
	visitor.Leave(p)
}

func compareChildren(base string, oldList, newList []*Node, visitor Visitor, isDirs bool) {
	i, j := 0, 0
	for i < len(oldList) && j < len(newList) {
		o, n := oldList[i], newList[j]
		switch c := bytes.Compare(o.Name, n.Name); {
		case c < 0:
			reportRemoved(base, o, visitor)
			i++
		case c > 0:
			reportAdded(base, n, visitor)
			j++
		default:
			reportCommon(base, o, n, visitor, isDirs)
			i++
			j++
		}
	}
	for ; i < len(oldList); i++ {
		reportRemoved(base, oldList[i], visitor)
	}
	for ; j < len(newList); j++ {
		reportAdded(base, newList[j], visitor)
	}
}

func reportRemoved(base string, n *Node, visitor Visitor) {
	p := joinPath(base, string(n.Name))
	if n.IsDir() {
		visitor.Enter(p)
		for _, d := range n.Dirs {
			reportRemoved(p, d, visitor)
		}
		for _, f := range n.Files {
			reportRemoved(p, f, visitor)
		}
		visitor.Leave(p)
		return
	}
	visitor.Removed(p, n.Kind)
}

func reportAdded(base string, n *Node, visitor Visitor) {
	p := joinPath(base, string(n.Name))
	if n.IsDir() {
		visitor.Enter(p)
		for _, d := range n.Dirs {
			reportAdded(p, d, visitor)
		}
		for _, f := range n.Files {
			reportAdded(p, f, visitor)
		}
		visitor.Leave(p)
		return
	}
	visitor.Added(p, n.Kind)
}

func reportCommon(base string, o, n *Node, visitor Visitor, isDirs bool) {
	p := joinPath(base, string(o.Name))
	if o.Kind != n.Kind {
		// A kind change is reported as a removal of the old entry and
		// an addition of the new one -- there is no meaningful
		// "changed" between, say, a FILE and a SOCK at the same name.
		reportRemoved(base, o, visitor)
		reportAdded(base, n, visitor)
		return
	}
	if isDirs {
		if diff := attrsDiff(o, n); len(diff) > 0 {
			visitor.Changed(p, n.Kind, diff)
		}
		compareDirs(p, o, n, visitor)
		return
	}
	if diff := attrsDiff(o, n); len(diff) > 0 {
		visitor.Changed(p, n.Kind, diff)
	}
}

// attrsDiff returns the sorted list of attribute keys that differ
// between o and n (including keys present on only one side), filtered
// by the ino/ctime policy in spec.md §4.F, plus the synthetic
// hash-missing reason when sha1 disappears. Sorted so repeated
// comparisons of the same two trees always report changes in the same
// order, per spec.md §5's deterministic-output guarantee.
func attrsDiff(o, n *Node) []string {
	keys := map[string]bool{}
	for k := range o.Attrs {
		keys[k] = true
	}
	for k := range n.Attrs {
		keys[k] = true
	}

	var diff []string
	hasSignificant := false
	for k := range keys {
		ov, oOk := o.Attrs[k]
		nv, nOk := n.Attrs[k]
		if oOk && nOk && bytes.Equal(ov, nv) {
			continue
		}
		if k == "sha1" && oOk && !nOk {
			diff = append(diff, "hash-missing")
			hasSignificant = true
			continue
		}
		diff = append(diff, k)
		if significant[k] {
			hasSignificant = true
		}
	}
	sort.Strings(diff)

	if o.Kind != FILE {
		return diff
	}

	// If every differing key is in the always-ignored set (ino/ctime),
	// and nothing significant changed, suppress the event entirely.
	onlyIgnored := true
	for _, k := range diff {
		if !attrsAlwaysIgnored[k] {
			onlyIgnored = false
			break
		}
	}
	if onlyIgnored && !hasSignificant {
		return nil
	}
	return diff
}

func joinPath(base, name string) string {
	if base == "" {
		if name == "" {
			return "/"
		}
		return "/" + name
	}
	if name == "" {
		return base
	}
	return path.Join(base, name)
}
