// Package rsure ties the tree, weave, and store packages together
// into the small surface a caller or the cmd/rsure binary actually
// needs: scan a directory, hash it, save/load an archive, compare two
// trees, print one. It mirrors the flat API the original rsure crate
// exposed at its root (scan_fs, SureTree::save/load, compare_from,
// parse_store) in Go idiom.
package rsure

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ruonli/rsure/store"
	"github.com/ruonli/rsure/tree"
)

// Re-exported so callers never need to import the tree or store
// packages directly for common usage.
type (
	Tree    = tree.Tree
	Node    = tree.Node
	Kind    = tree.Kind
	Visitor = tree.Visitor
	Version = store.Version
	Store   = store.Store
)

var (
	LatestVersion = store.LatestVersion
	PriorVersion  = store.PriorVersion
	TaggedVersion = store.TaggedVersion
	StdoutVisitor = tree.StdoutVisitor
	Compare       = tree.Compare
)

// ScanFS walks dir and returns its tree, without hashing file content.
// Call (*tree.Hasher).Update on the result to fill in sha1 attributes.
func ScanFS(dir string) (*Tree, error) {
	return tree.Walk(dir)
}

// HashTree hashes every qualifying file in t, reading file content
// under base. progress may be nil.
func HashTree(base string, t *Tree, progress tree.Progress) {
	tree.NewHasher(base).Update(t, progress)
}

// Load reads version v of the tree archived in s.
func Load(s Store, v Version) (*Tree, error) {
	return s.Load(v)
}

// Save writes tr to s as a new generation, tagged with tags (nil is
// fine; a plain store ignores tags entirely).
func Save(s Store, tr *Tree, tags map[string]string) error {
	return s.Save(tr, tags)
}

// ParseStore opens the store implied by name's extension: a path
// ending in ".weave" is a WeaveStore, anything else (conventionally
// "*.dat.gz") is a PlainStore. Both derive their directory and base
// name from name.
func ParseStore(name string) (Store, error) {
	dir, base, ext := splitStoreName(name)
	if ext == "weave" {
		return store.NewWeaveStore(dir, base), nil
	}
	return store.NewPlainStore(dir, base), nil
}

// splitStoreName splits name into its directory, base name (with
// ".dat.gz"/".weave" suffixes stripped), and which suffix it had.
func splitStoreName(name string) (dir, base, ext string) {
	dir = "."
	if idx := lastSlash(name); idx >= 0 {
		dir, name = name[:idx], name[idx+1:]
	}
	switch {
	case hasSuffix(name, ".weave"):
		return dir, name[:len(name)-len(".weave")], "weave"
	case hasSuffix(name, ".dat.gz"):
		return dir, name[:len(name)-len(".dat.gz")], "dat.gz"
	default:
		return dir, name, "dat.gz"
	}
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// Update implements the scan+hash+save+compare cycle the CLI's scan
// and update subcommands share: scan dir, hash it, compare against
// the store's current latest version if update is true (printing the
// difference to stdout), then save the new tree as the next
// generation. update=false is a first-time scan: nothing to compare
// against yet.
func Update(dir string, s Store, update bool, progress tree.Progress) error {
	newTree, err := ScanFS(dir)
	if err != nil {
		return fmt.Errorf("rsure: scan %s: %w", dir, err)
	}
	HashTree(dir, newTree, progress)

	if update {
		oldTree, err := s.Load(LatestVersion())
		if err != nil {
			return fmt.Errorf("rsure: load latest: %w", err)
		}
		Compare(oldTree, newTree, StdoutVisitor())
	} else {
		logrus.Debugf("rsure: first scan of %s, nothing to compare against", dir)
	}

	return s.Save(newTree, nil)
}

// Check scans dir, hashes it, and prints its difference against the
// store's latest saved version without saving anything.
func Check(dir string, s Store, progress tree.Progress) error {
	newTree, err := ScanFS(dir)
	if err != nil {
		return fmt.Errorf("rsure: scan %s: %w", dir, err)
	}
	HashTree(dir, newTree, progress)

	oldTree, err := s.Load(LatestVersion())
	if err != nil {
		return fmt.Errorf("rsure: load latest: %w", err)
	}
	Compare(oldTree, newTree, StdoutVisitor())
	return nil
}

// Signoff compares the store's prior and latest generations against
// each other, without touching the filesystem being tracked.
func Signoff(s Store) error {
	oldTree, err := s.Load(PriorVersion())
	if err != nil {
		return fmt.Errorf("rsure: load prior: %w", err)
	}
	newTree, err := s.Load(LatestVersion())
	if err != nil {
		return fmt.Errorf("rsure: load latest: %w", err)
	}
	Compare(oldTree, newTree, StdoutVisitor())
	return nil
}

// ShowTree pretty-prints the latest generation of s to w.
func ShowTree(s Store, w io.Writer) error {
	t, err := s.Load(LatestVersion())
	if err != nil {
		return err
	}
	return showNode(w, t.Root, "")
}

func showNode(w io.Writer, n *Node, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%s %s\n", indent, n.Kind, n.Name); err != nil {
		return err
	}
	for _, d := range n.Dirs {
		if err := showNode(w, d, indent+"  "); err != nil {
			return err
		}
	}
	for _, f := range n.Files {
		if _, err := fmt.Fprintf(w, "%s  %s %s\n", indent, f.Kind, f.Name); err != nil {
			return err
		}
	}
	return nil
}
