package weave

import "path/filepath"

// Naming locates the on-disk files belonging to one weave archive: a
// main file, the path a writer stages into before the atomic rename,
// and the backup path the previous main file is rotated to.
type Naming interface {
	MainPath() string
	TempPath() string
	BackupPath() string
}

// SimpleNaming is the conventional "<dir>/<base>.<ext>" layout used by
// rsure's weave stores, grounded on the original crate's
// SimpleNaming(tdir, base, ext, compressed) constructor — compression
// is handled by the plain store, not here, so there is no boolean flag.
type SimpleNaming struct {
	Dir, Base, Ext string
}

// NewSimpleNaming returns a Naming rooted at dir, e.g.
// NewSimpleNaming("/archive", "sample", "weave") names
// /archive/sample.weave.
func NewSimpleNaming(dir, base, ext string) *SimpleNaming {
	return &SimpleNaming{Dir: dir, Base: base, Ext: ext}
}

func (n *SimpleNaming) MainPath() string {
	return filepath.Join(n.Dir, n.Base+"."+n.Ext)
}

func (n *SimpleNaming) TempPath() string {
	return filepath.Join(n.Dir, n.Base+"."+n.Ext+".tmp")
}

func (n *SimpleNaming) BackupPath() string {
	return filepath.Join(n.Dir, n.Base+"."+n.Ext+".bak")
}
