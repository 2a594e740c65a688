package tree

import (
	"crypto/sha1"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

// Progress receives advisory updates from Hasher.Update. Counts are
// cumulative totals processed so far, not per-call deltas.
type Progress interface {
	Update(files int, bytes int64)
}

// noProgress is used when the caller passes nil.
type noProgress struct{}

func (noProgress) Update(int, int64) {}

// chunkPool hands out bounded-memory read buffers for streaming
// hashing, the way modules/streamio pools []byte buffers in the
// teacher so repeated hash_update calls don't churn the allocator.
var chunkPool = sync.Pool{
	New: func() any {
		b := make([]byte, 32*1024)
		return &b
	},
}

// Hasher walks a Tree in canonical order and fills in the sha1
// attribute of every FILE node that lacks one and has a non-zero size.
type Hasher struct {
	// Base is the directory the tree was scanned from; file paths are
	// resolved relative to it.
	Base string
}

// NewHasher returns a Hasher rooted at base.
func NewHasher(base string) *Hasher {
	return &Hasher{Base: base}
}

func needsHash(n *Node) bool {
	if n.Kind != FILE {
		return false
	}
	if _, ok := n.Sha1(); ok {
		return false
	}
	sizeRaw, ok := n.Attrs["size"]
	if !ok {
		return false
	}
	size, err := strconv.ParseInt(string(sizeRaw), 10, 64)
	if err != nil {
		return false
	}
	return size != 0
}

// Estimate reports how much work Update would have to do, without
// opening any file -- a pure walk over the tree's size attributes.
func (h *Hasher) Estimate(t *Tree) Estimate {
	var est Estimate
	walkNode(t.Root, func(_ []string, n *Node) {
		if !needsHash(n) {
			return
		}
		est.Files++
		if sizeRaw, ok := n.Attrs["size"]; ok {
			if size, err := strconv.ParseInt(string(sizeRaw), 10, 64); err == nil {
				est.Bytes += size
			}
		}
	})
	return est
}

// Update hashes every qualifying FILE node in canonical tree order,
// invoking progress.Update after each file with cumulative totals.
// A file that cannot be opened or read is logged and left without a
// sha1 attribute -- the comparator will later flag it as changed with
// reason hash-missing. progress may be nil.
func (h *Hasher) Update(t *Tree, progress Progress) {
	if progress == nil {
		progress = noProgress{}
	}
	var doneFiles int
	var doneBytes int64
	walkNode(t.Root, func(path []string, n *Node) {
		if !needsHash(n) {
			return
		}
		full := filepath.Join(append([]string{h.Base}, path...)...)
		if err := hashOne(full, n); err != nil {
			logrus.Warnf("rsure: hash %s: %v", full, err)
			doneFiles++
			progress.Update(doneFiles, doneBytes)
			return
		}
		doneFiles++
		if sizeRaw, ok := n.Attrs["size"]; ok {
			if size, err := strconv.ParseInt(string(sizeRaw), 10, 64); err == nil {
				doneBytes += size
			}
		}
		progress.Update(doneFiles, doneBytes)
	})
}

func hashOne(path string, n *Node) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha1.New()
	bufp := chunkPool.Get().(*[]byte)
	defer chunkPool.Put(bufp)
	if _, err := io.CopyBuffer(h, f, *bufp); err != nil {
		return err
	}
	n.SetHash(h.Sum(nil))
	return nil
}
