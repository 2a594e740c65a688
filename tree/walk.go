package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"

	"github.com/ruonli/rsure/errs"
	"github.com/ruonli/rsure/attr"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Walk scans the live directory at root and returns a freshly built
// Tree. Symlinks are always recorded as LINK and never followed.
// Errors on individual entries are logged and the entry is omitted;
// Walk itself only fails if root cannot be read at all.
func Walk(root string) (*Tree, error) {
	node, err := walkDir(root, "", root)
	if err != nil {
		return nil, errs.NewIoError(root, err)
	}
	return New(node)
}

func walkDir(base, relPath, absPath string) (*Node, error) {
	fi, err := os.Lstat(absPath)
	if err != nil {
		return nil, err
	}
	attrs, err := dirAttrs(fi)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(absPath)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.Strings(names)

	var dirs, files []*Node
	for _, name := range names {
		childRel := filepath.Join(relPath, name)
		childAbs := filepath.Join(absPath, name)
		fi, err := os.Lstat(childAbs)
		if err != nil {
			logrus.Warnf("rsure: walk: skipping %s: %v", childAbs, err)
			continue
		}
		if fi.IsDir() {
			child, err := walkDir(base, childRel, childAbs)
			if err != nil {
				logrus.Warnf("rsure: walk: skipping directory %s: %v", childAbs, err)
				continue
			}
			dirs = append(dirs, child)
			continue
		}
		leaf, err := walkLeaf(childAbs, fi)
		if err != nil {
			logrus.Warnf("rsure: walk: skipping %s: %v", childAbs, err)
			continue
		}
		files = append(files, leaf)
	}

	name := ""
	if relPath != "" {
		name = filepath.Base(relPath)
	}
	return NewDir([]byte(name), attrs, dirs, files)
}

func walkLeaf(path string, fi os.FileInfo) (*Node, error) {
	mode := fi.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return nil, err
		}
		attrs := attr.Map{"targ": []byte(target)}
		return NewLeaf([]byte(fi.Name()), LINK, attrs)
	case mode.IsRegular():
		attrs, err := fileAttrs(fi)
		if err != nil {
			return nil, err
		}
		return NewLeaf([]byte(fi.Name()), FILE, attrs)
	case mode&os.ModeNamedPipe != 0:
		attrs, err := deviceAttrs(fi)
		if err != nil {
			return nil, err
		}
		return NewLeaf([]byte(fi.Name()), FIFO, attrs)
	case mode&os.ModeSocket != 0:
		attrs, err := deviceAttrs(fi)
		if err != nil {
			return nil, err
		}
		return NewLeaf([]byte(fi.Name()), SOCK, attrs)
	case mode&os.ModeCharDevice != 0:
		attrs, err := deviceAttrs(fi)
		if err != nil {
			return nil, err
		}
		return NewLeaf([]byte(fi.Name()), CHR, attrs)
	case mode&os.ModeDevice != 0:
		attrs, err := deviceAttrs(fi)
		if err != nil {
			return nil, err
		}
		return NewLeaf([]byte(fi.Name()), BLK, attrs)
	default:
		return nil, fmt.Errorf("rsure/tree: unsupported file type %v for %s", mode, path)
	}
}

func statOf(fi os.FileInfo) (*syscall.Stat_t, error) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("rsure/tree: unsupported platform: no syscall.Stat_t for %s", fi.Name())
	}
	return st, nil
}

func ownerPermAttrs(fi os.FileInfo) (attr.Map, error) {
	st, err := statOf(fi)
	if err != nil {
		return nil, err
	}
	return attr.Map{
		"uid":  []byte(strconv.FormatUint(uint64(st.Uid), 10)),
		"gid":  []byte(strconv.FormatUint(uint64(st.Gid), 10)),
		"perm": []byte(strconv.FormatUint(uint64(fi.Mode().Perm()), 8)),
	}, nil
}

func dirAttrs(fi os.FileInfo) (attr.Map, error) {
	return ownerPermAttrs(fi)
}

func fileAttrs(fi os.FileInfo) (attr.Map, error) {
	st, err := statOf(fi)
	if err != nil {
		return nil, err
	}
	a, err := ownerPermAttrs(fi)
	if err != nil {
		return nil, err
	}
	a["mtime"] = []byte(strconv.FormatInt(fi.ModTime().Unix(), 10))
	a["ctime"] = []byte(strconv.FormatInt(int64(st.Ctim.Sec), 10))
	a["ino"] = []byte(strconv.FormatUint(st.Ino, 10))
	a["size"] = []byte(strconv.FormatInt(fi.Size(), 10))
	return a, nil
}

func deviceAttrs(fi os.FileInfo) (attr.Map, error) {
	st, err := statOf(fi)
	if err != nil {
		return nil, err
	}
	a, err := ownerPermAttrs(fi)
	if err != nil {
		return nil, err
	}
	rdev := uint64(st.Rdev)
	a["devmaj"] = []byte(strconv.FormatUint(uint64(unix.Major(rdev)), 10))
	a["devmin"] = []byte(strconv.FormatUint(uint64(unix.Minor(rdev)), 10))
	return a, nil
}
