package store

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/ruonli/rsure/errs"
	"github.com/ruonli/rsure/tree"
)

// PlainStore is a single gzip-compressed file holding one tree
// serialization, with a single backup generation. Its version space
// is limited: Latest (the current file) and Prior (the rotated
// backup); Tagged is never supported.
type PlainStore struct {
	dir, name string
}

// NewPlainStore returns a PlainStore named name inside dir, e.g.
// NewPlainStore("/archive", "sample") reads and writes
// /archive/sample.dat.gz.
func NewPlainStore(dir, name string) *PlainStore {
	return &PlainStore{dir: dir, name: name}
}

func (s *PlainStore) mainPath() string   { return filepath.Join(s.dir, s.name+".dat.gz") }
func (s *PlainStore) backupPath() string { return filepath.Join(s.dir, s.name+".bak.gz") }
func (s *PlainStore) tempPath() string   { return filepath.Join(s.dir, s.name+".dat.gz.tmp") }

func (s *PlainStore) Load(v Version) (*tree.Tree, error) {
	var path string
	switch v.Kind {
	case Latest:
		path = s.mainPath()
	case Prior:
		path = s.backupPath()
	default:
		return nil, errUnsupportedVersion(v)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errUnsupportedVersion(v)
		}
		return nil, errs.NewIoError(path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, errs.NewIoError(path, err)
	}
	defer gz.Close()

	return tree.Decode(gz)
}

// Save writes tr to a temp file, fsyncs it, rotates any existing main
// file to the backup path, then renames the temp file into place.
// Tags are accepted for interface symmetry with the weave store but a
// plain store has nowhere to record them.
func (s *PlainStore) Save(tr *tree.Tree, _ map[string]string) error {
	tmp := s.tempPath()
	if err := s.writeCompressed(tmp, tr); err != nil {
		os.Remove(tmp)
		return err
	}

	main := s.mainPath()
	if _, err := os.Stat(main); err == nil {
		if err := os.Rename(main, s.backupPath()); err != nil {
			os.Remove(tmp)
			return errs.NewIoError(s.backupPath(), err)
		}
	}
	if err := os.Rename(tmp, main); err != nil {
		return errs.NewIoError(main, err)
	}
	return nil
}

func (s *PlainStore) writeCompressed(path string, tr *tree.Tree) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.NewIoError(path, err)
	}

	var buf bytes.Buffer
	if err := tree.Encode(&buf, tr); err != nil {
		f.Close()
		return err
	}

	gz := gzip.NewWriter(f)
	writeErr := func() error {
		if _, err := gz.Write(buf.Bytes()); err != nil {
			return err
		}
		return gz.Close()
	}()
	if writeErr == nil {
		writeErr = f.Sync()
	}
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return errs.NewIoError(path, writeErr)
	}
	return nil
}

func (s *PlainStore) Versions() ([]VersionInfo, error) {
	var out []VersionInfo
	if _, err := os.Stat(s.mainPath()); err == nil {
		out = append(out, VersionInfo{Label: "latest"})
	}
	if _, err := os.Stat(s.backupPath()); err == nil {
		out = append(out, VersionInfo{Label: "prior"})
	}
	return out, nil
}
