package store

import (
	"bytes"
	"os"
	"strings"

	"github.com/ruonli/rsure/errs"
	"github.com/ruonli/rsure/tree"
	"github.com/ruonli/rsure/weave"
)

// WeaveStore is a single weave file whose kept body at each delta is
// one tree serialization. Version space: Latest (the highest delta
// number), Prior (one before), Tagged(s) (the delta whose "name" tag
// equals s).
type WeaveStore struct {
	naming *weave.SimpleNaming
}

// NewWeaveStore returns a WeaveStore named name inside dir, reading
// and writing dir/name.weave.
func NewWeaveStore(dir, name string) *WeaveStore {
	return &WeaveStore{naming: weave.NewSimpleNaming(dir, name, "weave")}
}

func (s *WeaveStore) resolve(v Version, headers []weave.DeltaHeader) (int, error) {
	if len(headers) == 0 {
		return 0, errUnsupportedVersion(v)
	}
	max := 0
	for _, h := range headers {
		if h.Number > max {
			max = h.Number
		}
	}
	switch v.Kind {
	case Latest:
		return max, nil
	case Prior:
		if max <= 1 {
			return 0, errUnsupportedVersion(v)
		}
		return max - 1, nil
	case Tagged:
		for _, h := range headers {
			if h.Tags["name"] == v.Tag {
				return h.Number, nil
			}
		}
		return 0, errUnsupportedVersion(v)
	default:
		return 0, errUnsupportedVersion(v)
	}
}

func (s *WeaveStore) Load(v Version) (*tree.Tree, error) {
	headers, err := weave.ReadHeaders(s.naming.MainPath())
	if err != nil {
		if os.IsNotExist(asPathError(err)) {
			return nil, errUnsupportedVersion(v)
		}
		return nil, err
	}
	n, err := s.resolve(v, headers)
	if err != nil {
		return nil, err
	}
	lines, err := weave.Extract(s.naming.MainPath(), n)
	if err != nil {
		return nil, err
	}
	return tree.Decode(strings.NewReader(strings.Join(lines, "\n")))
}

// Save appends tr as a new delta, tagged with tags, based on the
// current latest delta. If the weave does not exist yet, this writes
// its first delta instead.
func (s *WeaveStore) Save(tr *tree.Tree, tags map[string]string) error {
	var buf bytes.Buffer
	if err := tree.Encode(&buf, tr); err != nil {
		return err
	}

	headers, err := weave.ReadHeaders(s.naming.MainPath())
	if err != nil && !os.IsNotExist(asPathError(err)) {
		return err
	}

	if len(headers) == 0 {
		w, err := weave.NewNewWeave(s.naming, weave.Tags(tags))
		if err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
		return w.Close()
	}

	max := 0
	for _, h := range headers {
		if h.Number > max {
			max = h.Number
		}
	}
	w, err := weave.NewDeltaWriter(s.naming, weave.Tags(tags), max)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return w.Close()
}

func (s *WeaveStore) Versions() ([]VersionInfo, error) {
	headers, err := weave.ReadHeaders(s.naming.MainPath())
	if err != nil {
		if os.IsNotExist(asPathError(err)) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]VersionInfo, 0, len(headers))
	for _, h := range headers {
		out = append(out, VersionInfo{Number: h.Number, Label: h.Tags["name"], Tags: h.Tags})
	}
	return out, nil
}

// asPathError unwraps an *errs.IoError back to the underlying OS
// error so os.IsNotExist still works after it has been wrapped.
func asPathError(err error) error {
	if e, ok := err.(*errs.IoError); ok {
		return e.Cause
	}
	return err
}
