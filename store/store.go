// Package store binds a tree archive (§4.D's serialization) to the
// filesystem, in either of the two layouts spec.md §4.J describes: a
// single gzip-compressed file with one backup generation, or an
// SCCS-style weave holding every historical delta.
package store

import (
	"github.com/ruonli/rsure/errs"
	"github.com/ruonli/rsure/tree"
)

// VersionKind selects which generation of an archive to load.
type VersionKind int

const (
	Latest VersionKind = iota
	Prior
	Tagged
)

// Version identifies one archived generation. Use LatestVersion,
// PriorVersion, or TaggedVersion to build one.
type Version struct {
	Kind VersionKind
	Tag  string
}

func LatestVersion() Version            { return Version{Kind: Latest} }
func PriorVersion() Version             { return Version{Kind: Prior} }
func TaggedVersion(tag string) Version  { return Version{Kind: Tagged, Tag: tag} }

func (v Version) String() string {
	switch v.Kind {
	case Latest:
		return "latest"
	case Prior:
		return "prior"
	case Tagged:
		return "tag:" + v.Tag
	default:
		return "unknown"
	}
}

// VersionInfo describes one generation available from a Store.
type VersionInfo struct {
	// Number is the delta number for a weave store, or 0 for a plain
	// store (which has no delta numbering).
	Number int
	// Label names the generation the way a caller would ask for it:
	// "latest", "prior", or a tag value.
	Label string
	Tags  map[string]string
}

// Store loads and saves tree archives.
type Store interface {
	Load(v Version) (*tree.Tree, error)
	Save(tr *tree.Tree, tags map[string]string) error
	Versions() ([]VersionInfo, error)
}

func errUnsupportedVersion(v Version) error {
	return errs.NewVersionNotFound(v.String())
}
