package errs

import "fmt"

// IoError wraps a filesystem operation failure with the path that
// triggered it.
type IoError struct {
	Path  string
	Cause error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("rsure: io error on %q: %v", e.Path, e.Cause)
}

func (e *IoError) Unwrap() error { return e.Cause }

// NewIoError builds an IoError for path, or returns nil if cause is nil.
func NewIoError(path string, cause error) error {
	if cause == nil {
		return nil
	}
	return &IoError{Path: path, Cause: cause}
}

// IsIoError reports whether err is an *IoError.
func IsIoError(err error) bool {
	_, ok := err.(*IoError)
	return ok
}

// FormatErrorKind distinguishes which wire grammar was violated.
type FormatErrorKind int

const (
	FormatAttribute FormatErrorKind = iota
	FormatTree
	FormatWeave
)

func (k FormatErrorKind) String() string {
	switch k {
	case FormatAttribute:
		return "attribute"
	case FormatTree:
		return "tree"
	case FormatWeave:
		return "weave"
	default:
		return "unknown"
	}
}

// FormatError reports a grammar violation in a tree or weave stream.
type FormatError struct {
	Kind   FormatErrorKind
	Line   int
	Detail string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("rsure: %s format error at line %d: %s", e.Kind, e.Line, e.Detail)
}

// NewFormatError builds a FormatError.
func NewFormatError(kind FormatErrorKind, line int, detail string) error {
	return &FormatError{Kind: kind, Line: line, Detail: detail}
}

// IsFormatError reports whether err is a *FormatError.
func IsFormatError(err error) bool {
	_, ok := err.(*FormatError)
	return ok
}

// HashError reports that a file could not be read while hashing it. It
// is always non-fatal: the caller logs it and the node's sha1
// attribute is left absent.
type HashError struct {
	Path  string
	Cause error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("rsure: unable to hash %q: %v", e.Path, e.Cause)
}

func (e *HashError) Unwrap() error { return e.Cause }

// NewHashError builds a HashError, or returns nil if cause is nil.
func NewHashError(path string, cause error) error {
	if cause == nil {
		return nil
	}
	return &HashError{Path: path, Cause: cause}
}

// IsHashError reports whether err is a *HashError.
func IsHashError(err error) bool {
	_, ok := err.(*HashError)
	return ok
}

// WeaveInvariant indicates an internal consistency violation in the
// delta writer -- a bug, not bad user input.
type WeaveInvariant struct {
	Detail string
}

func (e *WeaveInvariant) Error() string {
	return fmt.Sprintf("rsure: weave invariant violated: %s", e.Detail)
}

// NewWeaveInvariant builds a WeaveInvariant error.
func NewWeaveInvariant(detail string) error {
	return &WeaveInvariant{Detail: detail}
}

// VersionNotFound reports that a requested version selector matched no
// delta or file in an archive.
type VersionNotFound struct {
	Spec string
}

func (e *VersionNotFound) Error() string {
	return fmt.Sprintf("rsure: version not found: %s", e.Spec)
}

// NewVersionNotFound builds a VersionNotFound error.
func NewVersionNotFound(spec string) error {
	return &VersionNotFound{Spec: spec}
}

// IsVersionNotFound reports whether err is a *VersionNotFound.
func IsVersionNotFound(err error) bool {
	_, ok := err.(*VersionNotFound)
	return ok
}
