package rsure

import "github.com/ruonli/rsure/errs"

// These aliases let callers of the top-level facade write rsure.IoError
// etc. without importing the errs package directly, mirroring the
// single flat Result/Error namespace original_source/src/errors.rs
// exposed at the crate root.
type (
	IoError         = errs.IoError
	FormatError     = errs.FormatError
	FormatErrorKind = errs.FormatErrorKind
	HashError       = errs.HashError
	WeaveInvariant  = errs.WeaveInvariant
	VersionNotFound = errs.VersionNotFound
)

const (
	FormatAttribute = errs.FormatAttribute
	FormatTree      = errs.FormatTree
	FormatWeave     = errs.FormatWeave
)

var (
	NewIoError         = errs.NewIoError
	NewFormatError     = errs.NewFormatError
	NewHashError       = errs.NewHashError
	NewWeaveInvariant  = errs.NewWeaveInvariant
	NewVersionNotFound = errs.NewVersionNotFound
	IsIoError          = errs.IsIoError
	IsFormatError      = errs.IsFormatError
	IsHashError        = errs.IsHashError
	IsVersionNotFound  = errs.IsVersionNotFound
)
