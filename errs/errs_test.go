package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIoErrorNilCauseReturnsNil(t *testing.T) {
	require.Nil(t, NewIoError("a", nil))
}

func TestIoErrorUnwrapAndIs(t *testing.T) {
	cause := errors.New("boom")
	err := NewIoError("/tmp/x", cause)
	require.True(t, IsIoError(err))
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "/tmp/x")
}

func TestFormatErrorKindString(t *testing.T) {
	require.Equal(t, "attribute", FormatAttribute.String())
	require.Equal(t, "tree", FormatTree.String())
	require.Equal(t, "weave", FormatWeave.String())
}

func TestFormatErrorMessage(t *testing.T) {
	err := NewFormatError(FormatWeave, 12, "unmatched E")
	require.True(t, IsFormatError(err))
	require.Contains(t, err.Error(), "line 12")
}

func TestHashErrorNilCauseReturnsNil(t *testing.T) {
	require.Nil(t, NewHashError("a", nil))
}

func TestWeaveInvariantAndVersionNotFound(t *testing.T) {
	require.Contains(t, NewWeaveInvariant("bad nesting").Error(), "bad nesting")

	vErr := NewVersionNotFound("tag:v1")
	require.True(t, IsVersionNotFound(vErr))
	require.Contains(t, vErr.Error(), "tag:v1")
}
