package tree

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWalkBuildsCanonicalTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("hello\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b", "c"), []byte("world\n"), 0o644))

	tr, err := Walk(dir)
	require.NoError(t, err)

	require.Len(t, tr.Root.Files, 1)
	require.Equal(t, "a", string(tr.Root.Files[0].Name))
	require.Equal(t, FILE, tr.Root.Files[0].Kind)

	require.Len(t, tr.Root.Dirs, 1)
	require.Equal(t, "b", string(tr.Root.Dirs[0].Name))
	require.Len(t, tr.Root.Dirs[0].Files, 1)
	require.Equal(t, "c", string(tr.Root.Dirs[0].Files[0].Name))
}

func TestWalkRecordsSymlinkAsLink(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "target"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink("target", filepath.Join(dir, "link")))

	tr, err := Walk(dir)
	require.NoError(t, err)

	var link *Node
	for _, f := range tr.Root.Files {
		if string(f.Name) == "link" {
			link = f
		}
	}
	require.NotNil(t, link)
	require.Equal(t, LINK, link.Kind)
	require.Equal(t, "target", string(link.Attrs["targ"]))
}

func TestWalkSortsChildrenCanonically(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zebra", "apple", "mango"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	tr, err := Walk(dir)
	require.NoError(t, err)
	require.Len(t, tr.Root.Files, 3)
	require.Equal(t, "apple", string(tr.Root.Files[0].Name))
	require.Equal(t, "mango", string(tr.Root.Files[1].Name))
	require.Equal(t, "zebra", string(tr.Root.Files[2].Name))
}

func TestScanAndCompareRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("hello\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b", "c"), []byte("world\n"), 0o644))

	tr, err := Walk(dir)
	require.NoError(t, err)
	NewHasher(dir).Update(tr, nil)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tr))
	loaded, err := Decode(&buf)
	require.NoError(t, err)

	v := &countingVisitor{}
	Compare(loaded, tr, v)
	require.Zero(t, v.added)
	require.Zero(t, v.removed)
	require.Zero(t, v.changed)

	// Now add a new file and rescan.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new"), []byte("z"), 0o644))
	tr2, err := Walk(dir)
	require.NoError(t, err)
	NewHasher(dir).Update(tr2, nil)

	v2 := &countingVisitor{}
	Compare(loaded, tr2, v2)
	require.Equal(t, 1, v2.added)
}
