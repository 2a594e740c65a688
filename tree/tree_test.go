package tree

import (
	"bytes"
	"testing"

	"github.com/ruonli/rsure/attr"
	"github.com/stretchr/testify/require"
)

func dirAttrsFixture() attr.Map {
	return attr.Map{"uid": []byte("0"), "gid": []byte("0"), "perm": []byte("755")}
}

func fileAttrsFixture(size string) attr.Map {
	return attr.Map{
		"uid": []byte("0"), "gid": []byte("0"), "perm": []byte("644"),
		"mtime": []byte("1000"), "ctime": []byte("1000"),
		"ino": []byte("1"), "size": []byte(size),
	}
}

func mustTree(t *testing.T) *Tree {
	t.Helper()
	a, err := NewLeaf([]byte("a"), FILE, fileAttrsFixture("6"))
	require.NoError(t, err)
	c, err := NewLeaf([]byte("c"), FILE, fileAttrsFixture("6"))
	require.NoError(t, err)
	b, err := NewDir([]byte("b"), dirAttrsFixture(), nil, []*Node{c})
	require.NoError(t, err)
	root, err := NewDir(nil, dirAttrsFixture(), []*Node{b}, []*Node{a})
	require.NoError(t, err)
	tr, err := New(root)
	require.NoError(t, err)
	return tr
}

func TestSerializeRoundTrip(t *testing.T) {
	tr := mustTree(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tr))

	got, err := Decode(&buf)
	require.NoError(t, err)

	var want, have bytes.Buffer
	require.NoError(t, Encode(&want, tr))
	require.NoError(t, Encode(&have, got))
	require.Equal(t, want.String(), have.String())
}

func TestSerializeWeirdName(t *testing.T) {
	name := []byte("weird=name with\tspace")
	leaf, err := NewLeaf(name, FILE, fileAttrsFixture("3"))
	require.NoError(t, err)
	root, err := NewDir(nil, dirAttrsFixture(), nil, []*Node{leaf})
	require.NoError(t, err)
	tr, err := New(root)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tr))
	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, name, got.Root.Files[0].Name)
}

type countingVisitor struct {
	added, removed, changed int
}

func (v *countingVisitor) Enter(string) {}
func (v *countingVisitor) Leave(string) {}
func (v *countingVisitor) Added(string, Kind) { v.added++ }
func (v *countingVisitor) Removed(string, Kind) { v.removed++ }
func (v *countingVisitor) Changed(string, Kind, []string) { v.changed++ }

func TestCompareSelfIsEmpty(t *testing.T) {
	tr := mustTree(t)
	v := &countingVisitor{}
	Compare(tr, tr, v)
	require.Zero(t, v.added)
	require.Zero(t, v.removed)
	require.Zero(t, v.changed)
}

func TestCompareDetectsAddition(t *testing.T) {
	old := mustTree(t)
	newLeaf, err := NewLeaf([]byte("z"), FILE, fileAttrsFixture("4"))
	require.NoError(t, err)
	newRoot, err := NewDir(nil, dirAttrsFixture(), old.Root.Dirs, append(append([]*Node(nil), old.Root.Files...), newLeaf))
	require.NoError(t, err)
	newer, err := New(newRoot)
	require.NoError(t, err)

	v := &countingVisitor{}
	Compare(old, newer, v)
	require.Equal(t, 1, v.added)
	require.Zero(t, v.removed)
	require.Zero(t, v.changed)
}

func TestCompareIgnoresInoAndCtimeAlone(t *testing.T) {
	a, err := NewLeaf([]byte("a"), FILE, fileAttrsFixture("6"))
	require.NoError(t, err)
	rootA, err := NewDir(nil, dirAttrsFixture(), nil, []*Node{a})
	require.NoError(t, err)
	treeA, err := New(rootA)
	require.NoError(t, err)

	bAttrs := fileAttrsFixture("6")
	bAttrs["ino"] = []byte("999")
	bAttrs["ctime"] = []byte("2000")
	b, err := NewLeaf([]byte("a"), FILE, bAttrs)
	require.NoError(t, err)
	rootB, err := NewDir(nil, dirAttrsFixture(), nil, []*Node{b})
	require.NoError(t, err)
	treeB, err := New(rootB)
	require.NoError(t, err)

	v := &countingVisitor{}
	Compare(treeA, treeB, v)
	require.Zero(t, v.changed)
}

func TestCompareFlagsHashMissing(t *testing.T) {
	aAttrs := fileAttrsFixture("6")
	aAttrs["sha1"] = []byte("deadbeef")
	a, err := NewLeaf([]byte("a"), FILE, aAttrs)
	require.NoError(t, err)
	rootA, err := NewDir(nil, dirAttrsFixture(), nil, []*Node{a})
	require.NoError(t, err)
	treeA, err := New(rootA)
	require.NoError(t, err)

	b, err := NewLeaf([]byte("a"), FILE, fileAttrsFixture("6"))
	require.NoError(t, err)
	rootB, err := NewDir(nil, dirAttrsFixture(), nil, []*Node{b})
	require.NoError(t, err)
	treeB, err := New(rootB)
	require.NoError(t, err)

	var changedDiff []string
	v := &funcVisitor{changed: func(p string, k Kind, diff []string) { changedDiff = diff }}
	Compare(treeA, treeB, v)
	require.Contains(t, changedDiff, "hash-missing")
}

type funcVisitor struct {
	changed func(string, Kind, []string)
}

func (v *funcVisitor) Enter(string) {}
func (v *funcVisitor) Leave(string) {}
func (v *funcVisitor) Added(string, Kind)   {}
func (v *funcVisitor) Removed(string, Kind) {}
func (v *funcVisitor) Changed(p string, k Kind, diff []string) {
	if v.changed != nil {
		v.changed(p, k, diff)
	}
}
