package merkle

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/stretchr/testify/require"

	poseidoninv "github.com/zkfield/poseidoninv"
)

func leaves(t *testing.T, n int) []fr.Element {
	t.Helper()
	out := make([]fr.Element, n)
	for i := range out {
		out[i].SetUint64(uint64(1000 + i))
	}
	return out
}

func TestRootMatchesManualFold(t *testing.T) {
	ls := leaves(t, 4)
	tree, err := New(ls)
	require.NoError(t, err)
	require.Equal(t, 2, tree.Depth())

	h01, err := poseidoninv.Compress(ls[0], ls[1])
	require.NoError(t, err)
	h23, err := poseidoninv.Compress(ls[2], ls[3])
	require.NoError(t, err)
	root, err := poseidoninv.Compress(h01, h23)
	require.NoError(t, err)

	got := tree.Root()
	require.True(t, got.Equal(&root))
}

func TestPaddingToPowerOfTwo(t *testing.T) {
	ls := leaves(t, 5)
	tree, err := New(ls)
	require.NoError(t, err)
	require.Equal(t, 3, tree.Depth())
	require.Len(t, tree.Leaves(), 8)

	var zero fr.Element
	padded := tree.Leaves()[5]
	require.True(t, padded.Equal(&zero))
}

func TestPathVerification(t *testing.T) {
	ls := leaves(t, 6)
	tree, err := New(ls)
	require.NoError(t, err)
	root := tree.Root()

	for i, leaf := range ls {
		path, err := tree.Path(i)
		require.NoError(t, err)
		require.Len(t, path.Siblings, tree.Depth())

		ok, err := Verify(root, leaf, path)
		require.NoError(t, err)
		require.True(t, ok, "leaf %d", i)
	}

	// Tampered leaf value must not verify.
	path, err := tree.Path(2)
	require.NoError(t, err)
	var tampered fr.Element
	tampered.SetUint64(12345)
	ok, err := Verify(root, tampered, path)
	require.NoError(t, err)
	require.False(t, ok)

	// A valid leaf under the wrong position must not verify either.
	path.Leaf = 3
	ok, err = Verify(root, ls[2], path)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPathBounds(t *testing.T) {
	tree, err := New(leaves(t, 4))
	require.NoError(t, err)

	_, err = tree.Path(-1)
	require.Error(t, err)
	_, err = tree.Path(4)
	require.Error(t, err)
}

func TestEmptyLeafSetRejected(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestWideLevelMatchesNarrowHashing(t *testing.T) {
	// Enough leaves to push the first level over the goroutine fan-out
	// threshold, compared against a sequentially built sibling tree.
	n := 2 * chunkSize * 2
	ls := leaves(t, n)

	wide, err := New(ls)
	require.NoError(t, err)

	nodes := make([]fr.Element, n)
	copy(nodes, ls)
	for len(nodes) > 1 {
		next := make([]fr.Element, len(nodes)/2)
		for i := range next {
			next[i], err = poseidoninv.Compress(nodes[2*i], nodes[2*i+1])
			require.NoError(t, err)
		}
		nodes = next
	}

	root := wide.Root()
	require.True(t, root.Equal(&nodes[0]))
}
