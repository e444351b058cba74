// Package merkle builds fixed-height Merkle trees over the Poseidon 2-to-1
// compression. Inner levels are hashed through fused multi-lane compression
// so a whole level costs one field inversion per round, and wide levels are
// split across goroutines.
package merkle

import (
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	poseidoninv "github.com/zkfield/poseidoninv"
)

// chunkSize caps how many compressions are fused into one batch; beyond it a
// level is fanned out across goroutines, one batch each.
const chunkSize = 256

// Tree keeps every layer in memory: layers[0] holds the leaves padded with
// zero elements to a power of two, the last layer holds the root.
type Tree struct {
	depth  int
	layers [][]fr.Element
}

// New builds a tree from the given leaves.
func New(leaves []fr.Element) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, fmt.Errorf("merkle: empty leaf set")
	}

	size, depth := 1, 0
	for size < len(leaves) {
		size <<= 1
		depth++
	}
	padded := make([]fr.Element, size)
	copy(padded, leaves)

	layers := make([][]fr.Element, depth+1)
	layers[0] = padded
	for level := 0; level < depth; level++ {
		next, err := hashLevel(layers[level])
		if err != nil {
			return nil, fmt.Errorf("merkle: level %d: %w", level+1, err)
		}
		layers[level+1] = next
	}
	return &Tree{depth: depth, layers: layers}, nil
}

func hashLevel(nodes []fr.Element) ([]fr.Element, error) {
	numPairs := len(nodes) / 2
	pairs := make([][2]fr.Element, numPairs)
	for i := range pairs {
		pairs[i] = [2]fr.Element{nodes[2*i], nodes[2*i+1]}
	}

	if numPairs <= chunkSize {
		return poseidoninv.CompressMany(pairs)
	}

	numChunks := (numPairs + chunkSize - 1) / chunkSize
	out := make([]fr.Element, numPairs)
	errs := make([]error, numChunks)
	var wg sync.WaitGroup
	for c := 0; c < numChunks; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			start := c * chunkSize
			end := min(start+chunkSize, numPairs)
			res, err := poseidoninv.CompressMany(pairs[start:end])
			if err != nil {
				errs[c] = err
				return
			}
			copy(out[start:end], res)
		}(c)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Depth returns the tree height in levels above the leaves.
func (t *Tree) Depth() int {
	return t.depth
}

// Leaves returns the padded leaf layer.
func (t *Tree) Leaves() []fr.Element {
	return t.layers[0]
}

// Root returns the root hash.
func (t *Tree) Root() fr.Element {
	return t.layers[t.depth][0]
}

// Path is an authentication path from a leaf position to the root.
type Path struct {
	Leaf     int
	Siblings []fr.Element
}

// Path returns the authentication path for the given leaf position.
func (t *Tree) Path(leaf int) (Path, error) {
	if leaf < 0 || leaf >= len(t.layers[0]) {
		return Path{}, fmt.Errorf("merkle: leaf index %d out of range [0, %d)", leaf, len(t.layers[0]))
	}
	siblings := make([]fr.Element, t.depth)
	idx := leaf
	for level := 0; level < t.depth; level++ {
		siblings[level] = t.layers[level][idx^1]
		idx >>= 1
	}
	return Path{Leaf: leaf, Siblings: siblings}, nil
}

// Verify recomputes the root from a leaf value and its authentication path.
func Verify(root, leaf fr.Element, path Path) (bool, error) {
	current := leaf
	idx := path.Leaf
	for _, sibling := range path.Siblings {
		var err error
		if idx&1 == 0 {
			current, err = poseidoninv.Compress(current, sibling)
		} else {
			current, err = poseidoninv.Compress(sibling, current)
		}
		if err != nil {
			return false, err
		}
		idx >>= 1
	}
	return current.Equal(&root), nil
}
