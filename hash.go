package poseidoninv

import (
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// The sponge starts from the all-zero state pushed once through the
// permutation. That state is input-independent, so it is computed once and
// copied into every lane of every subsequent hash, including the second lane
// of a fused pair.
var (
	initOnce  sync.Once
	initState State
	initErr   error
)

// InitialState returns the sponge state after the fixed initialization
// permutation of the all-zero state.
func InitialState() (State, error) {
	initOnce.Do(func() {
		perm, err := newPermutation()
		if err != nil {
			initErr = err
			return
		}
		var s State
		if err := perm.permute(&s); err != nil {
			initErr = err
			return
		}
		initState = s
	})
	return initState, initErr
}

// Hash absorbs the inputs through the sponge and returns lane 0 of the final
// state. Input is consumed in rate-sized chunks; a trailing chunk shorter
// than the rate is implicitly zero-padded. The generic sponge does not
// inject the domain constant; use Compress for 2-to-1 Merkle compression.
func Hash(inputs ...fr.Element) (fr.Element, error) {
	out, err := hashLanes([][]fr.Element{inputs}, false)
	if err != nil {
		return fr.Element{}, err
	}
	return out[0], nil
}

// HashPair fuses two independent sponge computations of equal input length
// into one pass through the round schedule, so both digests cost a single
// inversion per round between them. The result is identical to hashing each
// sequence separately.
func HashPair(a, b []fr.Element) (fr.Element, fr.Element, error) {
	out, err := hashLanes([][]fr.Element{a, b}, false)
	if err != nil {
		return fr.Element{}, fr.Element{}, err
	}
	return out[0], out[1], nil
}

// Compress is the fixed-arity 2-to-1 hash used for Merkle trees: one
// absorption permutation after the initialization permutation, with the
// domain constant added to the capacity lane to separate compression-mode
// hashing from generic sponge hashing.
func Compress(left, right fr.Element) (fr.Element, error) {
	out, err := hashLanes([][]fr.Element{{left, right}}, true)
	if err != nil {
		return fr.Element{}, err
	}
	return out[0], nil
}

// CompressMany fuses any number of independent 2-to-1 compressions into one
// lock-step pass, amortizing each round's inversion across all pairs. The
// outputs match element-wise what Compress would return for each pair.
func CompressMany(pairs [][2]fr.Element) ([]fr.Element, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	seqs := make([][]fr.Element, len(pairs))
	for i := range pairs {
		seqs[i] = pairs[i][:]
	}
	return hashLanes(seqs, true)
}

// hashLanes runs the sponge over any number of equal-length input sequences
// fused into one permutation stream. withDomain selects compression mode,
// which adds the domain constant to the capacity lane before every
// absorption permutation.
func hashLanes(seqs [][]fr.Element, withDomain bool) ([]fr.Element, error) {
	perm, err := newPermutation()
	if err != nil {
		return nil, err
	}

	n := len(seqs)
	length := len(seqs[0])
	for _, s := range seqs[1:] {
		if len(s) != length {
			return nil, fmt.Errorf("poseidoninv: fused lanes need equal input lengths, got %d and %d", length, len(s))
		}
	}
	if length == 0 {
		return nil, fmt.Errorf("poseidoninv: need at least 1 input element")
	}

	init, err := InitialState()
	if err != nil {
		return nil, err
	}

	states := make([]State, n)
	lanes := make([]*State, n)
	for i := range states {
		states[i] = init
		lanes[i] = &states[i]
	}

	rate := perm.params.Rate
	cycles := length / rate
	rem := length % rate

	idx := 0
	for c := 0; c < cycles; c++ {
		for i, seq := range seqs {
			for j := 0; j < rate; j++ {
				states[i][j].Add(&states[i][j], &seq[idx+j])
			}
		}
		idx += rate
		if withDomain {
			for i := range states {
				states[i][rate].Add(&states[i][rate], &perm.params.Domain)
			}
		}
		if err := perm.permute(lanes...); err != nil {
			return nil, err
		}
	}

	if rem != 0 {
		// Trailing partial chunk; the missing rate lanes stay untouched,
		// which is the zero-padding of the absorbed chunk.
		for i, seq := range seqs {
			for j := 0; j < rem; j++ {
				states[i][j].Add(&states[i][j], &seq[idx+j])
			}
		}
		if withDomain {
			for i := range states {
				states[i][rate].Add(&states[i][rate], &perm.params.Domain)
			}
		}
		if err := perm.permute(lanes...); err != nil {
			return nil, err
		}
	}

	out := make([]fr.Element, n)
	for i := range states {
		out[i] = states[i][0]
	}
	return out, nil
}
