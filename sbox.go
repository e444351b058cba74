package poseidoninv

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// ErrZeroInversion reports that some operand of a batched S-box inversion was
// exactly zero. The affected hash or permutation call is aborted; retrying is
// pointless since inputs are fixed and the computation deterministic.
var ErrZeroInversion = errors.New("s-box inversion of zero operand")

// invert replaces every element with its inverse using Montgomery's
// simultaneous-inversion trick: accumulate prefix products, invert the final
// product once, then sweep backwards recovering each individual inverse. One
// field inversion serves the whole batch; for a single width-3 state this is
// 1 inversion and 6 multiplications instead of 3 inversions.
//
// The intentionally omitted shortcut: gnark-crypto's fr.BatchInvert maps zero
// operands to zero and keeps going, which would silently produce a wrong
// digest here. A zero anywhere in the batch fails the call instead.
func (p *permutation) invert(xs []*fr.Element) error {
	n := len(xs)
	if cap(p.scratch) < n {
		p.scratch = make([]fr.Element, n)
	}
	prefix := p.scratch[:n]

	prefix[0] = *xs[0]
	for i := 1; i < n; i++ {
		prefix[i].Mul(&prefix[i-1], xs[i])
	}

	if prefix[n-1].IsZero() {
		logger.Warn().Int("batch", n).Msg("zero operand in batched s-box inversion")
		return fmt.Errorf("poseidoninv: %w (batch of %d)", ErrZeroInversion, n)
	}

	var inv fr.Element
	inv.Inverse(&prefix[n-1])
	for i := n - 1; i > 0; i-- {
		var xi fr.Element
		xi.Mul(&inv, &prefix[i-1])
		inv.Mul(&inv, xs[i])
		*xs[i] = xi
	}
	*xs[0] = inv
	return nil
}
