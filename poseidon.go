// Package poseidoninv implements the Poseidon permutation with the algebraic
// inverse S-box (x -> x^-1) over the BLS12-377 scalar field, together with
// the sponge construction and the fixed-arity 2-to-1 compression used for
// Merkle trees. Several independent states can be pushed through the round
// schedule in lock-step so that every round costs a single field inversion
// regardless of the number of fused lanes.
package poseidoninv

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	"github.com/zkfield/poseidoninv/internal/params"
)

// State is one permutation state: params.Width lanes owned by a single
// computation. States are never aliased between fused lanes.
type State [params.Width]fr.Element

// permutation applies the full round schedule to one or more states in
// lock-step. Instances are cheap; the parameter bundle behind them is built
// once and shared read-only.
type permutation struct {
	params  *params.Parameters
	elems   []*fr.Element // lane views handed to the batched S-box
	scratch []fr.Element  // prefix products for simultaneous inversion
}

func newPermutation() (*permutation, error) {
	p := params.Default()
	if err := params.Validate(p); err != nil {
		return nil, err
	}
	return &permutation{params: p}, nil
}

// permute runs all lanes through the round schedule under a single running
// round index: FullRounds/2 full rounds, PartialRounds partial rounds, then
// FullRounds/2 full rounds, of which the very last adds constants and applies
// the S-box but skips the mix. Round constants are consumed sequentially
// across the three blocks, never reset.
func (p *permutation) permute(states ...*State) error {
	if len(states) == 0 {
		return nil
	}
	half := p.params.FullRounds / 2
	round := 0

	for r := 0; r < half; r++ {
		if err := p.fullRound(states, &round, false); err != nil {
			return err
		}
	}
	for r := 0; r < p.params.PartialRounds; r++ {
		if err := p.partialRound(states, &round); err != nil {
			return err
		}
	}
	for r := 0; r < half-1; r++ {
		if err := p.fullRound(states, &round, false); err != nil {
			return err
		}
	}
	// Permutation output is the post-S-box, pre-mix state.
	return p.fullRound(states, &round, true)
}

// fullRound adds the round constants to every lane, applies the S-box to
// every lane of every state through one batched inversion, then mixes.
func (p *permutation) fullRound(states []*State, round *int, last bool) error {
	p.addRoundConstants(states, round)

	xs := p.elems[:0]
	for _, s := range states {
		for i := range s {
			xs = append(xs, &s[i])
		}
	}
	p.elems = xs
	if err := p.invert(xs); err != nil {
		return err
	}

	if !last {
		for _, s := range states {
			p.mix(s)
		}
	}
	return nil
}

// partialRound adds the round constants to every lane but applies the S-box
// to lane 0 only, batching the lane-0 elements of all fused states into a
// single inversion.
func (p *permutation) partialRound(states []*State, round *int) error {
	p.addRoundConstants(states, round)

	xs := p.elems[:0]
	for _, s := range states {
		xs = append(xs, &s[0])
	}
	p.elems = xs
	if err := p.invert(xs); err != nil {
		return err
	}

	for _, s := range states {
		p.mix(s)
	}
	return nil
}

func (p *permutation) addRoundConstants(states []*State, round *int) {
	row := p.params.RoundConstants[*round*p.params.Width : (*round+1)*p.params.Width]
	for _, s := range states {
		for i := range s {
			s[i].Add(&s[i], &row[i])
		}
	}
	*round++
}

// mix left-multiplies the state by the MDS matrix.
func (p *permutation) mix(s *State) {
	var out State
	for i := 0; i < p.params.Width; i++ {
		row := p.params.MDS[i*p.params.Width:]
		var term fr.Element
		for j := 0; j < p.params.Width; j++ {
			term.Mul(&row[j], &s[j])
			out[i].Add(&out[i], &term)
		}
	}
	*s = out
}
