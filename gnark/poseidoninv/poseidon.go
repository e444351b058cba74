// Package poseidoninv re-expresses the native permutation as gnark
// constraints. The round schedule, constants and MDS matrix are the native
// parameter bundle; the S-box gadget enforces the same zero-handling
// convention as the native engine, so witnesses produced against one verify
// against the other.
package poseidoninv

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"

	native "github.com/zkfield/poseidoninv"
	"github.com/zkfield/poseidoninv/internal/params"
)

func init() {
	solver.RegisterHint(InverseOrZeroHint)
}

// InverseOrZeroHint computes y = x^-1 for nonzero x and y = 0 for x = 0.
// The constraints emitted by sbox force exactly this assignment.
func InverseOrZeroHint(mod *big.Int, inputs, outputs []*big.Int) error {
	if len(inputs) != 1 || len(outputs) != 1 {
		return fmt.Errorf("poseidoninv: hint expects one input and one output")
	}
	if inputs[0].Sign() == 0 {
		outputs[0].SetUint64(0)
		return nil
	}
	outputs[0].ModInverse(inputs[0], mod)
	return nil
}

// sbox constrains y to be the inverse of x, with 0^-1 := 0:
//
//	b = x*y,  b*(1-b) = 0,  (1-b)*(x-y) = 0
//
// For x = 0 the last constraint pins y = x = 0; for x != 0 the boolean b
// cannot be 0 (that would force y = x and x^2 = 0), so x*y = 1.
func sbox(api frontend.API, x frontend.Variable) (frontend.Variable, error) {
	ys, err := api.Compiler().NewHint(InverseOrZeroHint, 1, x)
	if err != nil {
		return nil, err
	}
	y := ys[0]
	b := api.Mul(x, y)
	api.AssertIsBoolean(b)
	api.AssertIsEqual(api.Mul(api.Sub(1, b), api.Sub(x, y)), 0)
	return y, nil
}

// circuitPermutation mirrors the native permutation but emits constraints.
type circuitPermutation struct {
	params *params.Parameters
}

func newCircuitPermutation() (*circuitPermutation, error) {
	p := params.Default()
	if err := params.Validate(p); err != nil {
		return nil, err
	}
	return &circuitPermutation{params: p}, nil
}

func (p *circuitPermutation) permute(api frontend.API, state []frontend.Variable) ([]frontend.Variable, error) {
	half := p.params.FullRounds / 2
	round := 0
	var err error

	for r := 0; r < half; r++ {
		if state, err = p.fullRound(api, state, &round, false); err != nil {
			return nil, err
		}
	}
	for r := 0; r < p.params.PartialRounds; r++ {
		if state, err = p.partialRound(api, state, &round); err != nil {
			return nil, err
		}
	}
	for r := 0; r < half-1; r++ {
		if state, err = p.fullRound(api, state, &round, false); err != nil {
			return nil, err
		}
	}
	// Last round: constants and S-box only, no mix.
	return p.fullRound(api, state, &round, true)
}

func (p *circuitPermutation) fullRound(api frontend.API, state []frontend.Variable, round *int, last bool) ([]frontend.Variable, error) {
	p.addRoundConstants(api, state, round)
	for i := range state {
		v, err := sbox(api, state[i])
		if err != nil {
			return nil, err
		}
		state[i] = v
	}
	if last {
		return state, nil
	}
	return p.mix(api, state), nil
}

func (p *circuitPermutation) partialRound(api frontend.API, state []frontend.Variable, round *int) ([]frontend.Variable, error) {
	p.addRoundConstants(api, state, round)
	v, err := sbox(api, state[0])
	if err != nil {
		return nil, err
	}
	state[0] = v
	return p.mix(api, state), nil
}

func (p *circuitPermutation) addRoundConstants(api frontend.API, state []frontend.Variable, round *int) {
	offset := *round * p.params.Width
	for i := range state {
		state[i] = api.Add(state[i], p.params.RoundConstants[offset+i])
	}
	*round++
}

func (p *circuitPermutation) mix(api frontend.API, state []frontend.Variable) []frontend.Variable {
	t := p.params.Width
	out := make([]frontend.Variable, t)
	for i := 0; i < t; i++ {
		offset := i * t
		sum := api.Mul(state[0], p.params.MDS[offset])
		for j := 1; j < t; j++ {
			sum = api.Add(sum, api.Mul(state[j], p.params.MDS[offset+j]))
		}
		out[i] = sum
	}
	return out
}

// initialState loads the cached post-zero-permutation sponge state as circuit
// constants.
func initialState(p *params.Parameters) ([]frontend.Variable, error) {
	init, err := native.InitialState()
	if err != nil {
		return nil, err
	}
	state := make([]frontend.Variable, p.Width)
	for i := range state {
		state[i] = init[i]
	}
	return state, nil
}

// Hash2 computes the fixed-arity 2-to-1 compression of two variables,
// matching the native Compress bit-for-bit.
func Hash2(api frontend.API, left, right frontend.Variable) (frontend.Variable, error) {
	p, err := newCircuitPermutation()
	if err != nil {
		return nil, err
	}
	state, err := initialState(p.params)
	if err != nil {
		return nil, err
	}
	rate := p.params.Rate
	inputs := []frontend.Variable{left, right}
	for j := 0; j < rate; j++ {
		state[j] = api.Add(state[j], inputs[j])
	}
	state[rate] = api.Add(state[rate], p.params.Domain)
	state, err = p.permute(api, state)
	if err != nil {
		return nil, err
	}
	return state[0], nil
}

// Hash absorbs the inputs through the generic sponge (no domain constant),
// matching the native Hash.
func Hash(api frontend.API, inputs ...frontend.Variable) (frontend.Variable, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("poseidoninv: need at least 1 input element")
	}
	p, err := newCircuitPermutation()
	if err != nil {
		return nil, err
	}
	state, err := initialState(p.params)
	if err != nil {
		return nil, err
	}

	rate := p.params.Rate
	idx := 0
	for ; idx+rate <= len(inputs); idx += rate {
		for j := 0; j < rate; j++ {
			state[j] = api.Add(state[j], inputs[idx+j])
		}
		if state, err = p.permute(api, state); err != nil {
			return nil, err
		}
	}
	if rem := len(inputs) - idx; rem != 0 {
		for j := 0; j < rem; j++ {
			state[j] = api.Add(state[j], inputs[idx+j])
		}
		if state, err = p.permute(api, state); err != nil {
			return nil, err
		}
	}
	return state[0], nil
}
