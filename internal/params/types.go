// Package params holds the fixed Poseidon parameter bundle for the
// inverse-S-box instantiation over the BLS12-377 scalar field.
package params

import "github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

// Fixed sponge geometry. The permutation operates on Width lanes, of which
// Rate absorb input and Capacity never do.
const (
	Width    = 3
	Rate     = 2
	Capacity = 1
)

// Parameters bundles all constants needed by the permutation. Instances are
// immutable after construction and safe to share across goroutines.
type Parameters struct {
	Width         int
	Rate          int
	Capacity      int
	FullRounds    int
	PartialRounds int

	// RoundConstants holds one Width-tuple per round, row-major,
	// (FullRounds+PartialRounds)*Width elements in total.
	RoundConstants []fr.Element

	// MDS is the Width x Width mix matrix, row-major.
	MDS []fr.Element

	// Domain is the constant added to the capacity lane before every
	// permutation call in fixed-arity compression mode.
	Domain fr.Element
}

// Rounds returns the total number of rounds in the schedule.
func (p *Parameters) Rounds() int {
	return p.FullRounds + p.PartialRounds
}
