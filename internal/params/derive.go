package params

import (
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"golang.org/x/crypto/sha3"
)

// Schedule of the 2-to-1 inverse-S-box instance: 8 full rounds split evenly
// around 57 partial rounds.
const (
	fullRounds    = 8
	partialRounds = 57
)

// roundConstantSeed is the nothing-up-my-sleeve seed expanded into the round
// constant table. Changing it changes every digest; it is part of the
// parameter identity.
const roundConstantSeed = "poseidoninv/bls12-377/x^-1/t=3/rf=8/rp=57/v1"

// domainConstant is the capacity-lane tag for 2-to-1 compression mode.
const domainConstant = 3

var (
	defaultOnce   sync.Once
	defaultParams *Parameters
)

// Default returns the process-wide parameter bundle, derived on first use and
// shared read-only afterwards.
func Default() *Parameters {
	defaultOnce.Do(func() {
		defaultParams = derive()
	})
	return defaultParams
}

func derive() *Parameters {
	p := &Parameters{
		Width:          Width,
		Rate:           Rate,
		Capacity:       Capacity,
		FullRounds:     fullRounds,
		PartialRounds:  partialRounds,
		RoundConstants: deriveRoundConstants(),
		MDS:            cauchyMDS(),
	}
	p.Domain.SetUint64(domainConstant)
	return p
}

// deriveRoundConstants expands the seed through SHAKE128, drawing 48 bytes
// per constant and reducing into the field. 48 bytes leave a negligible
// modular bias over the 253-bit scalar field.
func deriveRoundConstants() []fr.Element {
	shake := sha3.NewShake128()
	shake.Write([]byte(roundConstantSeed))

	out := make([]fr.Element, (fullRounds+partialRounds)*Width)
	buf := make([]byte, 48)
	for i := range out {
		if _, err := shake.Read(buf); err != nil {
			// sha3.ShakeHash.Read never fails before Reset.
			panic("poseidoninv: shake read: " + err.Error())
		}
		out[i].SetBigInt(new(big.Int).SetBytes(buf))
	}
	return out
}

// cauchyMDS builds the Width x Width matrix m[i][j] = 1/(x_i + y_j) with
// x_i = i and y_j = Width + j. All sums are small nonzero integers, so every
// entry is well defined, and distinct x/y sequences make the matrix MDS.
func cauchyMDS() []fr.Element {
	out := make([]fr.Element, Width*Width)
	for i := 0; i < Width; i++ {
		for j := 0; j < Width; j++ {
			var sum fr.Element
			sum.SetUint64(uint64(i + Width + j))
			out[i*Width+j].Inverse(&sum)
		}
	}
	return out
}
