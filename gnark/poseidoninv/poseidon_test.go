package poseidoninv

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"

	native "github.com/zkfield/poseidoninv"
)

type compressCircuit struct {
	Left     frontend.Variable
	Right    frontend.Variable
	Expected frontend.Variable `gnark:",public"`
}

func (c *compressCircuit) Define(api frontend.API) error {
	out, err := Hash2(api, c.Left, c.Right)
	if err != nil {
		return err
	}
	api.AssertIsEqual(out, c.Expected)
	return nil
}

type spongeCircuit struct {
	Inputs   [3]frontend.Variable
	Expected frontend.Variable `gnark:",public"`
}

func (c *spongeCircuit) Define(api frontend.API) error {
	out, err := Hash(api, c.Inputs[0], c.Inputs[1], c.Inputs[2])
	if err != nil {
		return err
	}
	api.AssertIsEqual(out, c.Expected)
	return nil
}

func TestInverseOrZeroHint(t *testing.T) {
	mod := ecc.BLS12_377.ScalarField()

	out := []*big.Int{new(big.Int)}
	if err := InverseOrZeroHint(mod, []*big.Int{big.NewInt(0)}, out); err != nil {
		t.Fatal(err)
	}
	if out[0].Sign() != 0 {
		t.Fatalf("0^-1 convention broken: got %s", out[0])
	}

	x := big.NewInt(42)
	if err := InverseOrZeroHint(mod, []*big.Int{x}, out); err != nil {
		t.Fatal(err)
	}
	prod := new(big.Int).Mul(x, out[0])
	prod.Mod(prod, mod)
	if prod.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("42 * hint(42) != 1 mod q")
	}
}

func TestCompressCircuitMatchesNative(t *testing.T) {
	assert := test.NewAssert(t)

	var left, right fr.Element
	left.SetUint64(17)
	right.SetUint64(23)
	expected, err := native.Compress(left, right)
	assert.NoError(err)

	assert.ProverSucceeded(
		&compressCircuit{},
		&compressCircuit{
			Left:     left,
			Right:    right,
			Expected: expected,
		},
		test.WithCurves(ecc.BLS12_377),
		test.WithBackends(backend.GROTH16),
	)
}

func TestSpongeCircuitMatchesNative(t *testing.T) {
	assert := test.NewAssert(t)

	var a, b, c fr.Element
	a.SetUint64(1)
	b.SetUint64(2)
	c.SetUint64(3)
	expected, err := native.Hash(a, b, c)
	assert.NoError(err)

	assert.ProverSucceeded(
		&spongeCircuit{},
		&spongeCircuit{
			Inputs:   [3]frontend.Variable{a, b, c},
			Expected: expected,
		},
		test.WithCurves(ecc.BLS12_377),
		test.WithBackends(backend.GROTH16),
	)
}

func TestCompressCircuitRejectsWrongDigest(t *testing.T) {
	assert := test.NewAssert(t)

	var left, right, wrong fr.Element
	left.SetUint64(17)
	right.SetUint64(23)
	wrong.SetUint64(99)

	assert.ProverFailed(
		&compressCircuit{},
		&compressCircuit{
			Left:     left,
			Right:    right,
			Expected: wrong,
		},
		test.WithCurves(ecc.BLS12_377),
		test.WithBackends(backend.GROTH16),
	)
}
