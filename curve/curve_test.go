package curve

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitschabaude/msm-zprize/field"
	"github.com/mitschabaude/msm-zprize/params"
)

func generatorPA() PA {
	g := params.BN254()
	return PA{X: field.FromBig(g.GeneratorX), Y: field.FromBig(g.GeneratorY)}
}

func onCurve(p PA) bool {
	if p.Infinity {
		return true
	}
	lhs := field.FullyReduce(field.Sqr(p.Y))
	x3 := field.Mul(field.Sqr(p.X), p.X)
	rhs := field.FullyReduce(field.Add(x3, field.FromBig(big.NewInt(3))))
	return lhs == rhs
}

func scalarMulPA(p PA, k *big.Int) PA {
	acc := InfinityPP()
	base := ToProjective(p)
	for i := k.BitLen() - 1; i >= 0; i-- {
		acc = Double(acc)
		if k.Bit(i) == 1 {
			acc = Add(acc, base)
		}
	}
	return ToAffine(acc)
}

func genSmallScalarPoint() gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		limbs := make([]byte, 8)
		genParams.Rng.Read(limbs)
		k := new(big.Int).SetBytes(limbs)
		return gopter.NewGenResult(k, gopter.NoShrinker)
	}
}

func TestGeneratorOnCurve(t *testing.T) {
	g := generatorPA()
	assert.True(t, onCurve(g))
}

func TestGeneratorOrderKillsIt(t *testing.T) {
	g := generatorPA()
	r := params.BN254().Order
	result := scalarMulPA(g, r)
	assert.True(t, ToProjective(result).IsInfinity() || Equal(ToAffine(ToProjective(result)), Identity()))
}

func TestEndoMatchesLambdaScalarMul(t *testing.T) {
	g := generatorPA()
	lambda := params.BN254().Endo.Lambda
	lhs := ToAffine(ToProjective(scalarMulPA(g, lambda)))
	rhs := Endo(g)
	assert.True(t, Equal(lhs, rhs))
}

func TestAddCommutative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	g := generatorPA()

	properties.Property("k1*G + k2*G == k2*G + k1*G", prop.ForAll(
		func(k1, k2 *big.Int) bool {
			p1 := ToProjective(scalarMulPA(g, k1))
			p2 := ToProjective(scalarMulPA(g, k2))
			lhs := ToAffine(Add(p1, p2))
			rhs := ToAffine(Add(p2, p1))
			return Equal(lhs, rhs)
		},
		genSmallScalarPoint(), genSmallScalarPoint(),
	))

	properties.TestingRun(t)
}

func TestDoubleMatchesAddSelf(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	g := generatorPA()

	properties.Property("Double(k*G) == Add(k*G, k*G)", prop.ForAll(
		func(k *big.Int) bool {
			p := ToProjective(scalarMulPA(g, k))
			lhs := ToAffine(Double(p))
			rhs := ToAffine(Add(p, p))
			return Equal(lhs, rhs)
		},
		genSmallScalarPoint(),
	))

	properties.TestingRun(t)
}

func TestAddIdentity(t *testing.T) {
	g := generatorPA()
	p := ToProjective(g)
	sum := Add(p, InfinityPP())
	require.True(t, Equal(ToAffine(sum), g))
	sum2 := Add(InfinityPP(), p)
	require.True(t, Equal(ToAffine(sum2), g))
}

func TestAddNegateIsIdentity(t *testing.T) {
	g := generatorPA()
	neg := Negate(g)
	sum := Add(ToProjective(g), ToProjective(neg))
	assert.True(t, sum.IsInfinity())
}

func TestBatchAddMatchesSequential(t *testing.T) {
	g := generatorPA()
	n := 16
	gs := make([]PA, n)
	hs := make([]PA, n)
	want := make([]PA, n)
	for i := 0; i < n; i++ {
		gs[i] = ToAffine(ToProjective(scalarMulPA(g, big.NewInt(int64(2*i+1)))))
		hs[i] = ToAffine(ToProjective(scalarMulPA(g, big.NewInt(int64(3*i+2)))))
		want[i] = ToAffine(Add(ToProjective(gs[i]), ToProjective(hs[i])))
	}
	got := BatchAdd(gs, hs, n)
	for i := 0; i < n; i++ {
		assert.True(t, Equal(want[i], got[i]), "index %d", i)
	}
}

func TestBatchAddHandlesDoubleAndInfinity(t *testing.T) {
	g := generatorPA()
	gs := []PA{g, g, Identity(), g}
	hs := []PA{g, Negate(g), g, Identity()}
	got := BatchAdd(gs, hs, 4)

	assert.True(t, Equal(got[0], ToAffine(Double(ToProjective(g)))))
	assert.True(t, got[1].Infinity)
	assert.True(t, Equal(got[2], g))
	assert.True(t, Equal(got[3], g))
}
