package widefield

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genWideElt() gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		raw := make([]byte, 48)
		genParams.Rng.Read(raw)
		v := new(big.Int).SetBytes(raw)
		return gopter.NewGenResult(FromBig(v), gopter.NoShrinker)
	}
}

func TestMulMatchesBigIntUnderR(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	p := modulusBig()
	rInv := new(big.Int).ModInverse(ToBig(One()), p)

	properties.Property("fullyReduce(mul(x,y)) == x*y*R^-1 mod p", prop.ForAll(
		func(x, y Elt) bool {
			got := FullyReduce(Mul(x, y))
			want := new(big.Int).Mul(ToBig(x), ToBig(y))
			want.Mul(want, rInv)
			want.Mod(want, p)
			return ToBig(got).Cmp(want) == 0
		},
		genWideElt(), genWideElt(),
	))

	properties.TestingRun(t)
}

func TestInverse(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("mul(x, inverse(x)) == 1", prop.ForAll(
		func(x Elt) bool {
			if x.IsZero() {
				return true
			}
			return FullyReduce(Mul(x, Inverse(x))) == FullyReduce(One())
		},
		genWideElt(),
	))

	properties.TestingRun(t)
}

func TestSqrt(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("sqrt(x^2) is x or p-x", prop.ForAll(
		func(x Elt) bool {
			sq := Sqr(x)
			root, ok := Sqrt(sq)
			if !ok {
				return false
			}
			rr := FullyReduce(root)
			return rr == FullyReduce(x) || rr == FullyReduce(Negate(x))
		},
		genWideElt(),
	))

	properties.TestingRun(t)
}

func TestBatchInverse(t *testing.T) {
	xs := make([]Elt, 0, 8)
	for i := 1; i <= 8; i++ {
		xs = append(xs, FromBig(big.NewInt(int64(i))))
	}
	got := BatchInverse(xs)
	for i, x := range xs {
		want := FullyReduce(Inverse(x))
		assert.Equal(t, want, FullyReduce(got[i]))
	}
}

func TestFromBigToBigRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 2, 1000003, 1 << 40} {
		x := FromBig(big.NewInt(v))
		got := ToBig(x)
		assert.Equal(t, big.NewInt(v), got)
	}
}

func TestAddSubRoundTrip(t *testing.T) {
	a := FromBig(big.NewInt(999999999999))
	b := FromBig(big.NewInt(123456789))
	sum := Add(a, b)
	back := Sub(sum, b)
	require.Equal(t, FullyReduce(a), FullyReduce(back))
}
