package scalar

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitschabaude/msm-zprize/params"
)

func genSc() gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		limbs := make([]byte, 32)
		genParams.Rng.Read(limbs)
		v := new(big.Int).SetBytes(limbs)
		return gopter.NewGenResult(FromBig(v), gopter.NoShrinker)
	}
}

func TestScalarSetBytesTable(t *testing.T) {
	testCases := []struct {
		name  string
		bytes [32]byte
	}{
		{name: "zero"},
		{name: "one", bytes: func() [32]byte { var b [32]byte; b[0] = 1; return b }()},
		{name: "group_order_minus_one", bytes: Bytes(Negate(One()))},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := SetBytes(tc.bytes[:])
			assert.True(t, checkNotOverflowed(s))
		})
	}
}

func checkNotOverflowed(s Sc) bool {
	return !checkOverflow(s)
}

func TestAddSubNegate(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("a + (-a) == 0", prop.ForAll(
		func(a Sc) bool {
			return IsZero(Add(a, Negate(a)))
		},
		genSc(),
	))

	properties.Property("(a+b)-b == a", prop.ForAll(
		func(a, b Sc) bool {
			return Equal(Sub(Add(a, b), b), a)
		},
		genSc(), genSc(),
	))

	properties.TestingRun(t)
}

func TestMulMatchesBigInt(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("Mul matches big.Int mod r", prop.ForAll(
		func(a, b Sc) bool {
			got := Mul(a, b)
			want := new(big.Int).Mul(ToBig(a), ToBig(b))
			want.Mod(want, orderBig)
			return ToBig(got).Cmp(want) == 0
		},
		genSc(), genSc(),
	))

	properties.TestingRun(t)
}

func TestHalfDoublesBack(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	two := FromBig(big.NewInt(2))
	properties.Property("2 * Half(a) == a", prop.ForAll(
		func(a Sc) bool {
			return Equal(Mul(two, Half(a)), a)
		},
		genSc(),
	))

	properties.TestingRun(t)
}

func TestDecomposeRecombines(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	lambda := FromBig(params.BN254().Endo.Lambda)

	properties.Property("k1 + k2*lambda == k mod r, with the right signs", prop.ForAll(
		func(k Sc) bool {
			d := Decompose(k)
			k1 := d.K1
			if d.K1Neg {
				k1 = Negate(k1)
			}
			k2 := d.K2
			if d.K2Neg {
				k2 = Negate(k2)
			}
			recombined := Add(k1, Mul(k2, lambda))
			return Equal(recombined, k)
		},
		genSc(),
	))

	properties.TestingRun(t)
}

func TestDecomposeHalvesAreShort(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	bound := new(big.Int).Lsh(big.NewInt(1), halfScalarBits)

	properties.Property("|k1|, |k2| < 2^halfScalarBits", prop.ForAll(
		func(k Sc) bool {
			d := Decompose(k)
			return ToBig(d.K1).Cmp(bound) < 0 && ToBig(d.K2).Cmp(bound) < 0
		},
		genSc(),
	))

	properties.TestingRun(t)
}

func TestGetBitsMatchesShiftMask(t *testing.T) {
	s := FromBig(big.NewInt(0x1234567890abcdef))
	for offset := uint(0); offset < 200; offset += 7 {
		for count := uint(1); count <= 20; count += 3 {
			got := GetBits(s, offset, count)
			want := new(big.Int).Rsh(ToBig(s), offset)
			mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), count), big.NewInt(1))
			want.And(want, mask)
			require.Equal(t, uint32(want.Uint64()), got, "offset=%d count=%d", offset, count)
		}
	}
}

func TestSignedWindowNoOverflowAtZero(t *testing.T) {
	label, carry := SignedWindow(Zero(), 0, 12, 0)
	assert.Equal(t, uint32(0), label)
	assert.Equal(t, uint32(0), carry)
}

func TestSignedWindowCarriesOnOverflow(t *testing.T) {
	c := uint(12)
	half := uint32(1) << (c - 1)
	// A window value one above `half` must flip sign and set carry.
	s := Sc{uint64(half) + 1, 0, 0, 0}
	label, carry := SignedWindow(s, 0, c, 0)
	assert.Equal(t, uint32(1), carry)
	assert.Equal(t, 2*half-(half+1), label)
}

const halfScalarBits = 129
