package widefield

import "math/bits"

// Mul computes Montgomery multiplication over sixteen 29-bit limbs via
// the same separated (multiply-then-reduce over a wide accumulator)
// shape as field/mul_int.go's mulInt/mulWith, scaled from 5x51 to
// 16x29 limbs — grounded on the same mleku-p256k1/field_mul.go uint128
// cross-product technique, generalized to a wider limb count since a
// 381-bit prime does not fit five 51-bit limbs.
func Mul(x, y Elt) Elt {
	var acc [2 * numLimbs]uint64

	for i := 0; i < numLimbs; i++ {
		for j := 0; j < numLimbs; j++ {
			hi, lo := bits.Mul64(x[i], y[j])
			mid := (lo >> limbBits) | (hi << (64 - limbBits))
			acc[i+j] += lo & limbMask
			acc[i+j+1] += mid
		}
	}
	carryPropagateWide(&acc)

	for i := 0; i < numLimbs; i++ {
		m := (acc[i] * negPInv29) & limbMask
		for j := 0; j < numLimbs; j++ {
			hi, lo := bits.Mul64(m, Modulus[j])
			mid := (lo >> limbBits) | (hi << (64 - limbBits))
			acc[i+j] += lo & limbMask
			acc[i+j+1] += mid
		}
		carryPropagateWide(&acc)
	}

	var out Elt
	copy(out[:], acc[numLimbs:2*numLimbs])
	return Reduce(out)
}

func Sqr(x Elt) Elt { return Mul(x, x) }

func carryPropagateWide(acc *[2 * numLimbs]uint64) {
	var carry uint64
	for i := 0; i < 2*numLimbs-1; i++ {
		acc[i] += carry
		carry = acc[i] >> limbBits
		acc[i] &= limbMask
	}
	acc[2*numLimbs-1] += carry
}
