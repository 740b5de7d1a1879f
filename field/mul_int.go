package field

import "math/bits"

// u128 is a 128-bit unsigned integer split as two 64-bit words, used to
// hold the exact product of two limbs before it is folded into the
// column-wise Montgomery accumulator. Grounded on mleku-p256k1/field_mul.go's
// uint128 helper (mulU64ToU128/addU128), generalised from secp256k1's 52-bit
// limbs to this kernel's 51-bit limbs.
type u128 struct {
	hi, lo uint64
}

func (a u128) add(b u128) u128 {
	lo, c := bits.Add64(a.lo, b.lo, 0)
	hi, _ := bits.Add64(a.hi, b.hi, c)
	return u128{hi: hi, lo: lo}
}

// shl shifts a left by n bits, 0 <= n < 64.
func (a u128) shl(n uint) u128 {
	if n == 0 {
		return a
	}
	return u128{
		hi: (a.hi << n) | (a.lo >> (64 - n)),
		lo: a.lo << n,
	}
}

// limbProductInt computes the exact product of two limbs (each < 2^52)
// using the hardware 64x64->128 multiplier, the schoolbook reference
// against which the FMA path (mul_fma.go) must agree bit-identically.
func limbProductInt(a, b uint64) u128 {
	hi, lo := bits.Mul64(a, b)
	return u128{hi: hi, lo: lo}
}

// mulInt is the integer-fallback Montgomery multiply, used when the CPU
// lacks FMA3 (see kernel.go). It computes x*y*R^-1 mod p via a
// multiply-then-reduce pass over a ten-limb (510-bit) wide accumulator,
// wide enough for the product of two weakly-reduced 255-bit operands.
func mulInt(x, y Elt) Elt {
	return mulWith(x, y, limbProductInt)
}

// mulWith performs Montgomery multiplication using prod to compute each
// elementary limb x limb product. Factoring the accumulation this way
// keeps the reduction logic identical between the FMA and integer paths,
// which is what makes their outputs bit-identical (the required property
// under test) rather than merely close.
func mulWith(x, y Elt, prod func(a, b uint64) u128) Elt {
	var acc [10]uint64

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			p := prod(x[i], y[j])
			lo := p.lo & limbMask
			mid := (p.lo >> limbBits) | (p.hi << (64 - limbBits))
			acc[i+j] += lo
			acc[i+j+1] += mid
		}
	}
	carryPropagateWide(&acc)

	for i := 0; i < 5; i++ {
		m := (acc[i] * negPInv51) & limbMask
		for j := 0; j < 5; j++ {
			p := prod(m, Modulus[j])
			lo := p.lo & limbMask
			mid := (p.lo >> limbBits) | (p.hi << (64 - limbBits))
			acc[i+j] += lo
			acc[i+j+1] += mid
		}
		carryPropagateWide(&acc)
	}

	var out Elt
	copy(out[:], acc[5:10])
	return Reduce(out)
}

// carryPropagateWide normalises every column of a wide accumulator into
// [0, 2^51), propagating overflow into the next column. Columns are
// non-negative throughout multiply-then-reduce, so a simple right-shift
// carry suffices (no borrow handling is needed here).
func carryPropagateWide(acc *[10]uint64) {
	var carry uint64
	for i := 0; i < 9; i++ {
		acc[i] += carry
		carry = acc[i] >> limbBits
		acc[i] &= limbMask
	}
	acc[9] += carry
}
