package field

import "math"

// halfLimbBits splits a limb (< 2^52) into two 26-bit halves, each small
// enough that its product with another 26-bit half is exactly
// representable as an IEEE-754 double (26+26 = 52 mantissa bits, no
// rounding). This is what lets mulFMA route its elementary multiplies
// through the hardware FMA unit and still agree bit-for-bit with mulInt's
// plain-integer schoolbook.
const halfLimbBits = 26
const halfLimbMask = (uint64(1) << halfLimbBits) - 1

// limbProductFMA computes the exact product of two limbs (each < 2^52) via
// four FMA-computed half-limb products recombined into a u128, per the
// float-view idea in the kernel design: each half-limb pair is added to
// the IEEE-754 double domain, multiplied with math.FMA (fused, single
// rounding — though here the rounding is moot since the exact product of
// two 26-bit integers always fits a double's 52-bit mantissa), and
// converted back to an exact uint64.
func limbProductFMA(a, b uint64) u128 {
	aLo, aHi := float64(a&halfLimbMask), float64(a>>halfLimbBits)
	bLo, bHi := float64(b&halfLimbMask), float64(b>>halfLimbBits)

	pLL := uint64(math.FMA(aLo, bLo, 0))
	pLH := uint64(math.FMA(aLo, bHi, 0))
	pHL := uint64(math.FMA(aHi, bLo, 0))
	pHH := uint64(math.FMA(aHi, bHi, 0))

	term := u128{hi: 0, lo: pLL}
	crossSum := pLH + pHL
	term = term.add(u128{hi: 0, lo: crossSum}.shl(halfLimbBits))
	term = term.add(u128{hi: 0, lo: pHH}.shl(2 * halfLimbBits))
	return term
}

// mulFMA is the FMA-accelerated Montgomery multiply, selected by
// selectKernel when the CPU advertises FMA3 support. Its output must be
// bit-identical to mulInt's for all weakly-reduced inputs — the property
// enforced by the generic mulWith reduction shared between the two.
func mulFMA(x, y Elt) Elt {
	return mulWith(x, y, limbProductFMA)
}
