package scalar

import "math/big"

// GLV lattice basis vectors for BN254's scalar field, derived via a
// half-extended-Euclidean-algorithm reduction of the (1, -lambda) lattice:
// (a1,b1) and (a2,b2) satisfy a1 + b1*lambda == 0 mod r and a2 + b2*lambda
// == 0 mod r, with |a1|,|b1|,|a2|,|b2| all within half the bit width of r
// (at most 127 bits here, comfortably under the 128-bit half-scalar bound
// Decompose relies on).
var (
	glvA1 = bigFromDec("9931322734385697763")
	glvB1 = new(big.Int).Neg(bigFromDec("147946756881789319000765030803803410728"))
	glvA2 = bigFromDec("147946756881789319010696353538189108491")
	glvB2 = bigFromDec("9931322734385697763")
)

func bigFromDec(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("scalar: invalid GLV constant " + s)
	}
	return v
}

// Decomposed holds the two half-width scalars and their signs produced by
// Decompose: k == k1*sign1 + k2*sign2*lambda mod r, with k1, k2 both
// non-negative and at most 128 bits.
type Decomposed struct {
	K1     Sc
	K1Neg  bool
	K2     Sc
	K2Neg  bool
}

// Decompose splits k into k1, k2 via Babai rounding against the GLV
// lattice basis, so that k1 + k2*lambda == k mod r with both halves near
// 128 bits — half the width of a full scalar, which is what lets the
// endomorphism trick roughly halve the number of doublings in a
// double-and-add scalar multiplication. Grounded on spec.md §4.3's
// decompose description; the rounding-division arithmetic uses math/big
// rather than a hand-rolled fixed-point approximation, for the same
// reason Mul's wide reduction does — an exact big.Int division is not a
// place to risk an unverified rounding bug.
func Decompose(k Sc) Decomposed {
	kBig := ToBig(k)

	c1 := roundedDiv(new(big.Int).Mul(glvB2, kBig), orderBig)
	negB1K := new(big.Int).Mul(new(big.Int).Neg(glvB1), kBig)
	c2 := roundedDiv(negB1K, orderBig)

	k1 := new(big.Int).Sub(kBig, new(big.Int).Mul(c1, glvA1))
	k1.Sub(k1, new(big.Int).Mul(c2, glvA2))

	k2 := new(big.Int).Mul(c1, glvB1)
	k2.Neg(k2)
	k2.Sub(k2, new(big.Int).Mul(c2, glvB2))

	var d Decomposed
	if k1.Sign() < 0 {
		d.K1Neg = true
		k1.Neg(k1)
	}
	if k2.Sign() < 0 {
		d.K2Neg = true
		k2.Neg(k2)
	}
	d.K1 = FromBig(k1)
	d.K2 = FromBig(k2)
	return d
}

// roundedDiv computes round(num/den) for a signed numerator and a
// positive denominator, rounding half away from zero.
func roundedDiv(num, den *big.Int) *big.Int {
	neg := num.Sign() < 0
	n := new(big.Int).Abs(num)
	q, r := new(big.Int).QuoRem(n, den, new(big.Int))
	twice := new(big.Int).Lsh(r, 1)
	if twice.Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if neg {
		q.Neg(q)
	}
	return q
}
