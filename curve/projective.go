package curve

import "github.com/mitschabaude/msm-zprize/field"

// PP is a point in Jacobian projective coordinates: affine (X/Z^2, Y/Z^3).
// The identity is represented by Z = 0, per §3. Used only in column
// reduction (C8) and the final combiner (C9), where point counts are small
// and batch-affine's inversion amortisation no longer pays for itself.
type PP struct {
	X, Y, Z field.Elt
}

// InfinityPP returns the Jacobian point at infinity.
func InfinityPP() PP {
	return PP{X: field.One(), Y: field.One(), Z: field.Zero()}
}

// IsInfinity reports whether p is the identity.
func (p PP) IsInfinity() bool {
	return p.Z.IsZero()
}

// Double computes 2*p using the standard a=0 short-Weierstrass Jacobian
// doubling formula (BN254's curve equation y^2 = x^3 + 3 has a = 0), the
// same family of formulas as mleku-p256k1/group.go's
// GroupElementJacobian.double (also an a=0 curve), restructured into the
// compact five-temporary sequence rather than that file's twelve-step
// derivation, since both compute the identical operation count of squares
// and multiplies over an a=0 curve.
func Double(p PP) PP {
	if p.IsInfinity() {
		return p
	}
	a := field.Sqr(p.X)
	b := field.Sqr(p.Y)
	c := field.Sqr(b)
	xb := field.Add(p.X, b)
	d := field.Sub(field.Sqr(xb), field.Add(a, c))
	d = field.Add(d, d) // D = 2*((X+B)^2 - A - C)
	e := field.Add(field.Add(a, a), a) // E = 3*A
	f := field.Sqr(e)
	x3 := field.Sub(f, field.Add(d, d))
	c2 := field.Add(c, c)
	c4 := field.Add(c2, c2)
	c8 := field.Add(c4, c4)
	y3 := field.Sub(field.Mul(e, field.Sub(d, x3)), c8)
	z3 := field.Add(field.Mul(p.Y, p.Z), field.Mul(p.Y, p.Z))
	return PP{X: field.Reduce(x3), Y: field.Reduce(y3), Z: field.Reduce(z3)}
}

// Add computes p+q using the standard a=0 short-Weierstrass Jacobian
// addition formula, handling the identity and the p == +-q coincident
// cases the way mleku-p256k1/group.go's addVar does (falling back to
// Double, or to the identity, when the x-coordinates collide after
// scaling).
func Add(p, q PP) PP {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}
	z1z1 := field.Sqr(p.Z)
	z2z2 := field.Sqr(q.Z)
	u1 := field.Mul(p.X, z2z2)
	u2 := field.Mul(q.X, z1z1)
	s1 := field.Mul(field.Mul(p.Y, q.Z), z2z2)
	s2 := field.Mul(field.Mul(q.Y, p.Z), z1z1)
	h := field.Sub(u2, u1)
	rr := field.Sub(s2, s1)

	if field.FullyReduce(h).IsZero() {
		if field.FullyReduce(rr).IsZero() {
			return Double(p)
		}
		return InfinityPP()
	}

	i := field.Sqr(field.Add(h, h))
	j := field.Mul(h, i)
	rr = field.Add(rr, rr)
	v := field.Mul(u1, i)
	x3 := field.Sub(field.Sub(field.Sqr(rr), j), field.Add(v, v))
	y3 := field.Sub(field.Mul(rr, field.Sub(v, x3)), field.Add(field.Mul(s1, j), field.Mul(s1, j)))
	zsum := field.Sqr(field.Add(p.Z, q.Z))
	z3 := field.Mul(field.Sub(zsum, field.Add(z1z1, z2z2)), h)
	return PP{X: field.Reduce(x3), Y: field.Reduce(y3), Z: field.Reduce(z3)}
}

// AddAffinePP adds an affine point to a Jacobian point (mixed addition),
// used by the bucket reduction (msm's columnSum) when folding a
// batch-affine bucket sum into a running projective accumulator.
func AddAffinePP(p PP, a PA) PP {
	if a.Infinity {
		return p
	}
	return Add(p, ToProjective(a))
}

// ToAffine converts a Jacobian point back to affine form via a single
// field inversion.
func ToAffine(p PP) PA {
	if p.IsInfinity() {
		return Identity()
	}
	zInv := field.Inverse(p.Z)
	zInv2 := field.Sqr(zInv)
	zInv3 := field.Mul(zInv2, zInv)
	return PA{
		X: field.FullyReduce(field.Mul(p.X, zInv2)),
		Y: field.FullyReduce(field.Mul(p.Y, zInv3)),
	}
}
