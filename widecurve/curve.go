// Package widecurve implements BLS12-381 G1 point arithmetic on package
// widefield. Unlike package curve, it exposes a single non-parallel
// double-and-add ScalarMul rather than the full batched-affine Pippenger
// pipeline — see msm/wide_engine.go and DESIGN.md's Open Question
// decision for why the wide path trades throughput for a much smaller,
// easier-to-hand-verify implementation.
package widecurve

import "github.com/mitschabaude/msm-zprize/widefield"

// PA is an affine point; Infinity denotes the group identity.
type PA struct {
	X, Y     widefield.Elt
	Infinity bool
}

// PP is a Jacobian projective point; the identity has Z = 0.
type PP struct {
	X, Y, Z widefield.Elt
}

func Identity() PA             { return PA{Infinity: true} }
func InfinityPP() PP           { return PP{X: widefield.One(), Y: widefield.One(), Z: widefield.Zero()} }
func (p PP) IsInfinity() bool  { return p.Z.IsZero() }

// Equal compares two affine points via fully-reduced limb equality, the
// same shape as package curve's Equal.
func Equal(a, b PA) bool {
	if a.Infinity || b.Infinity {
		return a.Infinity == b.Infinity
	}
	return widefield.FullyReduce(a.X) == widefield.FullyReduce(b.X) &&
		widefield.FullyReduce(a.Y) == widefield.FullyReduce(b.Y)
}

func ToProjective(a PA) PP {
	if a.Infinity {
		return InfinityPP()
	}
	return PP{X: a.X, Y: a.Y, Z: widefield.One()}
}

func ToAffine(p PP) PA {
	if p.IsInfinity() {
		return Identity()
	}
	zInv := widefield.Inverse(p.Z)
	zInv2 := widefield.Sqr(zInv)
	zInv3 := widefield.Mul(zInv2, zInv)
	return PA{
		X: widefield.FullyReduce(widefield.Mul(p.X, zInv2)),
		Y: widefield.FullyReduce(widefield.Mul(p.Y, zInv3)),
	}
}

// Double computes 2*p using the standard a=0 short-Weierstrass Jacobian
// doubling formula (BLS12-381's y^2 = x^3 + 4 also has a = 0), the same
// formula shape as package curve's Double, restated here over widefield
// since Go's concrete-type style (no shared generic kernel, per the
// design notes' compile-time-not-runtime guidance) means each field has
// its own curve arithmetic rather than one generic implementation.
func Double(p PP) PP {
	if p.IsInfinity() {
		return p
	}
	f := widefield.Mul
	sq := widefield.Sqr
	add := widefield.Add
	sub := widefield.Sub

	a := sq(p.X)
	b := sq(p.Y)
	c := sq(b)
	xb := add(p.X, b)
	d := sub(sq(xb), add(a, c))
	d = add(d, d)
	e := add(add(a, a), a)
	fe := sq(e)
	x3 := sub(fe, add(d, d))
	c2 := add(c, c)
	c4 := add(c2, c2)
	c8 := add(c4, c4)
	y3 := sub(f(e, sub(d, x3)), c8)
	z3 := add(f(p.Y, p.Z), f(p.Y, p.Z))
	return PP{X: widefield.Reduce(x3), Y: widefield.Reduce(y3), Z: widefield.Reduce(z3)}
}

// Add computes p+q, handling the identity and coincident/opposite x
// cases the way package curve's Add does.
func Add(p, q PP) PP {
	if p.IsInfinity() {
		return q
	}
	if q.IsInfinity() {
		return p
	}
	mul, sq, add, sub := widefield.Mul, widefield.Sqr, widefield.Add, widefield.Sub

	z1z1 := sq(p.Z)
	z2z2 := sq(q.Z)
	u1 := mul(p.X, z2z2)
	u2 := mul(q.X, z1z1)
	s1 := mul(mul(p.Y, q.Z), z2z2)
	s2 := mul(mul(q.Y, p.Z), z1z1)
	h := sub(u2, u1)
	rr := sub(s2, s1)

	if widefield.FullyReduce(h).IsZero() {
		if widefield.FullyReduce(rr).IsZero() {
			return Double(p)
		}
		return InfinityPP()
	}

	i := sq(add(h, h))
	j := mul(h, i)
	rr = add(rr, rr)
	v := mul(u1, i)
	x3 := sub(sub(sq(rr), j), add(v, v))
	y3 := sub(mul(rr, sub(v, x3)), add(mul(s1, j), mul(s1, j)))
	zsum := sq(add(p.Z, q.Z))
	z3 := mul(sub(zsum, add(z1z1, z2z2)), h)
	return PP{X: widefield.Reduce(x3), Y: widefield.Reduce(y3), Z: widefield.Reduce(z3)}
}

// ScalarMul computes k*P via left-to-right binary double-and-add, walking
// k's bits from the most significant down to the least. k is a
// little-endian 32-byte unsigned integer per spec.md's scalar encoding
// (the same convention scalar.Sc's SetBytes/Bytes implement) — byte 0 is
// least significant, and within each byte bit 0 is least significant, so
// the most significant bit overall is bit 7 of k[31].
func ScalarMul(k [32]byte, p PA) PP {
	acc := InfinityPP()
	base := ToProjective(p)
	for bit := 255; bit >= 0; bit-- {
		acc = Double(acc)
		byteIdx := bit / 8
		bitIdx := uint(bit % 8)
		if k[byteIdx]&(1<<bitIdx) != 0 {
			acc = Add(acc, base)
		}
	}
	return acc
}
