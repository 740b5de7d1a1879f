// Package curve implements BN254 G1 point arithmetic on top of package
// field: affine points with a precomputed-inverse addition law, the GLV
// endomorphism, and the projective operations used by bucket reduction.
package curve

import (
	"github.com/mitschabaude/msm-zprize/field"
	"github.com/mitschabaude/msm-zprize/params"
)

// PA is an affine point. When Infinity is true, X/Y are not meaningful and
// the value denotes the group identity.
type PA struct {
	X, Y     field.Elt
	Infinity bool
}

// beta is BN254's base-field cube root of unity, converted to Montgomery
// form once at package init: [lambda]*(x, y) = (beta*x, y).
var beta = field.FromBig(params.BN254().Endo.Beta)

// Identity returns the affine point at infinity.
func Identity() PA { return PA{Infinity: true} }

// Endo applies the GLV endomorphism: endo(x, y) = (beta*x, y).
func Endo(p PA) PA {
	if p.Infinity {
		return p
	}
	return PA{X: field.Mul(beta, p.X), Y: p.Y}
}

// Negate returns -p: (x, -y), or the identity if p is the identity. y=0 is
// its own negation, matching the field's Negate(0) = 0.
func Negate(p PA) PA {
	if p.Infinity {
		return p
	}
	return PA{X: p.X, Y: field.Negate(p.Y)}
}

// Equal compares two affine points for equality using fully-reduced limb
// comparison, per §4.2's isEqual contract.
func Equal(a, b PA) bool {
	if a.Infinity || b.Infinity {
		return a.Infinity == b.Infinity
	}
	return field.FullyReduce(a.X) == field.FullyReduce(b.X) &&
		field.FullyReduce(a.Y) == field.FullyReduce(b.Y)
}

// AddAffine computes A+B given a precomputed inverse d = 1/(x2-x1). It is
// total only when A, B are both non-zero and x1 != x2 — callers otherwise
// route through the safe batch-add classification in package curve's
// batch.go, per §4.4.
func AddAffine(a, b PA, d field.Elt) PA {
	m := field.Mul(field.Sub(b.Y, a.Y), d)
	x3 := field.Sub(field.Sub(field.Sqr(m), a.X), b.X)
	y3 := field.Sub(field.Mul(m, field.Sub(a.X, x3)), a.Y)
	return PA{X: field.FullyReduce(x3), Y: field.FullyReduce(y3)}
}

// DoubleAffine computes 2*A given a precomputed inverse d = 1/(2*y_A),
// using the tangent-slope variant of the chord formula: m =
// (3*x^2)*d, x3 = m^2 - 2x, y3 = m*(x-x3) - y.
func DoubleAffine(a PA, d field.Elt) PA {
	three := field.Add(field.Add(field.Sqr(a.X), field.Sqr(a.X)), field.Sqr(a.X))
	m := field.Mul(three, d)
	x3 := field.Sub(field.Sqr(m), field.Add(a.X, a.X))
	y3 := field.Sub(field.Mul(m, field.Sub(a.X, x3)), a.Y)
	return PA{X: field.FullyReduce(x3), Y: field.FullyReduce(y3)}
}

// ToProjective lifts an affine point into Jacobian coordinates.
func ToProjective(a PA) PP {
	if a.Infinity {
		return PP{X: field.One(), Y: field.One(), Z: field.Zero()}
	}
	return PP{X: a.X, Y: a.Y, Z: field.One()}
}
