// Package widefield implements Montgomery-form base-field arithmetic for
// BLS12-381's G1 (a 381-bit prime, exceeding the 255-bit envelope package
// field's 5x51 kernel assumes), represented as sixteen unsaturated 29-bit
// limbs — the integer-only fallback shape §4.1 describes for primes wider
// than the FMA kernel's bound, generalized here to be the only path this
// package offers rather than a fallback alongside an FMA path, since a
// double's 52-bit mantissa cannot exactly hold a 29x29-bit product's
// carry-propagated accumulation the way it holds a 51x51 split's halves.
package widefield

import "math/big"

const limbBits = 29
const numLimbs = 16
const limbMask = (uint64(1) << limbBits) - 1

// Elt is a base-field element, sixteen limbs each holding a non-negative
// value below 2^30 in weakly-reduced form.
type Elt [numLimbs]uint64

// Modulus is BLS12-381's base-field prime p in 29-bit limbs.
var Modulus = Elt{
	0x1fffaaab, 0xff7ffff, 0x14ffffee, 0x17fffd62, 0xf6241ea, 0x9507b58,
	0xafd9cc3, 0x109e70a2, 0x1764774b, 0x121a5d66, 0x12c6e9ed, 0x12ffcd34,
	0x111ea3, 0xd, 0x0, 0x0,
}

// r is R = 2^464 mod p, i.e. 1 in Montgomery form.
var r = Elt{
	0xc09d50, 0xf9bedd5, 0xd36b21, 0x1cb7644d, 0x7077be8, 0x18ad5032,
	0x1a8c1e9d, 0xa76a673, 0x65e3c7e, 0xd47f55a, 0xcf764f0, 0x1f25a7c0,
	0xbf69384, 0x1, 0x0, 0x0,
}

// r2 is R^2 mod p.
var r2 = Elt{
	0x16be821c, 0x21ae17a, 0xa3619b7, 0x1f09f3a4, 0x1fa2f238, 0x1552bbb7,
	0x1eb915d3, 0x1a31bc6b, 0xb7586a9, 0x1c23b633, 0x1ee47f61, 0xe8039f6,
	0x1702f656, 0xb, 0x0, 0x0,
}

const negPInv29 uint64 = 0x1ffcfffd

func Zero() Elt { return Elt{} }
func One() Elt  { return r }

func (e Elt) IsZero() bool {
	for _, l := range e {
		if l != 0 {
			return false
		}
	}
	return true
}

func normalizeWeak(e Elt) Elt {
	var carry uint64
	for i := 0; i < numLimbs-1; i++ {
		e[i] += carry
		carry = e[i] >> limbBits
		e[i] &= limbMask
	}
	e[numLimbs-1] += carry
	return e
}

// FullyReduce canonicalises e to a value < p via lexicographic limb
// comparison against p followed by a conditional subtraction.
func FullyReduce(e Elt) Elt {
	e = normalizeWeak(e)
	lt := false
	for i := numLimbs - 1; i >= 0; i-- {
		if e[i] > Modulus[i] {
			break
		}
		if e[i] < Modulus[i] {
			lt = true
			break
		}
	}
	if lt {
		return e
	}
	var out Elt
	var borrow int64
	for i := 0; i < numLimbs; i++ {
		v := int64(e[i]) - int64(Modulus[i]) - borrow
		if v < 0 {
			v += 1 << limbBits
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = uint64(v)
	}
	return out
}

// Reduce brings a value that may be up to a few multiples of p back under
// p by repeated conditional subtraction — widefield has no tight
// weakly-reduced envelope the way package field's pU threshold does, so
// this loops rather than doing a single-shot subtraction.
func Reduce(e Elt) Elt {
	e = normalizeWeak(e)
	for {
		out, ok := trySub(e)
		if !ok {
			return e
		}
		e = out
	}
}

func trySub(e Elt) (Elt, bool) {
	var out Elt
	var borrow int64
	for i := 0; i < numLimbs; i++ {
		v := int64(e[i]) - int64(Modulus[i]) - borrow
		if v < 0 {
			v += 1 << limbBits
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = uint64(v)
	}
	if borrow == 1 {
		return e, false
	}
	return out, true
}

func FromBig(x *big.Int) Elt {
	v := new(big.Int).Mod(x, modulusBig())
	var raw Elt
	tmp := new(big.Int).Set(v)
	mask := new(big.Int).SetUint64(limbMask)
	for i := 0; i < numLimbs; i++ {
		raw[i] = new(big.Int).And(tmp, mask).Uint64()
		tmp.Rsh(tmp, limbBits)
	}
	return Mul(raw, r2)
}

func ToBig(e Elt) *big.Int {
	one := Elt{1}
	raw := FullyReduce(Mul(e, one))
	out := new(big.Int)
	for i := numLimbs - 1; i >= 0; i-- {
		out.Lsh(out, limbBits)
		out.Or(out, new(big.Int).SetUint64(raw[i]))
	}
	return out
}

var modulusBigCache *big.Int

func modulusBig() *big.Int {
	if modulusBigCache == nil {
		out := new(big.Int)
		for i := numLimbs - 1; i >= 0; i-- {
			out.Lsh(out, limbBits)
			out.Or(out, new(big.Int).SetUint64(Modulus[i]))
		}
		modulusBigCache = out
	}
	return modulusBigCache
}

func SetBytes(b []byte) Elt {
	return FromBig(new(big.Int).SetBytes(b))
}

func Bytes(e Elt) [48]byte {
	var out [48]byte
	ToBig(e).FillBytes(out[:])
	return out
}
