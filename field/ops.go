package field

import "math/big"

// Add computes x+y for weakly-reduced x, y. Two operands each below
// p+2^204 can sum to just over 2p, one conditional-subtraction pass short
// of weakly reduced again, so Reduce is applied twice — still O(1), just
// two candidate subtractions instead of one.
func Add(x, y Elt) Elt {
	var sum Elt
	for i := 0; i < 5; i++ {
		sum[i] = x[i] + y[i]
	}
	return Reduce(Reduce(sum))
}

// Sub computes x-y for weakly-reduced x, y. A negative intermediate limb
// is corrected by conditionally adding p once, and — in the rare case the
// first addition still leaves a limb negative — a second time, per
// spec.md §4.2.
func Sub(x, y Elt) Elt {
	diff, neg := subLimbs(x, y)
	if neg {
		xp := addP(x)
		diff, neg = subLimbs(xp, y)
		if neg {
			diff, _ = subLimbs(addP(xp), y)
		}
	}
	return Reduce(diff)
}

func addP(x Elt) Elt {
	var out Elt
	for i := 0; i < 5; i++ {
		out[i] = x[i] + Modulus[i]
	}
	return normalizeWeak(out)
}

// subLimbs computes x-y limbwise, reporting whether the topmost limb went
// negative (borrow escaped the representation). Inputs are normalised
// first so every limb starts inside [0, 2^52) and borrow tracking is
// well-defined.
func subLimbs(x, y Elt) (Elt, bool) {
	x = normalizeWeak(x)
	y = normalizeWeak(y)
	var out Elt
	var borrow int64
	for i := 0; i < 5; i++ {
		v := int64(x[i]) - int64(y[i]) - borrow
		if v < 0 {
			v += 1 << limbBits
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = uint64(v)
	}
	return out, borrow == 1
}

// Negate returns p-x (or 0 if x is 0).
func Negate(x Elt) Elt {
	if x.IsZero() {
		return Elt{}
	}
	return Sub(Elt{}, x)
}

// Pow computes x^n via left-to-right binary exponentiation: bitlen(n)
// squarings plus popcount(n) multiplications.
func Pow(x Elt, n *big.Int) Elt {
	result := One()
	for i := n.BitLen() - 1; i >= 0; i-- {
		result = Sqr(result)
		if n.Bit(i) == 1 {
			result = Mul(result, x)
		}
	}
	return result
}

// Inverse computes the multiplicative inverse of a nonzero element using
// Kaliski's almost-inverse algorithm (extended binary GCD), per spec.md
// §4.2. Calling it on zero is a precondition violation (§7 kind 1);
// callers guarantee non-zero via an explicit IsZero check first.
//
// x is taken to its plain (non-Montgomery) integer value, run through
// kaliskiInverse, and the plain result is converted back into Montgomery
// form by FromBig — which already multiplies by R^2 and reduces, so it
// plays the role of the "post-correction by a precomputed power of two"
// spec.md describes: kaliskiInverse's own phase 2 removes the 2^k factor
// the binary-GCD phase leaves behind, and FromBig supplies the R factor
// Montgomery form needs.
func Inverse(x Elt) Elt {
	if x.IsZero() {
		panic("field: Inverse called on zero")
	}
	return FromBig(kaliskiInverse(ToBig(x), modulusBig()))
}

// kaliskiInverse computes x^-1 mod p via Kaliski's almost-inverse
// algorithm. Phase 1 is an extended binary GCD using only shifts and
// add/subtract on (u, v, r, s), terminating with r = x^-1 * 2^k mod p for
// some k in [bitlen(p), 2*bitlen(p)]. Phase 2 removes the 2^k factor by
// repeated conditional-add-then-halve, leaving the exact inverse. The
// bookkeeping runs on math/big rather than fixed-width limb arithmetic
// for the same reason scalar.Mul's wide reduction and scalar.Decompose's
// rounding division do: the four-way branch here is easy to get subtly
// wrong in hand-rolled limb code, and nothing about Inverse is so
// performance-critical that it is worth that risk over an exact,
// easy-to-verify big.Int loop.
func kaliskiInverse(x, p *big.Int) *big.Int {
	u := new(big.Int).Set(p)
	v := new(big.Int).Set(x)
	r := big.NewInt(0)
	s := big.NewInt(1)
	two := big.NewInt(2)
	k := 0

	for v.Sign() > 0 {
		switch {
		case u.Bit(0) == 0:
			u.Rsh(u, 1)
			s.Mul(s, two)
		case v.Bit(0) == 0:
			v.Rsh(v, 1)
			r.Mul(r, two)
		case u.Cmp(v) > 0:
			u.Sub(u, v)
			u.Rsh(u, 1)
			r.Add(r, s)
			s.Mul(s, two)
		default:
			v.Sub(v, u)
			v.Rsh(v, 1)
			s.Add(s, r)
			r.Mul(r, two)
		}
		k++
	}

	if r.Cmp(p) >= 0 {
		r.Sub(r, p)
	}
	r.Sub(p, r)

	for i := 0; i < k; i++ {
		if r.Bit(0) != 0 {
			r.Add(r, p)
		}
		r.Rsh(r, 1)
	}
	return r.Mod(r, p)
}

// BatchInverse computes the modular inverse of every element in src via
// Montgomery's trick: one inversion plus 3(n-1) multiplications. Entries
// where src[i] is zero must be filtered by the caller — the contract
// mirrors mleku-p256k1/field.go's batchInverse.
func BatchInverse(src []Elt) []Elt {
	n := len(src)
	dst := make([]Elt, n)
	if n == 0 {
		return dst
	}
	prefix := make([]Elt, n)
	prefix[0] = src[0]
	for i := 1; i < n; i++ {
		prefix[i] = Mul(prefix[i-1], src[i])
	}
	accInv := Inverse(prefix[n-1])
	for i := n - 1; i > 0; i-- {
		dst[i] = Mul(prefix[i-1], accInv)
		accInv = Mul(accInv, src[i])
	}
	dst[0] = accInv
	return dst
}

// sqrtExponent is (p+1)/4, the exponent of the p ≡ 3 (mod 4) square-root
// formula x^((p+1)/4) that Sqrt evaluates with Pow.
var sqrtExponent = func() *big.Int {
	p := modulusBig()
	four := big.NewInt(4)
	sum := new(big.Int).Add(p, big.NewInt(1))
	q, r := new(big.Int).QuoRem(sum, four, new(big.Int))
	if r.Sign() != 0 {
		panic("field: modulus is not 3 mod 4; Sqrt's fast path is invalid")
	}
	return q
}()

// Sqrt computes a square root of src, if one exists. BN254's base field
// prime is 3 mod 4, so the fast exponentiation formula x^((p+1)/4)
// applies directly instead of the general Tonelli-Shanks loop spec.md
// §4.2 describes for the general case — verified below by squaring the
// candidate and comparing, exactly the check general Tonelli-Shanks needs
// too, so no residue table is required for this curve's field.
func Sqrt(src Elt) (Elt, bool) {
	if src.IsZero() {
		return Elt{}, true
	}
	candidate := Pow(src, sqrtExponent)
	if FullyReduce(Sqr(candidate)) == FullyReduce(src) {
		return candidate, true
	}
	return Elt{}, false
}
