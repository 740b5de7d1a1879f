// Package field implements the Montgomery-form base-field arithmetic for
// BN254's G1 (a 254-bit prime satisfying p+2^206 < 2^255), represented as
// five unsaturated 51-bit limbs per limb-field-kernel design.
package field

import (
	"crypto/subtle"
	"encoding/binary"
	"math/big"
)

// limbBits is the width of each unsaturated limb.
const limbBits = 51

// limbMask isolates the low limbBits bits of a uint64.
const limbMask = (uint64(1) << limbBits) - 1

// Elt is a base-field element, five limbs each holding a non-negative
// value. Canonical form is value < p; weakly-reduced form is value <
// p + 2^204. All nonzero elements are stored multiplied by R = 2^255 mod p
// (Montgomery form).
type Elt [5]uint64

// Modulus is p in 51-bit limbs, little-endian limb order.
var Modulus = Elt{
	0x8c16d87cfd47,
	0x22d0e3951a784,
	0x60561765e05aa,
	0x14dc2822db40,
	0x30644e72e131a,
}

// r is R = 2^255 mod p in Montgomery form's own representation, i.e. 1 in
// Montgomery form.
var r = Elt{
	0x6e7d24f060572,
	0x3a5e38d5cb0f7,
	0x3f53d1343f4ab,
	0x7d647afba497e,
	0x1f37631a3d9cb,
}

// r2 is R^2 mod p, used to convert an integer into Montgomery form via one
// Montgomery multiplication.
var r2 = Elt{
	0x3621c8b01fdf4,
	0x519e5b664497a,
	0x3c2d8544d6883,
	0x2a91fff6c96b1,
	0xdcf3b792afa7,
}

// negPInv51 is (-p)^-1 mod 2^51, the Montgomery reduction factor for a
// single limb.
const negPInv51 uint64 = 0x20782e4866389

// pU holds the weak-reduction threshold used by Reduce, p_U =
// (p4+1)*2^204. Reduce compares only the top limb, pU[4] = p4+1; the lower
// limbs are p's own and are not read.
var pU = Elt{
	Modulus[0],
	Modulus[1],
	Modulus[2],
	Modulus[3],
	Modulus[4] + 1,
}

// Zero returns the additive identity (also the canonical representation of
// zero — the only element not carried in Montgomery form).
func Zero() Elt { return Elt{} }

// One returns the multiplicative identity in Montgomery form.
func One() Elt { return r }

// IsZero reports whether e is the additive identity. e must be weakly
// reduced or canonical; a value congruent to 0 mod p but not literally all
// zero limbs (e.g. p itself) is not treated as zero — callers normalize
// first via FullyReduce when that distinction matters.
func (e Elt) IsZero() bool {
	return e[0] == 0 && e[1] == 0 && e[2] == 0 && e[3] == 0 && e[4] == 0
}

// Equal reports whether two fully-reduced elements are identical, using a
// constant-time byte comparison so callers doing curve-membership checks on
// secret data do not leak timing.
func (e Elt) Equal(o Elt) bool {
	var ea, oa [40]byte
	putLimbs(ea[:], e)
	putLimbs(oa[:], o)
	return subtle.ConstantTimeCompare(ea[:], oa[:]) == 1
}

func putLimbs(dst []byte, e Elt) {
	for i, limb := range e {
		binary.LittleEndian.PutUint64(dst[i*8:], limb)
	}
}

// Cmov sets e to o if cond == 1, leaves e unchanged if cond == 0. cond must
// be exactly 0 or 1.
func (e *Elt) Cmov(o Elt, cond uint64) {
	mask := -cond
	for i := range e {
		e[i] ^= mask & (e[i] ^ o[i])
	}
}

// normalizeWeak propagates limb carries so every limb is < 2^52 (the
// float-view precondition), without asserting the value is < p. The result
// remains weakly reduced.
func normalizeWeak(e Elt) Elt {
	var carry uint64
	for i := 0; i < 4; i++ {
		e[i] += carry
		carry = e[i] >> limbBits
		e[i] &= limbMask
	}
	e[4] += carry
	return e
}

// Reduce brings a value below 2p into the weakly-reduced envelope
// (< p + 2^204) by subtracting p once if the top limb signals the value is
// at or above p_U = (p4+1)*2^204. O(1) — a single conditional
// subtraction, no comparison loop.
func Reduce(e Elt) Elt {
	e = normalizeWeak(e)
	if e[4] < pU[4] {
		return e
	}
	var sub Elt
	var borrow int64
	for i := 0; i < 5; i++ {
		v := int64(e[i]) - int64(Modulus[i]) - borrow
		if v < 0 {
			v += 1 << limbBits
			borrow = 1
		} else {
			borrow = 0
		}
		sub[i] = uint64(v)
	}
	return normalizeWeak(sub)
}

// FullyReduce canonicalises a value known to be < 2p to a value < p via
// lexicographic limb comparison against p (most-significant limb first)
// followed by a conditional subtraction.
func FullyReduce(e Elt) Elt {
	e = normalizeWeak(e)
	lt := false
	for i := 4; i >= 0; i-- {
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
	for i := 0; i < 5; i++ {
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

// FromBig converts a big.Int (interpreted mod p) into Montgomery form.
func FromBig(x *big.Int) Elt {
	v := new(big.Int).Mod(x, modulusBig())
	var raw Elt
	bytesToLimbs(&raw, v)
	return Mul(raw, r2)
}

// ToBig converts a Montgomery-form element back to a canonical big.Int in
// [0, p).
func ToBig(e Elt) *big.Int {
	one := Elt{1, 0, 0, 0, 0}
	raw := FullyReduce(Mul(e, one))
	out := new(big.Int)
	for i := 4; i >= 0; i-- {
		out.Lsh(out, limbBits)
		out.Or(out, new(big.Int).SetUint64(raw[i]))
	}
	return out
}

func bytesToLimbs(dst *Elt, v *big.Int) {
	tmp := new(big.Int).Set(v)
	mask := new(big.Int).SetUint64(limbMask)
	for i := 0; i < 5; i++ {
		limb := new(big.Int).And(tmp, mask)
		dst[i] = limb.Uint64()
		tmp.Rsh(tmp, limbBits)
	}
}

var modulusBigCache *big.Int

func modulusBig() *big.Int {
	if modulusBigCache == nil {
		out := new(big.Int)
		for i := 4; i >= 0; i-- {
			out.Lsh(out, limbBits)
			out.Or(out, new(big.Int).SetUint64(Modulus[i]))
		}
		modulusBigCache = out
	}
	return modulusBigCache
}

// SetBytes decodes a 32-byte big-endian canonical coordinate (§6 point
// encoding) into Montgomery form.
func SetBytes(b []byte) Elt {
	v := new(big.Int).SetBytes(b)
	return FromBig(v)
}

// Bytes encodes e as a 32-byte big-endian canonical coordinate.
func Bytes(e Elt) [32]byte {
	var out [32]byte
	ToBig(e).FillBytes(out[:])
	return out
}
