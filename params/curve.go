// Package params is the curve-parameter registry: the external
// collaborator that hands the engine a concrete modulus, order,
// generator, and endomorphism pair. It is explicitly out of the core's
// scope (curve arithmetic itself lives in field/scalar/curve) but its
// contract is load-bearing, so it lives here as a small, dependency-free
// package the engine and the CLI both import.
package params

import "math/big"

// Endomorphism holds the GLV constants for a curve: lambda (a cube root
// of unity in the scalar field) and beta (a cube root of unity in the
// base field) satisfying [lambda]*(x,y) = (beta*x, y).
type Endomorphism struct {
	Lambda *big.Int
	Beta   *big.Int
}

// Curve is the external contract named in spec.md §6: modulus, order,
// cofactor, Weierstrass coefficients, generator, and (if present) an
// endomorphism for GLV decomposition.
type Curve struct {
	Name        string
	Modulus     *big.Int
	Order       *big.Int
	Cofactor    *big.Int
	A, B        *big.Int
	GeneratorX  *big.Int
	GeneratorY  *big.Int
	Endo        *Endomorphism
	// WidePrime reports whether this curve's base field exceeds the
	// 255-bit envelope the 5x51 kernel is built for, per spec.md §1's
	// Non-goals — such curves are served by the widefield/widecurve
	// packages instead of field/curve.
	WidePrime bool
}

func hex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		panic("params: invalid constant " + s)
	}
	return v
}

// BN254 returns the parameters for the BN254 (alt_bn128) curve's G1 group:
// a 254-bit base field satisfying p+2^206 < 2^255, the primary curve for
// the 5x51 FMA kernel and the full parallel Pippenger pipeline.
func BN254() Curve {
	return Curve{
		Name:       "bn254",
		Modulus:    hex("0x30644e72e131a029b85045b68181585d97816a916871ca8d3c208c16d87cfd47"),
		Order:      hex("0x30644e72e131a029b85045b68181585d2833e84879b9709143e1f593f0000001"),
		Cofactor:   big.NewInt(1),
		A:          big.NewInt(0),
		B:          big.NewInt(3),
		GeneratorX: big.NewInt(1),
		GeneratorY: big.NewInt(2),
		Endo: &Endomorphism{
			Lambda: hex("0xb3c4d79d41a917585bfc41088d8daaa78b17ea66b99c90dd"),
			Beta:   hex("0x59e26bcea0d48bacd4f263f1acdb5c4f5763473177fffffe"),
		},
		WidePrime: false,
	}
}

// BLS12381 returns the parameters for BLS12-381's G1 group: a 381-bit
// base field, exceeding the core kernel's 255-bit bound per spec.md §1's
// Non-goals, served by the widefield/widecurve packages instead.
func BLS12381() Curve {
	return Curve{
		Name:       "bls12-381",
		Modulus:    hex("0x1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab"),
		Order:      hex("0x73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001"),
		Cofactor:   hex("0x396c8c005555e1568c00aaab0000aaab"),
		A:          big.NewInt(0),
		B:          big.NewInt(4),
		GeneratorX: hex("0x17f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb"),
		GeneratorY: hex("0x08b3f481e3aaa0f1a09e30ed741d8ae4fcf5e095d5d00af600db18cb2c04b3edd03cc744a2888ae40caa232946c5e7e1"),
		Endo:       nil,
		WidePrime:  true,
	}
}
