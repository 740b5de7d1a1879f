package widefield

import "math/big"

func Add(x, y Elt) Elt {
	var sum Elt
	for i := 0; i < numLimbs; i++ {
		sum[i] = x[i] + y[i]
	}
	return Reduce(sum)
}

func Sub(x, y Elt) Elt {
	x = normalizeWeak(x)
	y = normalizeWeak(y)
	var out Elt
	var borrow int64
	for i := 0; i < numLimbs; i++ {
		v := int64(x[i]) - int64(y[i]) - borrow
		if v < 0 {
			v += 1 << limbBits
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = uint64(v)
	}
	if borrow == 1 {
		var out2 Elt
		var carry uint64
		for i := 0; i < numLimbs; i++ {
			out[i] += carry + Modulus[i]
			carry = out[i] >> limbBits
			out2[i] = out[i] & limbMask
		}
		out = out2
	}
	return Reduce(out)
}

func Negate(x Elt) Elt {
	if x.IsZero() {
		return Elt{}
	}
	return Sub(Elt{}, x)
}

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

var pMinus2 = func() *big.Int {
	return new(big.Int).Sub(modulusBig(), big.NewInt(2))
}()

func Inverse(x Elt) Elt {
	return Pow(x, pMinus2)
}

func BatchInverse(src []Elt) []Elt {
	n := len(src)
	dst := make([]Elt, n)
	if n == 0 {
		return dst
	}
	prefix := make([]Elt, n)
	acc := One()
	for i, v := range src {
		prefix[i] = acc
		acc = Mul(acc, v)
	}
	accInv := Inverse(acc)
	for i := n - 1; i >= 0; i-- {
		dst[i] = Mul(prefix[i], accInv)
		accInv = Mul(accInv, src[i])
	}
	return dst
}

var sqrtExponent = func() *big.Int {
	p := modulusBig()
	four := big.NewInt(4)
	sum := new(big.Int).Add(p, big.NewInt(1))
	q, r := new(big.Int).QuoRem(sum, four, new(big.Int))
	if r.Sign() != 0 {
		panic("widefield: modulus is not 3 mod 4; Sqrt's fast path is invalid")
	}
	return q
}()

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
