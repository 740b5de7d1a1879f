package field

import "github.com/klauspost/cpuid/v2"

// mulFn is the shape shared by mulFMA and mulInt: Montgomery multiply,
// weakly-reduced in, weakly-reduced out.
type mulFn func(x, y Elt) Elt

// kernel is resolved once, at package init, from the host CPU's FMA3
// support rather than a build tag or a per-call branch — the
// compile/instantiation-time flag the limb kernel design calls for.
var kernel = selectKernel()

func selectKernel() mulFn {
	if cpuid.CPU.Supports(cpuid.FMA3) {
		return mulFMA
	}
	return mulInt
}

// Mul multiplies two weakly-reduced elements using whichever kernel this
// process selected at init time. Callers that need to force a specific
// kernel (property tests asserting the two agree) call mulFMA/mulInt
// directly.
func Mul(x, y Elt) Elt {
	return kernel(x, y)
}

// Sqr squares a weakly-reduced element.
func Sqr(x Elt) Elt {
	return kernel(x, x)
}
