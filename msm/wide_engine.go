package msm

import (
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mitschabaude/msm-zprize/params"
	"github.com/mitschabaude/msm-zprize/widecurve"
	"github.com/mitschabaude/msm-zprize/widefield"
)

// WideEngine serves curves whose base field exceeds the 255-bit bound
// the batched-affine Pippenger pipeline is built for (§1's Non-goals),
// BLS12-381 in particular. It computes the sum via a plain per-point
// double-and-add rather than the sort/bucket/reduce/combine pipeline —
// an explicit, documented scope reduction (see DESIGN.md's Open
// Question decision) rather than a second full 16x29 Pippenger
// implementation, since the wide path exists to keep the wider prime
// exercised at all, not to match the core kernel's throughput.
type WideEngine struct {
	curve  params.Curve
	logger *zap.Logger
}

// CreateWide builds a WideEngine. Only a curve flagged WidePrime is
// accepted — a sub-255-bit curve belongs to Engine instead.
func CreateWide(p params.Curve, logger *zap.Logger) (*WideEngine, error) {
	if !p.WidePrime {
		return nil, errWideExpected(p.Name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WideEngine{curve: p, logger: logger}, nil
}

func errWideExpected(name string) error {
	return &wideCurveError{name: name}
}

type wideCurveError struct{ name string }

func (e *wideCurveError) Error() string {
	return "msm: curve " + e.name + " fits the 255-bit kernel; use Engine instead"
}

// Msm computes sum(scalars[i] * points[i]) by accumulating each term with
// widecurve.ScalarMul and widecurve.Add. There is no bucket structure and
// no worker pool involvement — every term is independent, so a caller
// wanting parallelism can already shard the input and sum partial
// results itself.
func (e *WideEngine) Msm(scalars [][32]byte, points []widecurve.PA) (widecurve.PP, error) {
	if len(scalars) != len(points) {
		return widecurve.PP{}, errors.New("msm: scalars and points length mismatch")
	}
	acc := widecurve.InfinityPP()
	for i, s := range scalars {
		term := widecurve.ScalarMul(s, points[i])
		acc = widecurve.Add(acc, term)
	}
	return acc, nil
}

// WideToBigint converts a WideEngine affine result to canonical big.Ints.
func WideToBigint(a widecurve.PA) (x, y *big.Int, infinity bool) {
	if a.Infinity {
		return nil, nil, true
	}
	return widefield.ToBig(a.X), widefield.ToBig(a.Y), false
}
