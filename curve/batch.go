package curve

import "github.com/mitschabaude/msm-zprize/field"

// pointClass tags how each (G, H) pair in a safe batch-add must be
// resolved once the shared batch inversion is available.
type pointClass uint8

const (
	classCopyH pointClass = iota // G is infinity: S = H
	classCopyG                   // H is infinity: S = G
	classDouble                  // G == H: S = 2G
	classInfinity               // G == -H: S = infinity
	classAdd                    // general case
)

// BatchAdd computes S[i] = G[i] + H[i] for i in [0, n) using one shared
// field inversion, per §4.5. The safe variant classifies every pair
// (identity operand, equal points, opposite points, or the general case)
// before packing denominators into a dense buffer for the single
// batchInverse call — the same "classify, densify, invert once" shape as
// mleku-p256k1/field.go's inverseAll amortisation, generalised from one
// vector of inverses to the mixed add/double denominators C7 needs.
func BatchAdd(g, h []PA, n int) []PA {
	classes := make([]pointClass, n)
	denomSrc := make([]field.Elt, 0, n)
	denomSlot := make([]int, n)

	for i := 0; i < n; i++ {
		switch {
		case g[i].Infinity:
			classes[i] = classCopyH
		case h[i].Infinity:
			classes[i] = classCopyG
		case field.FullyReduce(g[i].X) == field.FullyReduce(h[i].X):
			if field.FullyReduce(g[i].Y) == field.FullyReduce(h[i].Y) {
				if g[i].Y.IsZero() {
					classes[i] = classInfinity
				} else {
					classes[i] = classDouble
					denomSlot[i] = len(denomSrc)
					denomSrc = append(denomSrc, field.Add(g[i].Y, g[i].Y))
				}
			} else {
				classes[i] = classInfinity
			}
		default:
			classes[i] = classAdd
			denomSlot[i] = len(denomSrc)
			denomSrc = append(denomSrc, field.Sub(h[i].X, g[i].X))
		}
	}

	inv := field.BatchInverse(denomSrc)

	out := make([]PA, n)
	for i := 0; i < n; i++ {
		switch classes[i] {
		case classCopyH:
			out[i] = h[i]
		case classCopyG:
			out[i] = g[i]
		case classInfinity:
			out[i] = Identity()
		case classDouble:
			out[i] = DoubleAffine(g[i], inv[denomSlot[i]])
		case classAdd:
			out[i] = AddAffine(g[i], h[i], inv[denomSlot[i]])
		}
	}
	return out
}

// BatchAddUnsafe assumes every G[i], H[i] is non-zero and x_G[i] != x_H[i]
// — the caller's contract when inputs are statistically random enough
// that the edge cases BatchAdd guards against are negligible (§4.5).
func BatchAddUnsafe(g, h []PA, n int) []PA {
	denom := make([]field.Elt, n)
	for i := 0; i < n; i++ {
		denom[i] = field.Sub(h[i].X, g[i].X)
	}
	inv := field.BatchInverse(denom)
	out := make([]PA, n)
	for i := 0; i < n; i++ {
		out[i] = AddAffine(g[i], h[i], inv[i])
	}
	return out
}

// BatchDoubleInPlace doubles every non-infinity point in g, in place,
// using one shared inversion for the whole slice.
func BatchDoubleInPlace(g []PA, n int) {
	denomSrc := make([]field.Elt, 0, n)
	slot := make([]int, n)
	skip := make([]bool, n)
	for i := 0; i < n; i++ {
		if g[i].Infinity || g[i].Y.IsZero() {
			skip[i] = true
			continue
		}
		slot[i] = len(denomSrc)
		denomSrc = append(denomSrc, field.Add(g[i].Y, g[i].Y))
	}
	inv := field.BatchInverse(denomSrc)
	for i := 0; i < n; i++ {
		if skip[i] {
			continue
		}
		g[i] = DoubleAffine(g[i], inv[slot[i]])
	}
}
