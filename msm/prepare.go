package msm

import (
	"sync/atomic"

	"github.com/mitschabaude/msm-zprize/curve"
	"github.com/mitschabaude/msm-zprize/scalar"
)

// halfScalarBits bounds |k1|, |k2| from scalar.Decompose: comfortably
// under 128 bits per the GLV lattice basis, plus one bit of headroom for
// the rare rounding overshoot, so every decomposed half fits in
// halfScalarBits bits without truncation.
const halfScalarBits = 129

// window describes one of the K windows shared by both GLV halves: a
// contiguous run of buckets, laid out end to end in a single points
// slice with bucketBase/boundary offsets per §3's bucket-layout model.
type window struct {
	c          int // this window's bit width (the top window may be narrower)
	l          int // number of buckets, 2^(c-1)
	bucketBase []int32
	boundary   []int32
	points     []curve.PA
}

// prepared is the output of the sort/prepare stage: one window struct per
// k, ready for bucket accumulation.
type prepared struct {
	windows       []window
	maxBucketSize int
}

func windowWidthAt(c, k int) int {
	remaining := halfScalarBits - k*c
	if remaining > c {
		return c
	}
	return remaining
}

// prepare implements C6: point expansion, GLV decomposition, signed
// window slicing with carry, and a three-pass counting sort of point
// variants into per-window bucket arrays. Point expansion and scalar
// decomposition/window-slicing run on the calling goroutine (each
// touches only its own point's disjoint output slots, so splitting them
// across the pool buys nothing a later pass doesn't already buy more
// cheaply); the counting sort's pass 1 (tally) and pass 3 (copy) run
// across the worker pool with atomic fetch-add on the shared per-bucket
// counters, per §4.6/§5 — only pass 2 (the prefix sum turning tallies
// into offsets, and the arena allocation that depends on it) stays
// single-threaded, since it is an inherently sequential O(L) scan with
// nothing to parallelize.
func (e *Engine) prepare(scalars []scalar.Sc, points []curve.PA, c int, safe bool) (*prepared, error) {
	n := len(points)
	k := (halfScalarBits + c - 1) / c

	expanded := make([][4]curve.PA, n)
	for i, p := range points {
		endo := curve.Endo(p)
		expanded[i] = [4]curve.PA{p, curve.Negate(p), endo, curve.Negate(endo)}
	}

	v := 2 * n
	labels := make([][]int32, k)
	negFlags := make([][]bool, k)
	for kk := range labels {
		labels[kk] = make([]int32, v)
		negFlags[kk] = make([]bool, v)
	}

	for i, s := range scalars {
		d := scalar.Decompose(s)
		for h := 0; h < 2; h++ {
			half := d.K1
			baseNeg := d.K1Neg
			if h == 1 {
				half = d.K2
				baseNeg = d.K2Neg
			}
			vi := 2*i + h
			var carry uint32
			for kk := 0; kk < k; kk++ {
				w := windowWidthAt(c, kk)
				label, carryOut := scalar.SignedWindow(half, uint(kk*c), uint(w), carry)
				carry = carryOut
				if label != 0 {
					labels[kk][vi] = int32(label)
					negFlags[kk][vi] = baseNeg != (carryOut == 1)
				}
			}
		}
	}

	ls := make([]int, k)
	ws := make([]int, k)
	for kk := 0; kk < k; kk++ {
		ws[kk] = windowWidthAt(c, kk)
		ls[kk] = 1 << uint(ws[kk]-1)
	}

	// Pass 1: tally each window's bucket populations across the pool,
	// partitioning by point-variant index so every worker touches a
	// disjoint slice of labels but the same shared counts[kk] arrays —
	// hence the atomic fetch-add, per §4.6 step 4's "atomically
	// increment bucketCount[k][l]".
	counts := make([][]int32, k)
	for kk := range counts {
		counts[kk] = make([]int32, ls[kk]+1)
	}
	if err := e.pool.Barrier(func(worker, nWorkers int) error {
		rng := e.pool.Range(v, worker)
		for vi := rng.Start; vi < rng.End; vi++ {
			for kk := 0; kk < k; kk++ {
				if lbl := labels[kk][vi]; lbl != 0 {
					atomic.AddInt32(&counts[kk][lbl], 1)
				}
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Pass 2: single-threaded prefix sum turning each window's tallies
	// into start/boundary offsets, per §4.6 step 5. bufCursors[kk] is
	// seeded from start and advanced atomically during pass 3.
	windows := make([]window, k)
	bufCursors := make([][]int32, k)
	maxBucketSize := 0

	for kk := 0; kk < k; kk++ {
		l := ls[kk]
		count := counts[kk]

		// start[i] is bucket i's first slot, boundary[i] its end,
		// i in [1, l]; index 0 is unused (bucket labels are 1-based).
		start := make([]int32, l+1)
		boundary := make([]int32, l+1)
		var running int32
		for i := 1; i <= l; i++ {
			start[i] = running
			running += count[i]
			boundary[i] = running
			if int(count[i]) > maxBucketSize {
				maxBucketSize = int(count[i])
			}
		}

		bufPtr := e.arena.AllocPoints(int(running))
		buf := e.arena.PointSlice(bufPtr, int(running))
		cursor := make([]int32, l+1)
		copy(cursor, start)
		bufCursors[kk] = cursor

		windows[kk] = window{
			c:          ws[kk],
			l:          l,
			bucketBase: start,
			boundary:   boundary,
			points:     buf,
		}
	}

	// Pass 3: copy each point variant into its bucket slot across the
	// pool, partitioning by point index; the destination slot for a
	// given (i, h, kk) is claimed by an atomic fetch-add on that
	// bucket's cursor, per §4.6 step 6.
	if err := e.pool.Barrier(func(worker, nWorkers int) error {
		rng := e.pool.Range(n, worker)
		for i := rng.Start; i < rng.End; i++ {
			for h := 0; h < 2; h++ {
				vi := 2*i + h
				for kk := 0; kk < k; kk++ {
					lbl := labels[kk][vi]
					if lbl == 0 {
						continue
					}
					variant := h * 2
					if negFlags[kk][vi] {
						variant++
					}
					slot := atomic.AddInt32(&bufCursors[kk][lbl], 1) - 1
					windows[kk].points[slot] = expanded[i][variant]
				}
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &prepared{windows: windows, maxBucketSize: maxBucketSize}, nil
}
