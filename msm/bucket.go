package msm

import "github.com/mitschabaude/msm-zprize/curve"

// accumulateBuckets implements C7: pairs each bucket's points in
// doubling-stride tree passes so that batchAdd/batchAddUnsafe amortizes
// one field inversion over every independent pair at that level, across
// every window and every bucket simultaneously — the same "collect the
// whole level's pairs, invert once" shape §4.7 describes. When safe is
// false, only the first pass (m == 1, pairs of distinct input points)
// uses batchAddUnsafe; later passes, whose partial sums can coincide or
// cancel, always use the safe batchAdd. Runs across
// the worker pool, one window per chunk, since each window's tree
// reduction is independent of every other window's.
func (e *Engine) accumulateBuckets(prep *prepared, safe bool) error {
	if prep.maxBucketSize <= 1 {
		return nil
	}
	return e.pool.Barrier(func(worker, nWorkers int) error {
		for wi := worker; wi < len(prep.windows); wi += nWorkers {
			reduceWindowTree(&prep.windows[wi], safe)
		}
		return nil
	})
}

func reduceWindowTree(win *window, safe bool) {
	pts := win.points
	for m := 1; ; m *= 2 {
		found := false
		for l := 1; l <= win.l; l++ {
			start, end := win.bucketBase[l], win.boundary[l]
			if end-start > int32(m) {
				found = true
				break
			}
		}
		if !found {
			break
		}

		var gs, hs []curve.PA
		var dstIdx []int

		for l := 1; l <= win.l; l++ {
			start, end := int(win.bucketBase[l]), int(win.boundary[l])
			for ptr := start; ptr < end; ptr += 2 * m {
				if ptr+m < end {
					gs = append(gs, pts[ptr])
					hs = append(hs, pts[ptr+m])
					dstIdx = append(dstIdx, ptr)
				}
			}
		}
		if len(gs) == 0 {
			continue
		}

		var sums []curve.PA
		if safe || m > 1 {
			sums = curve.BatchAdd(gs, hs, len(gs))
		} else {
			sums = curve.BatchAddUnsafe(gs, hs, len(gs))
		}
		for i, idx := range dstIdx {
			pts[idx] = sums[i]
		}
	}
}
