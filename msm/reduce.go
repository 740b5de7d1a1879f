package msm

import "github.com/mitschabaude/msm-zprize/curve"

// column identifies one (window, bucket-range) slice: the unit of work
// §4.8 splits C8 into, each covering buckets [lstart, lstart+length) of
// window wi.
type column struct {
	wi, lstart, length int
}

// reduceBuckets implements C8: after C7, bucket[l] (its sum sitting at
// bucketBase[l], per accumulateBuckets) holds the sum of every point
// placed there. Each window is split into column slices of width c0 (the
// sub-window width named in §4.6), so that a single wide window's
// reduction is load-balanced across the whole worker pool rather than
// pinned to one worker per window — the cross-thread balancing §4.8
// describes. Every column is computed independently via columnSum, then
// a window's partition sum is the plain vector sum of its columns.
func (e *Engine) reduceBuckets(prep *prepared, c0 int) ([]curve.PP, error) {
	var columns []column
	for wi := range prep.windows {
		l := prep.windows[wi].l
		for lstart := 1; lstart <= l; lstart += c0 {
			length := c0
			if lstart+length-1 > l {
				length = l - lstart + 1
			}
			columns = append(columns, column{wi: wi, lstart: lstart, length: length})
		}
	}

	columnSums := make([]curve.PP, len(columns))
	err := e.pool.Barrier(func(worker, nWorkers int) error {
		for ci := worker; ci < len(columns); ci += nWorkers {
			col := columns[ci]
			columnSums[ci] = columnSum(&prep.windows[col.wi], col.lstart, col.length)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	partitions := make([]curve.PP, len(prep.windows))
	for i := range partitions {
		partitions[i] = curve.InfinityPP()
	}
	for ci, col := range columns {
		partitions[col.wi] = curve.Add(partitions[col.wi], columnSums[ci])
	}
	return partitions, nil
}

// columnSum computes triangle + (lstart-1)*row for the buckets
// [lstart, lstart+length) of win, per §4.8: triangle is
// sum((i+1)*bucket[lstart+i]) for i in [0, length) via the running-row
// trick (O(length) additions, no scalar multiplications), and the
// (lstart-1)*row correction re-bases that local weighting onto the
// window's true bucket labels via double-and-add (O(log lstart)). The
// first column of every window has lstart == 1, so the correction term
// vanishes there, matching the single-column-per-window shape this
// function generalizes.
func columnSum(win *window, lstart, length int) curve.PP {
	row := curve.InfinityPP()
	triangle := curve.InfinityPP()
	for i := length - 1; i >= 0; i-- {
		l := lstart + i
		start, end := win.bucketBase[l], win.boundary[l]
		var sum curve.PA
		if end > start {
			sum = win.points[start]
		} else {
			sum = curve.Identity()
		}
		row = curve.AddAffinePP(row, sum)
		triangle = curve.Add(triangle, row)
	}
	if lstart > 1 {
		triangle = curve.Add(triangle, doubleAndAdd(row, lstart-1))
	}
	return triangle
}

// doubleAndAdd computes n*p for a small non-negative n via the standard
// double-and-add ladder, the O(log n) scalar multiplication columnSum's
// (lstart-1)*row correction needs.
func doubleAndAdd(p curve.PP, n int) curve.PP {
	result := curve.InfinityPP()
	base := p
	for n > 0 {
		if n&1 == 1 {
			result = curve.Add(result, base)
		}
		base = curve.Double(base)
		n >>= 1
	}
	return result
}

// combine implements C9: the Horner-style fold of per-window partition
// sums into the final MSM result, serial on the calling goroutine since
// it is a vanishingly small fraction of total runtime (§4.9).
func combine(partitions []curve.PP, c int) curve.PP {
	if len(partitions) == 0 {
		return curve.InfinityPP()
	}
	s := partitions[len(partitions)-1]
	for k := len(partitions) - 2; k >= 0; k-- {
		for i := 0; i < c; i++ {
			s = curve.Double(s)
		}
		s = curve.Add(s, partitions[k])
	}
	return s
}
