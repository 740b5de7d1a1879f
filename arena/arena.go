// Package arena implements the flat memory region an MSM run allocates
// its scratch points and field elements from, addressed by stable integer
// handles rather than pointers, per the memory-layout design note: the
// batched algorithms depend on a linear layout, so points and field
// elements live in one contiguous, growable slice per kind, and callers
// pass around FieldPtr/PointPtr offsets instead of *Elt/*PA.
package arena

import (
	"github.com/mitschabaude/msm-zprize/curve"
	"github.com/mitschabaude/msm-zprize/field"
)

// FieldPtr is a stable offset into an Arena's field-element region.
type FieldPtr int

// PointPtr is a stable offset into an Arena's affine-point region.
type PointPtr int

// Mark is a save-point in the local (stack-like) region, returned by Save
// and consumed by Release to pop every allocation made since.
type Mark struct {
	fields int
	points int
}

// Arena owns every field element and affine point an MSM run touches.
// The global region (indices below globalFieldEnd/globalPointEnd) lives
// for the engine instance; everything allocated afterward is local scratch
// that a scope releases via Release when it exits, mirroring §3's
// global/local region split.
type Arena struct {
	fields []field.Elt
	points []curve.PA

	globalFieldEnd int
	globalPointEnd int
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{}
}

// CommitGlobal freezes everything allocated so far as the global region:
// a later Release to a Mark below this point panics. Until it is called
// the global region is empty; msm.Create does not call it.
func (a *Arena) CommitGlobal() {
	a.globalFieldEnd = len(a.fields)
	a.globalPointEnd = len(a.points)
}

// AllocField reserves n field-element slots and returns the pointer to
// the first.
func (a *Arena) AllocField(n int) FieldPtr {
	start := len(a.fields)
	a.fields = append(a.fields, make([]field.Elt, n)...)
	return FieldPtr(start)
}

// AllocPoints reserves n affine-point slots and returns the pointer to
// the first.
func (a *Arena) AllocPoints(n int) PointPtr {
	start := len(a.points)
	a.points = append(a.points, make([]curve.PA, n)...)
	return PointPtr(start)
}

// Field dereferences a FieldPtr.
func (a *Arena) Field(p FieldPtr) *field.Elt {
	return &a.fields[p]
}

// FieldSlice returns the n field elements starting at p as a slice backed
// by the arena — mutations through it are visible to other holders of
// the same range, matching the shared-arena, phase-disjoint-writes model
// worker threads use.
func (a *Arena) FieldSlice(p FieldPtr, n int) []field.Elt {
	return a.fields[p : int(p)+n]
}

// Point dereferences a PointPtr.
func (a *Arena) Point(p PointPtr) *curve.PA {
	return &a.points[p]
}

// PointSlice returns the n affine points starting at p as a slice backed
// by the arena.
func (a *Arena) PointSlice(p PointPtr, n int) []curve.PA {
	return a.points[p : int(p)+n]
}

// Save returns a Mark capturing the current local-region high-water mark.
func (a *Arena) Save() Mark {
	return Mark{fields: len(a.fields), points: len(a.points)}
}

// Release pops every allocation made since m was captured, refusing to
// pop into the global region — a configuration error (§7 kind 3) that
// indicates a scope tried to release scratch it never owned.
func (a *Arena) Release(m Mark) {
	if m.fields < a.globalFieldEnd || m.points < a.globalPointEnd {
		panic("arena: release would free the global region")
	}
	a.fields = a.fields[:m.fields]
	a.points = a.points[:m.points]
}
