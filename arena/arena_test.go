package arena

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitschabaude/msm-zprize/field"
)

func TestAllocFieldReturnsDistinctSlots(t *testing.T) {
	a := New()
	p := a.AllocField(4)
	*a.Field(p) = field.FromBig(big.NewInt(1))
	*a.Field(p + 1) = field.FromBig(big.NewInt(2))
	assert.NotEqual(t, *a.Field(p), *a.Field(p+1))
}

func TestFieldSliceSharesBackingArray(t *testing.T) {
	a := New()
	p := a.AllocField(3)
	s := a.FieldSlice(p, 3)
	s[1] = field.FromBig(big.NewInt(42))
	assert.Equal(t, field.FromBig(big.NewInt(42)), *a.Field(p+1))
}

func TestSaveReleaseRoundTrip(t *testing.T) {
	a := New()
	a.AllocField(2)
	a.CommitGlobal()

	mark := a.Save()
	a.AllocField(10)
	a.AllocPoints(5)
	a.Release(mark)

	assert.Equal(t, FieldPtr(2), a.AllocField(1))
}

func TestReleaseIntoGlobalRegionPanics(t *testing.T) {
	a := New()
	a.AllocField(5)
	a.CommitGlobal()

	mark := Mark{fields: 0, points: 0}
	require.Panics(t, func() { a.Release(mark) })
}

func TestPointSliceLength(t *testing.T) {
	a := New()
	p := a.AllocPoints(6)
	s := a.PointSlice(p, 6)
	assert.Len(t, s, 6)
}
